package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/gammazero/workerpool"
	"github.com/joho/godotenv"

	"github.com/espa-tools/espa-formatter/internal/convert"
	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/espa-tools/espa-formatter/internal/inventory"
	"github.com/espa-tools/espa-formatter/internal/packer"
	"github.com/espa-tools/espa-formatter/internal/properties"
	"github.com/espa-tools/espa-formatter/output"
)

func printBanner() {
	figure1 := figure.NewFigure("ESPA", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan("  Landsat LPGS <-> ESPA format converter")
	fmt.Println()
}

func usage() {
	fmt.Println("Usage: espa-formatter <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  lpgs-to-espa --mtl <file> [--xml <file>] [--del-src] [--sr-st-only]")
	fmt.Println("  espa-to-gtif --xml <file> --gtif <base> [--del-src]")
	fmt.Println("  batch [--workers <n>] [--del-src] [--sr-st-only] <mtl-file>...")
	fmt.Println("  inventory --xml <file> [--csv <file>]")
	fmt.Println("  browse --xml <file> --band <name> [--png <file>]")
	fmt.Println("  package --source <dir> --product-id <id> [--out <dir>]")
}

// parseArgs splits a raw argument list into a flag map and the
// remaining positional arguments. Flags either take a value
// (--flag value) or are boolean switches, per the boolFlags set.
func parseArgs(args []string, boolFlags map[string]bool) (map[string]string, []string, error) {
	flags := map[string]string{}
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			positional = append(positional, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if boolFlags[name] {
			flags[name] = "true"
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("missing value for --%s", name)
		}
		i++
		flags[name] = args[i]
	}
	return flags, positional, nil
}

func runLPGSToESPA(args []string) error {
	flags, _, err := parseArgs(args, map[string]bool{"del-src": true, "sr-st-only": true})
	if err != nil {
		return err
	}
	mtlFile := flags["mtl"]
	if mtlFile == "" {
		return fmt.Errorf("--mtl is required")
	}
	xmlFile := flags["xml"]
	if xmlFile == "" {
		xmlFile = defaultXMLName(mtlFile)
	}
	return convert.LPGSToESPA(mtlFile, xmlFile, flags["del-src"] == "true", flags["sr-st-only"] == "true")
}

// defaultXMLName derives the metadata output name from the MTL file
// name, next to the MTL file.
func defaultXMLName(mtlFile string) string {
	base := filepath.Base(mtlFile)
	base = strings.TrimSuffix(base, ".txt")
	base = strings.TrimSuffix(base, "_MTL")
	return filepath.Join(filepath.Dir(mtlFile), base+".xml")
}

func runESPAToGTIF(args []string) error {
	flags, _, err := parseArgs(args, map[string]bool{"del-src": true})
	if err != nil {
		return err
	}
	xmlFile := flags["xml"]
	gtifBase := flags["gtif"]
	if xmlFile == "" || gtifBase == "" {
		return fmt.Errorf("--xml and --gtif are required")
	}
	return convert.ESPAToGTIF(xmlFile, gtifBase, flags["del-src"] == "true")
}

// runBatch converts several independent scenes concurrently. Each
// scene runs its own single-threaded pipeline; the pool only bounds
// how many scenes are in flight at once.
func runBatch(args []string) error {
	flags, mtlFiles, err := parseArgs(args, map[string]bool{"del-src": true, "sr-st-only": true})
	if err != nil {
		return err
	}
	if len(mtlFiles) == 0 {
		return fmt.Errorf("at least one MTL file is required")
	}
	workers := 4
	if v := flags["workers"]; v != "" {
		workers, err = strconv.Atoi(v)
		if err != nil || workers < 1 {
			return fmt.Errorf("invalid --workers value: %s", v)
		}
	}
	delSrc := flags["del-src"] == "true"
	srSTOnly := flags["sr-st-only"] == "true"

	wp := workerpool.New(workers)
	var mu sync.Mutex
	var failures []string
	for _, mtlFile := range mtlFiles {
		mtlFile := mtlFile
		wp.Submit(func() {
			xmlFile := defaultXMLName(mtlFile)
			if err := convert.LPGSToESPA(mtlFile, xmlFile, delSrc, srSTOnly); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", mtlFile, err))
				mu.Unlock()
			}
		})
	}
	wp.StopWait()

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d scenes failed:\n  %s",
			len(failures), len(mtlFiles), strings.Join(failures, "\n  "))
	}
	fmt.Printf("Converted %d scenes\n", len(mtlFiles))
	return nil
}

func runInventory(args []string) error {
	flags, _, err := parseArgs(args, nil)
	if err != nil {
		return err
	}
	xmlFile := flags["xml"]
	if xmlFile == "" {
		return fmt.Errorf("--xml is required")
	}
	csvFile := flags["csv"]
	if csvFile == "" {
		csvFile = strings.TrimSuffix(xmlFile, ".xml") + "_bands.csv"
	}
	return inventory.WriteCSV(xmlFile, csvFile)
}

func runBrowse(args []string) error {
	flags, _, err := parseArgs(args, nil)
	if err != nil {
		return err
	}
	xmlFile := flags["xml"]
	bandName := flags["band"]
	if xmlFile == "" || bandName == "" {
		return fmt.Errorf("--xml and --band are required")
	}

	if err := espa.ValidateMetadataFile(xmlFile); err != nil {
		return err
	}
	meta, err := espa.ParseMetadata(xmlFile)
	if err != nil {
		return err
	}
	sourceDir := ""
	if strings.ContainsAny(xmlFile, `/\`) {
		sourceDir = filepath.Dir(xmlFile)
	}

	for i := range meta.Bands {
		b := &meta.Bands[i]
		if b.Name != bandName {
			continue
		}
		pngFile := flags["png"]
		if pngFile == "" {
			pngFile = fmt.Sprintf("%s_%s.png", meta.Global.ProductID, b.Name)
		}
		return output.CreateBrowseImage(b, sourceDir, pngFile)
	}
	return fmt.Errorf("%w: band %s not found in %s", espa.ErrValidation, bandName, xmlFile)
}

func runPackage(args []string) error {
	flags, _, err := parseArgs(args, nil)
	if err != nil {
		return err
	}
	sourceDir := flags["source"]
	productID := flags["product-id"]
	if sourceDir == "" || productID == "" {
		return fmt.Errorf("--source and --product-id are required")
	}
	outDir := flags["out"]
	if outDir == "" {
		outDir = properties.OutputDir()
	}
	_, _, err = packer.PackageProduct(sourceDir, productID, outDir)
	return err
}

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		printBanner()
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "lpgs-to-espa":
		err = runLPGSToESPA(os.Args[2:])
	case "espa-to-gtif":
		err = runESPAToGTIF(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "inventory":
		err = runInventory(os.Args[2:])
	case "browse":
		err = runBrowse(os.Args[2:])
	case "package":
		err = runPackage(os.Args[2:])
	case "help", "-h", "--help":
		printBanner()
		usage()
	default:
		bannercolor.Red("Unknown command: %s", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		bannercolor.Red("Error: %s", err.Error())
		os.Exit(1)
	}
}
