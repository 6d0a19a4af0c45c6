package packer

import (
	"archive/tar"
	"compress/gzip"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

// PackageProduct creates a distribution package for a converted
// product: every regular file in sourceDir goes into
// <outputDir>/<productID>.tar.gz, and the MD5 checksum of the finished
// tarball is written next to it as <productID>_MD5.txt in the
// conventional "<sum>  <name>" form. Both output names are returned.
func PackageProduct(sourceDir, productID, outputDir string) (string, string, error) {
	tarballName := productID + ".tar.gz"
	checksumName := productID + "_MD5.txt"
	tarballPath := filepath.Join(outputDir, tarballName)
	checksumPath := filepath.Join(outputDir, checksumName)

	files, err := productFiles(sourceDir)
	if err != nil {
		return "", "", err
	}
	if len(files) == 0 {
		return "", "", fmt.Errorf("%w: no product files found in %s", espa.ErrValidation, sourceDir)
	}

	sum, err := writeTarball(tarballPath, sourceDir, files)
	if err != nil {
		return "", "", err
	}

	line := fmt.Sprintf("%x  %s\n", sum, tarballName)
	if err := os.WriteFile(checksumPath, []byte(line), 0o644); err != nil {
		return "", "", fmt.Errorf("%w: writing checksum file %s: %v", espa.ErrIO, checksumPath, err)
	}

	fmt.Printf("  Packaged %d files into %s\n", len(files), tarballPath)
	return tarballName, checksumName, nil
}

// productFiles lists the regular files under dir, sorted by name so
// package contents are reproducible.
func productFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading product directory %s: %v", espa.ErrIO, dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// writeTarball tars and gzips the named files, computing the MD5 of
// the compressed stream as it is written out.
func writeTarball(tarballPath, sourceDir string, files []string) ([]byte, error) {
	out, err := os.Create(tarballPath)
	if err != nil {
		return nil, fmt.Errorf("%w: creating tarball %s: %v", espa.ErrIO, tarballPath, err)
	}
	defer out.Close()

	hash := md5.New()
	gz := gzip.NewWriter(io.MultiWriter(out, hash))
	tw := tar.NewWriter(gz)

	for _, name := range files {
		if err := addFile(tw, sourceDir, name); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalizing tarball %s: %v", espa.ErrIO, tarballPath, err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalizing tarball %s: %v", espa.ErrIO, tarballPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalizing tarball %s: %v", espa.ErrIO, tarballPath, err)
	}
	return hash.Sum(nil), nil
}

func addFile(tw *tar.Writer, sourceDir, name string) error {
	path := filepath.Join(sourceDir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s for packaging: %v", espa.ErrIO, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stating %s: %v", espa.ErrIO, path, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("%w: describing %s: %v", espa.ErrIO, path, err)
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("%w: writing tar header for %s: %v", espa.ErrIO, name, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("%w: archiving %s: %v", espa.ErrIO, name, err)
	}
	return nil
}
