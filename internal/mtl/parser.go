package mtl

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/paulmach/orb"
)

// Maximum number of bands expected in one LPGS product. Exceeding it
// is a hard error, not a silent truncation.
const maxBands = 24

// bandInfo is the parser-local record for one vendor band, built
// incrementally while scanning the MTL groups and discarded once the
// metadata model is populated.
type bandInfo struct {
	id       string
	fname    string
	category string
	bandNum  string
	bnum     int
	vcid     int
	numbered bool
	dataType espa.DataType
	min, max float64
	gain, bias         float64
	reflGain, reflBias float64
	k1, k2             float64
}

func newBandInfo(id string) bandInfo {
	return bandInfo{
		id:       id,
		gain:     espa.FloatMetaFill,
		bias:     espa.FloatMetaFill,
		reflGain: espa.FloatMetaFill,
		reflBias: espa.FloatMetaFill,
		k1:       espa.FloatMetaFill,
		k2:       espa.FloatMetaFill,
	}
}

// bandTable indexes the vendor band records by label identifier while
// preserving the order the FILE_NAME_* labels were seen in.
type bandTable struct {
	order   []string
	entries map[string]*bandInfo
}

func newBandTable() *bandTable {
	return &bandTable{entries: make(map[string]*bandInfo)}
}

func (t *bandTable) add(info bandInfo) {
	t.order = append(t.order, info.id)
	t.entries[info.id] = &info
}

func (t *bandTable) lookup(id string) (*bandInfo, error) {
	info, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: band info not found for ID %s", espa.ErrValidation, id)
	}
	return info, nil
}

// dims is the per-resolution-bucket raster geometry recorded once per
// product (reflective, thermal, panchromatic).
type dims struct {
	lines, samps int
	pixelSize    [2]float64
}

func isSep(r rune) bool {
	return r == '=' || r == '"' || r == ' ' || r == '\t'
}

// ReadMTL reads an LPGS MTL metadata file and populates the internal
// metadata model. It returns the model plus an ordered list of the
// vendor raster file paths aligned by index with the band sequence.
func ReadMTL(mtlFile string) (*espa.Metadata, []string, error) {
	f, err := os.Open(mtlFile)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %s for read access: %v", espa.ErrIO, mtlFile, err)
	}
	defer f.Close()

	// Identify the source data directory.
	sourceDir := ""
	if strings.ContainsAny(mtlFile, `/\`) {
		sourceDir = filepath.Dir(mtlFile)
	}

	meta := espa.NewMetadata()
	g := &meta.Global
	table := newBandTable()

	var (
		group          string
		refl, therm, pan dims
		appVersion     string
		productLevel   string
		resampleMethod string
		urCorner       [2]float64
		llCorner       [2]float64
		gainBiasAvailable     bool
		reflGainBiasAvailable bool
	)

	parseFloat := func(label, value string, dst *float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: value not readable from %s = %s", espa.ErrValidation, label, value)
		}
		*dst = v
		return nil
	}
	parseInt := func(label, value string, dst *int) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: value not readable from %s = %s", espa.ErrValidation, label, value)
		}
		*dst = v
		return nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens := strings.FieldsFunc(scanner.Text(), isSep)
		if len(tokens) == 0 {
			continue
		}
		label := tokens[0]
		value := ""
		if len(tokens) > 1 {
			value = tokens[1]
		}

		if label == "GROUP" {
			group = value
			continue
		}
		if label == "END_GROUP" {
			group = ""
			continue
		}
		if label == "END" {
			break
		}

		switch group {
		case "LEVEL1_PROCESSING_RECORD":
			switch label {
			case "PROCESSING_SOFTWARE_VERSION":
				appVersion = value
			case "DATE_PRODUCT_GENERATED":
				g.Level1ProductionDate = value
			}

		case "IMAGE_ATTRIBUTES":
			switch label {
			case "SPACECRAFT_ID":
				sat, err := normalizeSatellite(value)
				if err != nil {
					return nil, nil, err
				}
				g.Satellite = sat
			case "SENSOR_ID":
				g.Instrument = value
			case "DATE_ACQUIRED":
				g.AcquisitionDate = value
			case "SCENE_CENTER_TIME":
				g.SceneCenterTime = value
			case "SUN_ELEVATION":
				var elev float64
				if err := parseFloat(label, value, &elev); err != nil {
					return nil, nil, err
				}
				g.SolarZenith = 90.0 - elev
			case "SUN_AZIMUTH":
				if err := parseFloat(label, value, &g.SolarAzimuth); err != nil {
					return nil, nil, err
				}
			case "EARTH_SUN_DISTANCE":
				if err := parseFloat(label, value, &g.EarthSunDist); err != nil {
					return nil, nil, err
				}
			case "WRS_PATH":
				if err := parseInt(label, value, &g.WRSPath); err != nil {
					return nil, nil, err
				}
			case "WRS_ROW":
				if err := parseInt(label, value, &g.WRSRow); err != nil {
					return nil, nil, err
				}
			}

		case "PROJECTION_ATTRIBUTES":
			if err := parseProjectionLabel(label, value, g, &refl, &therm, &pan,
				&urCorner, &llCorner, parseFloat, parseInt); err != nil {
				return nil, nil, err
			}

		case "LEVEL1_PROJECTION_PARAMETERS":
			if label == "RESAMPLING_OPTION" {
				switch value {
				case "CUBIC_CONVOLUTION":
					resampleMethod = "cubic convolution"
				case "NEAREST_NEIGHBOR":
					resampleMethod = "nearest neighbor"
				case "BILINEAR":
					resampleMethod = "bilinear"
				default:
					return nil, nil, fmt.Errorf("%w: unsupported resampling option %q", espa.ErrValidation, value)
				}
			}

		case "PRODUCT_CONTENTS":
			switch {
			case strings.HasPrefix(label, "FILE_NAME_"):
				info, ok := classify(strings.TrimPrefix(label, "FILE_NAME_"))
				if !ok {
					// File type not of interest.
					continue
				}
				info.fname = value
				table.add(info)
			case strings.HasPrefix(label, "DATA_TYPE_"):
				info, err := table.lookup(strings.TrimPrefix(label, "DATA_TYPE_"))
				if err != nil {
					return nil, nil, err
				}
				dt := espa.DataType(value)
				if dt.Size() == 0 {
					return nil, nil, fmt.Errorf("%w: unsupported data type %s", espa.ErrValidation, value)
				}
				info.dataType = dt
			case label == "LANDSAT_PRODUCT_ID":
				g.ProductID = value
			case label == "PROCESSING_LEVEL":
				productLevel = value
			}

		case "LEVEL1_MIN_MAX_PIXEL_VALUE":
			if strings.HasPrefix(label, "QUANTIZE_CAL_MIN_") || strings.HasPrefix(label, "QUANTIZE_CAL_MAX_") {
				info, err := table.lookup(label[len("QUANTIZE_CAL_MIN_"):])
				if err != nil {
					return nil, nil, err
				}
				var v float64
				if err := parseFloat(label, value, &v); err != nil {
					return nil, nil, err
				}
				if strings.HasPrefix(label, "QUANTIZE_CAL_MIN_") {
					info.min = v
				} else {
					info.max = v
				}
			}

		case "LEVEL1_RADIOMETRIC_RESCALING":
			switch {
			case strings.HasPrefix(label, "RADIANCE_MULT_"):
				info, err := table.lookup(strings.TrimPrefix(label, "RADIANCE_MULT_"))
				if err != nil {
					return nil, nil, err
				}
				if err := parseFloat(label, value, &info.gain); err != nil {
					return nil, nil, err
				}
				gainBiasAvailable = true
			case strings.HasPrefix(label, "RADIANCE_ADD_"):
				info, err := table.lookup(strings.TrimPrefix(label, "RADIANCE_ADD_"))
				if err != nil {
					return nil, nil, err
				}
				if err := parseFloat(label, value, &info.bias); err != nil {
					return nil, nil, err
				}
			case strings.HasPrefix(label, "REFLECTANCE_MULT_"):
				info, err := table.lookup(strings.TrimPrefix(label, "REFLECTANCE_MULT_"))
				if err != nil {
					return nil, nil, err
				}
				if err := parseFloat(label, value, &info.reflGain); err != nil {
					return nil, nil, err
				}
				reflGainBiasAvailable = true
			case strings.HasPrefix(label, "REFLECTANCE_ADD_"):
				info, err := table.lookup(strings.TrimPrefix(label, "REFLECTANCE_ADD_"))
				if err != nil {
					return nil, nil, err
				}
				if err := parseFloat(label, value, &info.reflBias); err != nil {
					return nil, nil, err
				}
			}

		case "LEVEL1_TIRS_THERMAL_CONSTANTS", "LEVEL1_THERMAL_CONSTANTS":
			if strings.HasPrefix(label, "K1_CONSTANT_") || strings.HasPrefix(label, "K2_CONSTANT_") {
				info, err := table.lookup(label[len("K1_CONSTANT_"):])
				if err != nil {
					return nil, nil, err
				}
				var v float64
				if err := parseFloat(label, value, &v); err != nil {
					return nil, nil, err
				}
				if label[1] == '1' {
					info.k1 = v
				} else {
					info.k2 = v
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %v", espa.ErrIO, mtlFile, err)
	}

	if err := validateSensor(g.Satellite, g.Instrument); err != nil {
		return nil, nil, err
	}
	if len(table.order) > maxBands {
		return nil, nil, fmt.Errorf("%w: the total band count of LPGS bands converted for this product (%d) exceeds the maximum expected (%d)",
			espa.ErrValidation, len(table.order), maxBands)
	}

	// Defaults that aren't in the MTL file.
	g.WRSSystem = 2
	g.OrientationAngle = 0.0
	g.DataProvider = "USGS/EROS"
	g.SolarUnits = "degrees"
	g.LPGSMetadataFile = mtlFile
	g.Projection.Units = "meters"
	// Corner projection coords in the MTL file are for the center of
	// the pixel. Given there are different resolution bands, leave the
	// corners as the center of the pixel.
	g.Projection.GridOrigin = "CENTER"

	code := shortNameCode(g.Satellite, g.Instrument)
	vendorFiles := make([]string, 0, len(table.order))

	for _, id := range table.order {
		info := table.entries[id]

		vendorFile := info.fname
		if sourceDir != "" {
			vendorFile = filepath.Join(sourceDir, info.fname)
		}
		vendorFiles = append(vendorFiles, vendorFile)

		b := espa.NewBand()
		b.Product = productLevel
		b.Category = info.category
		b.AppVersion = appVersion
		b.ValidRange = [2]float64{info.min, info.max}
		if gainBiasAvailable {
			b.RadGain = info.gain
			b.RadBias = info.bias
		}
		if reflGainBiasAvailable && info.category == "image" {
			// Reflectance gain/bias values don't exist for the thermal
			// bands, but the K constants do.
			if info.thermal(g.Instrument) {
				b.K1Const = info.k1
				b.K2Const = info.k2
			} else {
				b.ReflGain = info.reflGain
				b.ReflBias = info.reflBias
			}
		}
		b.DataUnits = "digital numbers"
		b.PixelUnits = "meters"
		b.ProductionDate = g.Level1ProductionDate
		b.ResampleMethod = resampleMethod
		b.DataType = info.dataType
		b.FillValue = 0
		b.ShortName = code

		name, longName, shortName := info.names(code)
		b.Name = name
		b.LongName = longName
		b.ShortName = shortName
		b.FileName = fmt.Sprintf("%s_%s.img", g.ProductID, b.Name)

		// Image size and resolution from the per-product buckets.
		switch {
		case info.thermal(g.Instrument):
			b.NLines, b.NSamps = therm.lines, therm.samps
			b.PixelSize = therm.pixelSize
		case info.bandNum == "8":
			// Both ETM+ and OLI band 8 are pan bands.
			b.NLines, b.NSamps = pan.lines, pan.samps
			b.PixelSize = pan.pixelSize
		default:
			b.NLines, b.NSamps = refl.lines, refl.samps
			b.PixelSize = refl.pixelSize
		}

		switch {
		case strings.HasPrefix(info.bandNum, "bqa"):
			if info.bandNum == qaRadsatName {
				b.DataUnits = "bitmap"
				b.BitmapDescription = radsatBitmap(g.Instrument)
			} else {
				b.DataUnits = "quality/feature classification"
				b.BitmapDescription = pixelQABitmap(g.Instrument)
			}
			b.ValidRange = [2]float64{0, 65535}
			b.RadGain = espa.FloatMetaFill
			b.RadBias = espa.FloatMetaFill

		case strings.Contains(info.bandNum, "zenith") || strings.Contains(info.bandNum, "azimuth"):
			b.ScaleFactor = 0.01
			b.AddOffset = 0.0
			minAngle := -180.0
			if strings.Contains(info.bandNum, "zenith") {
				minAngle = 0
			}
			b.ValidRange = [2]float64{
				minAngle/b.ScaleFactor + b.AddOffset,
				180.0/b.ScaleFactor + b.AddOffset,
			}
			b.RadGain = espa.FloatMetaFill
			b.RadBias = espa.FloatMetaFill
			b.DataUnits = "degrees"
		}

		meta.Bands = append(meta.Bands, b)
	}

	// Scene geographic bounds over the corner coordinates. Ascending
	// and polar scenes are flipped, so the UL corner may sit south of
	// the LR corner; min/max over all four corners is still correct.
	bounds, err := computeBounds([]orb.Point{
		{g.ULCorner[1], g.ULCorner[0]},
		{g.LRCorner[1], g.LRCorner[0]},
		{urCorner[1], urCorner[0]},
		{llCorner[1], llCorner[0]},
	})
	if err != nil {
		return nil, nil, err
	}
	g.BoundingCoords = bounds

	return meta, vendorFiles, nil
}

func normalizeSatellite(value string) (string, error) {
	switch value {
	case "LANDSAT_9", "Landsat9":
		return "LANDSAT_9", nil
	case "LANDSAT_8", "Landsat8":
		return "LANDSAT_8", nil
	case "LANDSAT_7", "Landsat7":
		return "LANDSAT_7", nil
	case "LANDSAT_5", "Landsat5":
		return "LANDSAT_5", nil
	case "LANDSAT_4", "Landsat4":
		return "LANDSAT_4", nil
	}
	return "", fmt.Errorf("%w: unsupported satellite type: %s", espa.ErrValidation, value)
}

func parseProjectionLabel(label, value string, g *espa.Global,
	refl, therm, pan *dims, urCorner, llCorner *[2]float64,
	parseFloat func(string, string, *float64) error,
	parseInt func(string, string, *int) error) error {

	p := &g.Projection
	switch label {
	case "MAP_PROJECTION":
		switch value {
		case "UTM":
			p.Type = espa.ProjUTM
		case "PS":
			p.Type = espa.ProjPS
		case "AEA":
			p.Type = espa.ProjAlbers
		default:
			return fmt.Errorf("%w: unsupported projection type %q, only UTM, PS and ALBERS EQUAL AREA are supported for LPGS",
				espa.ErrValidation, value)
		}
	case "DATUM":
		if value != "WGS84" {
			return fmt.Errorf("%w: unexpected datum type %q", espa.ErrValidation, value)
		}
		p.Datum = value
	case "UTM_ZONE":
		return parseInt(label, value, &p.UTMZone)

	case "GRID_CELL_SIZE_REFLECTIVE":
		if err := parseFloat(label, value, &refl.pixelSize[0]); err != nil {
			return err
		}
		refl.pixelSize[1] = refl.pixelSize[0]
	case "GRID_CELL_SIZE_THERMAL":
		if err := parseFloat(label, value, &therm.pixelSize[0]); err != nil {
			return err
		}
		therm.pixelSize[1] = therm.pixelSize[0]
	case "GRID_CELL_SIZE_PANCHROMATIC":
		if err := parseFloat(label, value, &pan.pixelSize[0]); err != nil {
			return err
		}
		pan.pixelSize[1] = pan.pixelSize[0]
	case "REFLECTIVE_SAMPLES":
		return parseInt(label, value, &refl.samps)
	case "REFLECTIVE_LINES":
		return parseInt(label, value, &refl.lines)
	case "THERMAL_SAMPLES":
		return parseInt(label, value, &therm.samps)
	case "THERMAL_LINES":
		return parseInt(label, value, &therm.lines)
	case "PANCHROMATIC_SAMPLES":
		return parseInt(label, value, &pan.samps)
	case "PANCHROMATIC_LINES":
		return parseInt(label, value, &pan.lines)

	case "VERTICAL_LON_FROM_POLE":
		return parseFloat(label, value, &p.LongitudePole)
	case "TRUE_SCALE_LAT":
		return parseFloat(label, value, &p.LatitudeTrueScale)
	case "FALSE_EASTING":
		return parseFloat(label, value, &p.FalseEasting)
	case "FALSE_NORTHING":
		return parseFloat(label, value, &p.FalseNorthing)
	case "STANDARD_PARALLEL_1_LAT":
		return parseFloat(label, value, &p.StandardParallel1)
	case "STANDARD_PARALLEL_2_LAT":
		return parseFloat(label, value, &p.StandardParallel2)
	case "CENTRAL_MERIDIAN_LON":
		return parseFloat(label, value, &p.CentralMeridian)
	case "ORIGIN_LAT":
		return parseFloat(label, value, &p.OriginLatitude)

	case "CORNER_UL_LAT_PRODUCT":
		return parseFloat(label, value, &g.ULCorner[0])
	case "CORNER_UL_LON_PRODUCT":
		return parseFloat(label, value, &g.ULCorner[1])
	case "CORNER_LR_LAT_PRODUCT":
		return parseFloat(label, value, &g.LRCorner[0])
	case "CORNER_LR_LON_PRODUCT":
		return parseFloat(label, value, &g.LRCorner[1])
	case "CORNER_UR_LAT_PRODUCT":
		return parseFloat(label, value, &urCorner[0])
	case "CORNER_UR_LON_PRODUCT":
		return parseFloat(label, value, &urCorner[1])
	case "CORNER_LL_LAT_PRODUCT":
		return parseFloat(label, value, &llCorner[0])
	case "CORNER_LL_LON_PRODUCT":
		return parseFloat(label, value, &llCorner[1])

	case "CORNER_UL_PROJECTION_X_PRODUCT":
		return parseFloat(label, value, &p.ULCorner[0])
	case "CORNER_UL_PROJECTION_Y_PRODUCT":
		return parseFloat(label, value, &p.ULCorner[1])
	case "CORNER_LR_PROJECTION_X_PRODUCT":
		return parseFloat(label, value, &p.LRCorner[0])
	case "CORNER_LR_PROJECTION_Y_PRODUCT":
		return parseFloat(label, value, &p.LRCorner[1])
	}
	return nil
}
