package mtl

import (
	"fmt"
	"strings"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

// Band identifiers assigned to the non-numbered bands recognized from
// the MTL FILE_NAME_* labels.
const (
	qaPixelName  = "bqa_pixel"
	qaRadsatName = "bqa_radsat"
	sensorAzName = "sensor_azimuth_band4"
	sensorZenName = "sensor_zenith_band4"
	solarAzName  = "solar_azimuth_band4"
	solarZenName = "solar_zenith_band4"
)

// classify maps a FILE_NAME_* label suffix to a band identity. The
// second return is false for labels that are not of interest, which
// are skipped without erroring.
func classify(id string) (bandInfo, bool) {
	info := newBandInfo(id)
	var bnum, vcid int
	if n, _ := fmt.Sscanf(id, "BAND_%d_VCID_%d", &bnum, &vcid); n > 0 {
		info.category = "image"
		info.numbered = true
		info.bnum = bnum
		info.vcid = vcid
		if vcid == 0 {
			info.bandNum = fmt.Sprintf("%d", bnum)
		} else {
			info.bandNum = fmt.Sprintf("%d%d", bnum, vcid)
		}
		return info, true
	}
	switch id {
	case "QUALITY_L1_PIXEL":
		info.category = "qa"
		info.bandNum = qaPixelName
	case "QUALITY_L1_RADIOMETRIC_SATURATION":
		info.category = "qa"
		info.bandNum = qaRadsatName
	case "ANGLE_SENSOR_AZIMUTH_BAND_4":
		info.category = "image"
		info.bandNum = sensorAzName
	case "ANGLE_SENSOR_ZENITH_BAND_4":
		info.category = "image"
		info.bandNum = sensorZenName
	case "ANGLE_SOLAR_AZIMUTH_BAND_4":
		info.category = "image"
		info.bandNum = solarAzName
	case "ANGLE_SOLAR_ZENITH_BAND_4":
		info.category = "image"
		info.bandNum = solarZenName
	default:
		return info, false
	}
	return info, true
}

// thermal reports whether a numbered band is a thermal band. Band 6 is
// thermal on the TM-class instruments and on ETM+ (where it carries a
// VCID); bands above 9 are the TIRS thermal bands.
func (bi *bandInfo) thermal(instrument string) bool {
	if !bi.numbered {
		return false
	}
	return (bi.bnum == 6 && (instrument == "TM" || bi.vcid != 0)) || bi.bnum > 9
}

// shortNameCode returns the 4-character sensor/satellite code used as
// the prefix of every band short name.
func shortNameCode(satellite, instrument string) string {
	switch {
	case instrument == "TM" && satellite == "LANDSAT_4":
		return "LT04"
	case instrument == "TM" && satellite == "LANDSAT_5":
		return "LT05"
	case strings.HasPrefix(instrument, "ETM"):
		return "LE07"
	case satellite == "LANDSAT_8":
		return "LC08"
	case satellite == "LANDSAT_9":
		return "LC09"
	}
	return ""
}

// names fills in the output band name, long name and short name suffix
// for a classified band.
func (bi *bandInfo) names(code string) (name, longName, shortName string) {
	if bi.numbered {
		return "b" + bi.bandNum,
			fmt.Sprintf("band %s digital numbers", bi.bandNum),
			code + "DN"
	}
	switch bi.bandNum {
	case qaPixelName:
		return bi.bandNum, "pixel quality band", code + "PQA"
	case qaRadsatName:
		return bi.bandNum, "saturation quality band", code + "RADSAT"
	case sensorAzName:
		return bi.bandNum, "band 4 sensor azimuth angles", code + "SENAZ"
	case sensorZenName:
		return bi.bandNum, "band 4 sensor zenith angles", code + "SENZEN"
	case solarAzName:
		return bi.bandNum, "band 4 solar azimuth angles", code + "SOLAZ"
	case solarZenName:
		return bi.bandNum, "band 4 solar zenith angles", code + "SOLZEN"
	}
	return bi.bandNum, "", code
}

func isOLI(instrument string) bool {
	return strings.HasPrefix(instrument, "OLI") || instrument == "TIRS"
}

// SubsetExcluded reports whether a band is dropped when producing the
// reduced product used as input to surface reflectance and surface
// temperature processing. The panchromatic, cirrus, low-gain thermal
// and per-band-4 geometry bands carry nothing those products need.
func SubsetExcluded(name string) bool {
	switch name {
	case "b62", "b8", "b9",
		sensorAzName, sensorZenName, solarAzName, solarZenName:
		return true
	}
	return false
}

// pixelQABitmap returns the fixed 16-entry bit layout of the L1 pixel
// quality band. Bits 14-15 are sensor dependent.
func pixelQABitmap(instrument string) []string {
	bits := []string{
		"Data Fill Flag (0 = valid data, 1 = invalid data)",
		"Dilated Cloud",
		"Cirrus",
		"Cloud",
		"Cloud Shadow",
		"Snow",
		"Clear",
		"Water",
		"Cloud Confidence",
		"Cloud Confidence",
		"Cloud Shadow Confidence",
		"Cloud Shadow Confidence",
		"Snow/Ice Confidence",
		"Snow/Ice Confidence",
		"Not used",
		"Not used",
	}
	if isOLI(instrument) {
		bits[14] = "Cirrus Confidence"
		bits[15] = "Cirrus Confidence"
	}
	return bits
}

// radsatBitmap returns the fixed 16-entry bit layout of the L1
// radiometric saturation band. Bits 8-11 are sensor dependent.
func radsatBitmap(instrument string) []string {
	bits := make([]string, 16)
	for bit := 0; bit < 8; bit++ {
		bits[bit] = fmt.Sprintf("Band %d Saturation", bit+1)
	}
	if isOLI(instrument) {
		bits[8] = "Band 9 Saturation"
		bits[9] = "Band 10 Saturation"
		bits[10] = "Band 11 Saturation"
		bits[11] = "Terrain Occlusion"
	} else {
		bits[8] = "Band 6H Saturation"
		bits[9] = "Dropped Pixel"
		bits[10] = "Not used"
		bits[11] = "Not used"
	}
	for bit := 12; bit < 16; bit++ {
		bits[bit] = "Not used"
	}
	return bits
}

// validateSensor ensures the SENSOR_ID belongs to the fixed allowed set
// for the SPACECRAFT_ID.
func validateSensor(satellite, instrument string) error {
	switch satellite {
	case "LANDSAT_8", "LANDSAT_9":
		if instrument != "OLI_TIRS" && instrument != "OLI" && instrument != "TIRS" {
			return fmt.Errorf("%w: unsupported sensor type %q for %s", espa.ErrValidation, instrument, satellite)
		}
	case "LANDSAT_7":
		if instrument != "ETM" {
			return fmt.Errorf("%w: unsupported sensor type %q for %s", espa.ErrValidation, instrument, satellite)
		}
	case "LANDSAT_4", "LANDSAT_5":
		if instrument != "TM" {
			return fmt.Errorf("%w: unsupported sensor type %q for %s", espa.ErrValidation, instrument, satellite)
		}
	default:
		return fmt.Errorf("%w: SPACECRAFT_ID is required to validate SENSOR_ID", espa.ErrValidation)
	}
	return nil
}
