package espa

import (
	"encoding/xml"
	"fmt"
	"os"
)

// XML document layout mirroring the ESPA internal metadata schema.

type xmlDoc struct {
	XMLName xml.Name  `xml:"espa_metadata"`
	Version string    `xml:"version,attr"`
	Global  xmlGlobal `xml:"global_metadata"`
	Bands   xmlBands  `xml:"bands"`
}

type xmlBands struct {
	Band []xmlBand `xml:"band"`
}

type xmlGlobal struct {
	DataProvider         string          `xml:"data_provider"`
	Satellite            string          `xml:"satellite"`
	Instrument           string          `xml:"instrument"`
	AcquisitionDate      string          `xml:"acquisition_date"`
	SceneCenterTime      string          `xml:"scene_center_time"`
	Level1ProductionDate string          `xml:"level1_production_date,omitempty"`
	SolarAngles          xmlSolarAngles  `xml:"solar_angles"`
	EarthSunDistance     float64         `xml:"earth_sun_distance"`
	WRS                  xmlWRS          `xml:"wrs"`
	ProductID            string          `xml:"product_id"`
	LPGSMetadataFile     string          `xml:"lpgs_metadata_file,omitempty"`
	Corners              []xmlCorner     `xml:"corner"`
	BoundingCoords       xmlBounding     `xml:"bounding_coordinates"`
	Projection           xmlProjInfo     `xml:"projection_information"`
	OrientationAngle     float64         `xml:"orientation_angle"`
}

type xmlSolarAngles struct {
	Zenith  float64 `xml:"zenith,attr"`
	Azimuth float64 `xml:"azimuth,attr"`
	Units   string  `xml:"units,attr"`
}

type xmlWRS struct {
	System int `xml:"system,attr"`
	Path   int `xml:"path,attr"`
	Row    int `xml:"row,attr"`
}

type xmlCorner struct {
	Location  string  `xml:"location,attr"`
	Latitude  float64 `xml:"latitude,attr"`
	Longitude float64 `xml:"longitude,attr"`
}

type xmlBounding struct {
	West  float64 `xml:"west"`
	East  float64 `xml:"east"`
	North float64 `xml:"north"`
	South float64 `xml:"south"`
}

type xmlProjInfo struct {
	Projection   string           `xml:"projection,attr"`
	Datum        string           `xml:"datum,attr,omitempty"`
	Units        string           `xml:"units,attr"`
	CornerPoints []xmlCornerPoint `xml:"corner_point"`
	GridOrigin   string           `xml:"grid_origin"`
	UTM          *xmlUTMParams    `xml:"utm_proj_params,omitempty"`
	PS           *xmlPSParams     `xml:"ps_proj_params,omitempty"`
	Albers       *xmlAlbersParams `xml:"albers_proj_params,omitempty"`
}

type xmlCornerPoint struct {
	Location string  `xml:"location,attr"`
	X        float64 `xml:"x,attr"`
	Y        float64 `xml:"y,attr"`
}

type xmlUTMParams struct {
	ZoneCode int `xml:"zone_code"`
}

type xmlPSParams struct {
	LongitudePole     float64 `xml:"longitude_pole"`
	LatitudeTrueScale float64 `xml:"latitude_true_scale"`
	FalseEasting      float64 `xml:"false_easting"`
	FalseNorthing     float64 `xml:"false_northing"`
}

type xmlAlbersParams struct {
	StandardParallel1 float64 `xml:"standard_parallel1"`
	StandardParallel2 float64 `xml:"standard_parallel2"`
	CentralMeridian   float64 `xml:"central_meridian"`
	OriginLatitude    float64 `xml:"origin_latitude"`
	FalseEasting      float64 `xml:"false_easting"`
	FalseNorthing     float64 `xml:"false_northing"`
}

type xmlBand struct {
	Product        string        `xml:"product,attr"`
	Name           string        `xml:"name,attr"`
	Category       string        `xml:"category,attr"`
	DataType       string        `xml:"data_type,attr"`
	NLines         int           `xml:"nlines,attr"`
	NSamps         int           `xml:"nsamps,attr"`
	FillValue      *int64        `xml:"fill_value,attr,omitempty"`
	ScaleFactor    *float64      `xml:"scale_factor,attr,omitempty"`
	AddOffset      *float64      `xml:"add_offset,attr,omitempty"`
	ShortName      string        `xml:"short_name"`
	LongName       string        `xml:"long_name"`
	FileName       string        `xml:"file_name"`
	PixelSize      xmlPixelSize  `xml:"pixel_size"`
	ResampleMethod string        `xml:"resample_method"`
	DataUnits      string        `xml:"data_units,omitempty"`
	ValidRange     *xmlRange     `xml:"valid_range,omitempty"`
	Radiance       *xmlGainBias  `xml:"radiance,omitempty"`
	Reflectance    *xmlGainBias  `xml:"reflectance,omitempty"`
	ThermalConst   *xmlThermal   `xml:"thermal_const,omitempty"`
	Bitmap         *xmlBitmap    `xml:"bitmap_description,omitempty"`
	AppVersion     string        `xml:"app_version,omitempty"`
	ProductionDate string        `xml:"production_date,omitempty"`
}

type xmlPixelSize struct {
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Units string  `xml:"units,attr"`
}

type xmlRange struct {
	Min float64 `xml:"min,attr"`
	Max float64 `xml:"max,attr"`
}

type xmlGainBias struct {
	Gain float64 `xml:"gain,attr"`
	Bias float64 `xml:"bias,attr"`
}

type xmlThermal struct {
	K1 float64 `xml:"k1_constant,attr"`
	K2 float64 `xml:"k2_constant,attr"`
}

type xmlBitmap struct {
	Bits []xmlBit `xml:"bit"`
}

type xmlBit struct {
	Num   int    `xml:"num,attr"`
	Value string `xml:",chardata"`
}

func toXMLDoc(m *Metadata) *xmlDoc {
	g := &m.Global
	doc := &xmlDoc{
		Version: "2.0",
		Global: xmlGlobal{
			DataProvider:         g.DataProvider,
			Satellite:            g.Satellite,
			Instrument:           g.Instrument,
			AcquisitionDate:      g.AcquisitionDate,
			SceneCenterTime:      g.SceneCenterTime,
			Level1ProductionDate: g.Level1ProductionDate,
			SolarAngles: xmlSolarAngles{
				Zenith:  g.SolarZenith,
				Azimuth: g.SolarAzimuth,
				Units:   g.SolarUnits,
			},
			EarthSunDistance: g.EarthSunDist,
			WRS:              xmlWRS{System: g.WRSSystem, Path: g.WRSPath, Row: g.WRSRow},
			ProductID:        g.ProductID,
			LPGSMetadataFile: g.LPGSMetadataFile,
			Corners: []xmlCorner{
				{Location: "UL", Latitude: g.ULCorner[0], Longitude: g.ULCorner[1]},
				{Location: "LR", Latitude: g.LRCorner[0], Longitude: g.LRCorner[1]},
			},
			BoundingCoords: xmlBounding{
				West:  g.BoundingCoords[West],
				East:  g.BoundingCoords[East],
				North: g.BoundingCoords[North],
				South: g.BoundingCoords[South],
			},
			Projection:       toXMLProj(&g.Projection),
			OrientationAngle: g.OrientationAngle,
		},
	}
	for i := range m.Bands {
		doc.Bands.Band = append(doc.Bands.Band, toXMLBand(&m.Bands[i]))
	}
	return doc
}

func toXMLProj(p *ProjInfo) xmlProjInfo {
	xp := xmlProjInfo{
		Projection: p.Type.String(),
		Datum:      p.Datum,
		Units:      p.Units,
		CornerPoints: []xmlCornerPoint{
			{Location: "UL", X: p.ULCorner[0], Y: p.ULCorner[1]},
			{Location: "LR", X: p.LRCorner[0], Y: p.LRCorner[1]},
		},
		GridOrigin: p.GridOrigin,
	}
	switch p.Type {
	case ProjUTM:
		xp.UTM = &xmlUTMParams{ZoneCode: p.UTMZone}
	case ProjPS:
		xp.PS = &xmlPSParams{
			LongitudePole:     p.LongitudePole,
			LatitudeTrueScale: p.LatitudeTrueScale,
			FalseEasting:      p.FalseEasting,
			FalseNorthing:     p.FalseNorthing,
		}
	case ProjAlbers:
		xp.Albers = &xmlAlbersParams{
			StandardParallel1: p.StandardParallel1,
			StandardParallel2: p.StandardParallel2,
			CentralMeridian:   p.CentralMeridian,
			OriginLatitude:    p.OriginLatitude,
			FalseEasting:      p.FalseEasting,
			FalseNorthing:     p.FalseNorthing,
		}
	}
	return xp
}

func toXMLBand(b *Band) xmlBand {
	xb := xmlBand{
		Product:        b.Product,
		Name:           b.Name,
		Category:       b.Category,
		DataType:       string(b.DataType),
		NLines:         b.NLines,
		NSamps:         b.NSamps,
		ShortName:      b.ShortName,
		LongName:       b.LongName,
		FileName:       b.FileName,
		PixelSize:      xmlPixelSize{X: b.PixelSize[0], Y: b.PixelSize[1], Units: b.PixelUnits},
		ResampleMethod: b.ResampleMethod,
		DataUnits:      b.DataUnits,
		AppVersion:     b.AppVersion,
		ProductionDate: b.ProductionDate,
	}
	if b.FillValue != IntMetaFill {
		v := b.FillValue
		xb.FillValue = &v
	}
	if b.ScaleFactor != FloatMetaFill {
		v := b.ScaleFactor
		xb.ScaleFactor = &v
	}
	if b.AddOffset != FloatMetaFill {
		v := b.AddOffset
		xb.AddOffset = &v
	}
	if b.ValidRange[0] != FloatMetaFill || b.ValidRange[1] != FloatMetaFill {
		xb.ValidRange = &xmlRange{Min: b.ValidRange[0], Max: b.ValidRange[1]}
	}
	if b.RadGain != FloatMetaFill || b.RadBias != FloatMetaFill {
		xb.Radiance = &xmlGainBias{Gain: b.RadGain, Bias: b.RadBias}
	}
	if b.ReflGain != FloatMetaFill || b.ReflBias != FloatMetaFill {
		xb.Reflectance = &xmlGainBias{Gain: b.ReflGain, Bias: b.ReflBias}
	}
	if b.K1Const != FloatMetaFill || b.K2Const != FloatMetaFill {
		xb.ThermalConst = &xmlThermal{K1: b.K1Const, K2: b.K2Const}
	}
	if len(b.BitmapDescription) > 0 {
		bm := &xmlBitmap{}
		for i, desc := range b.BitmapDescription {
			bm.Bits = append(bm.Bits, xmlBit{Num: i, Value: desc})
		}
		xb.Bitmap = bm
	}
	return xb
}

func fromXMLDoc(doc *xmlDoc) (*Metadata, error) {
	m := NewMetadata()
	xg := &doc.Global
	g := &m.Global
	g.DataProvider = xg.DataProvider
	g.Satellite = xg.Satellite
	g.Instrument = xg.Instrument
	g.AcquisitionDate = xg.AcquisitionDate
	g.SceneCenterTime = xg.SceneCenterTime
	g.Level1ProductionDate = xg.Level1ProductionDate
	g.SolarZenith = xg.SolarAngles.Zenith
	g.SolarAzimuth = xg.SolarAngles.Azimuth
	g.SolarUnits = xg.SolarAngles.Units
	g.EarthSunDist = xg.EarthSunDistance
	g.WRSSystem = xg.WRS.System
	g.WRSPath = xg.WRS.Path
	g.WRSRow = xg.WRS.Row
	g.ProductID = xg.ProductID
	g.LPGSMetadataFile = xg.LPGSMetadataFile
	for _, c := range xg.Corners {
		switch c.Location {
		case "UL":
			g.ULCorner = [2]float64{c.Latitude, c.Longitude}
		case "LR":
			g.LRCorner = [2]float64{c.Latitude, c.Longitude}
		}
	}
	g.BoundingCoords[West] = xg.BoundingCoords.West
	g.BoundingCoords[East] = xg.BoundingCoords.East
	g.BoundingCoords[North] = xg.BoundingCoords.North
	g.BoundingCoords[South] = xg.BoundingCoords.South
	g.OrientationAngle = xg.OrientationAngle

	if err := fromXMLProj(&xg.Projection, &g.Projection); err != nil {
		return nil, err
	}

	for i := range doc.Bands.Band {
		m.Bands = append(m.Bands, fromXMLBand(&doc.Bands.Band[i]))
	}
	return m, nil
}

func fromXMLProj(xp *xmlProjInfo, p *ProjInfo) error {
	switch xp.Projection {
	case "GEO":
		p.Type = ProjGeographic
	case "UTM":
		p.Type = ProjUTM
	case "AEA":
		p.Type = ProjAlbers
	case "PS":
		p.Type = ProjPS
	default:
		return fmt.Errorf("%w: unsupported projection type %q", ErrValidation, xp.Projection)
	}
	p.Datum = xp.Datum
	p.Units = xp.Units
	p.GridOrigin = xp.GridOrigin
	for _, c := range xp.CornerPoints {
		switch c.Location {
		case "UL":
			p.ULCorner = [2]float64{c.X, c.Y}
		case "LR":
			p.LRCorner = [2]float64{c.X, c.Y}
		}
	}
	if xp.UTM != nil {
		p.UTMZone = xp.UTM.ZoneCode
	}
	if xp.PS != nil {
		p.LongitudePole = xp.PS.LongitudePole
		p.LatitudeTrueScale = xp.PS.LatitudeTrueScale
		p.FalseEasting = xp.PS.FalseEasting
		p.FalseNorthing = xp.PS.FalseNorthing
	}
	if xp.Albers != nil {
		p.StandardParallel1 = xp.Albers.StandardParallel1
		p.StandardParallel2 = xp.Albers.StandardParallel2
		p.CentralMeridian = xp.Albers.CentralMeridian
		p.OriginLatitude = xp.Albers.OriginLatitude
		p.FalseEasting = xp.Albers.FalseEasting
		p.FalseNorthing = xp.Albers.FalseNorthing
	}
	return nil
}

func fromXMLBand(xb *xmlBand) Band {
	b := NewBand()
	b.Product = xb.Product
	b.Name = xb.Name
	b.Category = xb.Category
	b.DataType = DataType(xb.DataType)
	b.NLines = xb.NLines
	b.NSamps = xb.NSamps
	b.ShortName = xb.ShortName
	b.LongName = xb.LongName
	b.FileName = xb.FileName
	b.PixelSize = [2]float64{xb.PixelSize.X, xb.PixelSize.Y}
	b.PixelUnits = xb.PixelSize.Units
	b.ResampleMethod = xb.ResampleMethod
	b.DataUnits = xb.DataUnits
	b.AppVersion = xb.AppVersion
	b.ProductionDate = xb.ProductionDate
	if xb.FillValue != nil {
		b.FillValue = *xb.FillValue
	}
	if xb.ScaleFactor != nil {
		b.ScaleFactor = *xb.ScaleFactor
	}
	if xb.AddOffset != nil {
		b.AddOffset = *xb.AddOffset
	}
	if xb.ValidRange != nil {
		b.ValidRange = [2]float64{xb.ValidRange.Min, xb.ValidRange.Max}
	}
	if xb.Radiance != nil {
		b.RadGain = xb.Radiance.Gain
		b.RadBias = xb.Radiance.Bias
	}
	if xb.Reflectance != nil {
		b.ReflGain = xb.Reflectance.Gain
		b.ReflBias = xb.Reflectance.Bias
	}
	if xb.ThermalConst != nil {
		b.K1Const = xb.ThermalConst.K1
		b.K2Const = xb.ThermalConst.K2
	}
	if xb.Bitmap != nil {
		b.BitmapDescription = make([]string, len(xb.Bitmap.Bits))
		for _, bit := range xb.Bitmap.Bits {
			if bit.Num >= 0 && bit.Num < len(b.BitmapDescription) {
				b.BitmapDescription[bit.Num] = bit.Value
			}
		}
	}
	return b
}

// WriteMetadata serializes the metadata model to an XML file.
func WriteMetadata(m *Metadata, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating metadata file %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return fmt.Errorf("%w: writing metadata file %s: %v", ErrIO, path, err)
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "    ")
	if err := enc.Encode(toXMLDoc(m)); err != nil {
		return fmt.Errorf("%w: encoding metadata file %s: %v", ErrIO, path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: encoding metadata file %s: %v", ErrIO, path, err)
	}
	return nil
}

// ParseMetadata deserializes an XML metadata file into the model.
func ParseMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading metadata file %s: %v", ErrIO, path, err)
	}
	var doc xmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing metadata file %s: %v", ErrValidation, path, err)
	}
	return fromXMLDoc(&doc)
}
