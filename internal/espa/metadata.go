package espa

// Sentinel fill values marking metadata fields that are not available.
// Distinct from a valid zero.
const (
	FloatMetaFill  = -3333.0
	IntMetaFill    = -3333
	StringMetaFill = "undefined"
)

// DataType identifies the pixel storage type of a band.
type DataType string

const (
	Int8    DataType = "INT8"
	UInt8   DataType = "UINT8"
	Int16   DataType = "INT16"
	UInt16  DataType = "UINT16"
	Int32   DataType = "INT32"
	UInt32  DataType = "UINT32"
	Float32 DataType = "FLOAT32"
	Float64 DataType = "FLOAT64"
)

// Size returns the number of bytes per pixel, or 0 for an unknown type.
func (dt DataType) Size() int {
	switch dt {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// ProjectionType codes match the GCTP projection numbering.
type ProjectionType int

const (
	ProjGeographic ProjectionType = 0
	ProjUTM        ProjectionType = 1
	ProjAlbers     ProjectionType = 3
	ProjPS         ProjectionType = 6
)

func (p ProjectionType) String() string {
	switch p {
	case ProjGeographic:
		return "GEO"
	case ProjUTM:
		return "UTM"
	case ProjAlbers:
		return "AEA"
	case ProjPS:
		return "PS"
	}
	return "unknown"
}

// Indices into Global.BoundingCoords.
const (
	West = iota
	East
	North
	South
)

// ProjInfo holds the map projection description for a product.
type ProjInfo struct {
	Type  ProjectionType
	Datum string
	Units string

	UTMZone int

	// PS parameters
	LongitudePole    float64
	LatitudeTrueScale float64
	FalseEasting     float64
	FalseNorthing    float64

	// Albers parameters (plus false easting/northing above)
	StandardParallel1 float64
	StandardParallel2 float64
	CentralMeridian   float64
	OriginLatitude    float64

	// Projected corner coordinates (x, y) and their reference point.
	ULCorner   [2]float64
	LRCorner   [2]float64
	GridOrigin string
}

// Global holds the scene-level metadata for a product.
type Global struct {
	DataProvider         string
	Satellite            string
	Instrument           string
	AcquisitionDate      string
	SceneCenterTime      string
	Level1ProductionDate string
	SolarZenith          float64
	SolarAzimuth         float64
	SolarUnits           string
	EarthSunDist         float64
	WRSSystem            int
	WRSPath              int
	WRSRow               int
	ProductID            string
	LPGSMetadataFile     string

	// Geographic corner coordinates (lat, lon).
	ULCorner [2]float64
	LRCorner [2]float64

	// West, East, North, South geographic bounds.
	BoundingCoords [4]float64

	Projection       ProjInfo
	OrientationAngle float64
}

// Band holds the metadata for one raster band. A band is either
// category "image" (radiometric fields meaningful) or "qa"
// (radiometric fields sentinel-filled, bitmap description present).
type Band struct {
	Product        string
	Name           string
	Category       string
	DataType       DataType
	NLines         int
	NSamps         int
	PixelSize      [2]float64
	PixelUnits     string
	DataUnits      string
	FillValue      int64
	ScaleFactor    float64
	AddOffset      float64
	ValidRange     [2]float64
	RadGain        float64
	RadBias        float64
	ReflGain       float64
	ReflBias       float64
	K1Const        float64
	K2Const        float64
	ResampleMethod string
	ShortName      string
	LongName       string
	FileName       string

	// Ordered bit-layout for bitmap/QA bands, nil otherwise.
	BitmapDescription []string

	AppVersion     string
	ProductionDate string
}

// Metadata is the in-memory model of one product: global attributes
// plus an ordered band sequence. Band order is significant, it defines
// output band numbering.
type Metadata struct {
	Global Global
	Bands  []Band
}

// NewBand returns a band with every radiometric field set to the
// metadata fill sentinel.
func NewBand() Band {
	return Band{
		FillValue:   IntMetaFill,
		ScaleFactor: FloatMetaFill,
		AddOffset:   FloatMetaFill,
		ValidRange:  [2]float64{FloatMetaFill, FloatMetaFill},
		RadGain:     FloatMetaFill,
		RadBias:     FloatMetaFill,
		ReflGain:    FloatMetaFill,
		ReflBias:    FloatMetaFill,
		K1Const:     FloatMetaFill,
		K2Const:     FloatMetaFill,
	}
}

// NewMetadata returns an empty metadata model with sentinel-filled
// global numeric fields.
func NewMetadata() *Metadata {
	return &Metadata{
		Global: Global{
			SolarZenith:  FloatMetaFill,
			SolarAzimuth: FloatMetaFill,
			EarthSunDist: FloatMetaFill,
			WRSSystem:    IntMetaFill,
			WRSPath:      IntMetaFill,
			WRSRow:       IntMetaFill,
		},
	}
}

// AllocateBitmap sets up an n-entry bit layout for a QA band.
func (b *Band) AllocateBitmap(n int) {
	b.BitmapDescription = make([]string, n)
}
