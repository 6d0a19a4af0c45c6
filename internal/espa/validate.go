package espa

import "fmt"

var validCategories = map[string]bool{"image": true, "qa": true}

var validDataTypes = map[DataType]bool{
	Int8: true, UInt8: true, Int16: true, UInt16: true,
	Int32: true, UInt32: true, Float32: true, Float64: true,
}

// Validate performs a structural check of the metadata model: required
// global fields present, band fields populated, enums valid.
func (m *Metadata) Validate() error {
	g := &m.Global
	if g.Satellite == "" {
		return fmt.Errorf("%w: satellite not specified", ErrValidation)
	}
	if g.Instrument == "" {
		return fmt.Errorf("%w: instrument not specified", ErrValidation)
	}
	if g.ProductID == "" {
		return fmt.Errorf("%w: product_id not specified", ErrValidation)
	}
	if len(m.Bands) == 0 {
		return fmt.Errorf("%w: no bands present", ErrValidation)
	}
	for i := range m.Bands {
		b := &m.Bands[i]
		if b.Name == "" || b.FileName == "" {
			return fmt.Errorf("%w: band %d missing name or file name", ErrValidation, i)
		}
		if !validCategories[b.Category] {
			return fmt.Errorf("%w: band %s has invalid category %q", ErrValidation, b.Name, b.Category)
		}
		if !validDataTypes[b.DataType] {
			return fmt.Errorf("%w: band %s has invalid data type %q", ErrValidation, b.Name, b.DataType)
		}
		if b.NLines <= 0 || b.NSamps <= 0 {
			return fmt.Errorf("%w: band %s has invalid dimensions %dx%d", ErrValidation, b.Name, b.NLines, b.NSamps)
		}
	}
	return nil
}

// ValidateMetadataFile parses and validates an on-disk XML metadata
// file without returning the model.
func ValidateMetadataFile(path string) error {
	m, err := ParseMetadata(path)
	if err != nil {
		return err
	}
	return m.Validate()
}
