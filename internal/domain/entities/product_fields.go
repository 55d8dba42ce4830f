package entities

import (
	"fmt"
	"strconv"
)

// Scalar field identifiers shared by drafts, validation and payload encoding.
const (
	FieldProductName          = "productName"
	FieldGenericName          = "genericName"
	FieldBrandName            = "brandName"
	FieldStrength             = "strength"
	FieldDosageForm           = "dosageForm"
	FieldAdministrationRoute  = "administrationRoute"
	FieldPackSize             = "packSize"
	FieldMRP                  = "mrp"
	FieldStorage              = "storage"
	FieldPrescriptionRequired = "prescriptionRequired"
	FieldCategory             = "category"
	FieldIsFeatured           = "isFeatured"
	FieldColor                = "color"

	FieldComposition       = "composition"
	FieldMechanismOfAction = "mechanismOfAction"
	FieldUses              = "uses"
	FieldIndications       = "indications"
	FieldContraindications = "contraindications"
	FieldExistingImages    = "existingImages"
	FieldProductImages     = "productImages"
)

// DefaultColor is the swatch a new product starts with
const DefaultColor = "#f0f0f0"

// DosageForms lists the dosage forms offered by the editor
var DosageForms = []string{"Tablet", "Capsule", "Injection", "Syrup", "Cream", "Ointment", "Powder"}

// ProductFields is the fixed set of scalar attributes edited on a product
type ProductFields struct {
	ProductName          string
	GenericName          string
	BrandName            string
	Strength             string
	DosageForm           string
	AdministrationRoute  string
	PackSize             string
	MRP                  string
	Storage              string
	PrescriptionRequired bool
	Category             string
	IsFeatured           bool
	Color                string
}

// ErrUnknownField is returned when a field identifier is not part of ProductFields
type ErrUnknownField struct {
	Name string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown product field %q", e.Name)
}

// NewProductFields returns the defaults used for a brand new product
func NewProductFields() ProductFields {
	return ProductFields{
		PrescriptionRequired: true,
		Color:                DefaultColor,
	}
}

// FieldsFromProduct copies the scalar attributes of a persisted product
func FieldsFromProduct(p *Product) ProductFields {
	f := ProductFields{
		ProductName:         p.ProductName,
		GenericName:         p.GenericName,
		BrandName:           p.BrandName,
		Strength:            p.Strength,
		DosageForm:          p.DosageForm,
		AdministrationRoute: p.AdministrationRoute,
		PackSize:            p.PackSize,
		MRP:                 string(p.MRP),
		Storage:             p.Storage,
		Category:            p.Category.ID,
		Color:               p.Color,
	}
	if p.PrescriptionRequired != nil {
		f.PrescriptionRequired = *p.PrescriptionRequired
	}
	if p.IsFeatured != nil {
		f.IsFeatured = *p.IsFeatured
	}
	return f
}

// Set assigns a text field by identifier. Boolean fields accept
// strconv.ParseBool input.
func (f *ProductFields) Set(name, value string) error {
	switch name {
	case FieldPrescriptionRequired, FieldIsFeatured:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		return f.SetFlag(name, b)
	}

	ptr := f.textField(name)
	if ptr == nil {
		return &ErrUnknownField{Name: name}
	}
	*ptr = value
	return nil
}

// SetFlag assigns a boolean field by identifier
func (f *ProductFields) SetFlag(name string, value bool) error {
	switch name {
	case FieldPrescriptionRequired:
		f.PrescriptionRequired = value
	case FieldIsFeatured:
		f.IsFeatured = value
	default:
		return &ErrUnknownField{Name: name}
	}
	return nil
}

// Get returns the wire representation of a field
func (f *ProductFields) Get(name string) (string, error) {
	switch name {
	case FieldPrescriptionRequired:
		return strconv.FormatBool(f.PrescriptionRequired), nil
	case FieldIsFeatured:
		return strconv.FormatBool(f.IsFeatured), nil
	}
	ptr := f.textField(name)
	if ptr == nil {
		return "", &ErrUnknownField{Name: name}
	}
	return *ptr, nil
}

// ScalarFieldOrder is the order scalars are written to a payload
var ScalarFieldOrder = []string{
	FieldProductName,
	FieldGenericName,
	FieldBrandName,
	FieldStrength,
	FieldDosageForm,
	FieldAdministrationRoute,
	FieldPackSize,
	FieldMRP,
	FieldStorage,
	FieldPrescriptionRequired,
	FieldCategory,
	FieldIsFeatured,
	FieldColor,
}

func (f *ProductFields) textField(name string) *string {
	switch name {
	case FieldProductName:
		return &f.ProductName
	case FieldGenericName:
		return &f.GenericName
	case FieldBrandName:
		return &f.BrandName
	case FieldStrength:
		return &f.Strength
	case FieldDosageForm:
		return &f.DosageForm
	case FieldAdministrationRoute:
		return &f.AdministrationRoute
	case FieldPackSize:
		return &f.PackSize
	case FieldMRP:
		return &f.MRP
	case FieldStorage:
		return &f.Storage
	case FieldCategory:
		return &f.Category
	case FieldColor:
		return &f.Color
	}
	return nil
}
