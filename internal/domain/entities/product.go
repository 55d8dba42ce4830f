package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Product represents a pharmaceutical catalog record as persisted by the store
type Product struct {
	ID                   string          `json:"_id"`
	ProductName          string          `json:"productName"`
	GenericName          string          `json:"genericName"`
	BrandName            string          `json:"brandName"`
	Strength             string          `json:"strength"`
	DosageForm           string          `json:"dosageForm"`
	AdministrationRoute  string          `json:"administrationRoute"`
	PackSize             string          `json:"packSize"`
	MRP                  FlexString      `json:"mrp"`
	Storage              string          `json:"storage"`
	PrescriptionRequired *bool           `json:"prescriptionRequired,omitempty"`
	IsFeatured           *bool           `json:"isFeatured,omitempty"`
	Color                string          `json:"color"`
	Category             CategoryRef     `json:"category"`
	Composition          []Ingredient    `json:"composition"`
	MechanismOfAction    []Mechanism     `json:"mechanismOfAction"`
	Uses                 []string        `json:"uses"`
	Indications          []string        `json:"indications"`
	Contraindications    []string        `json:"contraindications"`
	Images               []AttachmentRef `json:"productImage"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// Ingredient is one composition entry
type Ingredient struct {
	Name     string `json:"name"`
	Strength string `json:"strength"`
}

// IsBlank reports whether every member is empty after trimming
func (i Ingredient) IsBlank() bool {
	return strings.TrimSpace(i.Name) == "" && strings.TrimSpace(i.Strength) == ""
}

// Mechanism is one mechanism-of-action entry
type Mechanism struct {
	Drug        string `json:"drug"`
	Description string `json:"moa"`
}

// IsBlank reports whether every member is empty after trimming
func (m Mechanism) IsBlank() bool {
	return strings.TrimSpace(m.Drug) == "" && strings.TrimSpace(m.Description) == ""
}

// CategoryRef points at a category; the store sends either the bare id or
// the populated category document.
type CategoryRef struct {
	ID   string
	Name string
}

// UnmarshalJSON accepts "id", {"_id": "...", "name": "..."} or null
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*c = CategoryRef{}
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = CategoryRef{ID: id}
		return nil
	}
	var doc struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	*c = CategoryRef{ID: doc.ID, Name: doc.Name}
	return nil
}

// MarshalJSON writes the bare id, which is what the store accepts on write
func (c CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ID)
}

// FlexString decodes from either a JSON string or a JSON number
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*f = ""
	case strings.HasPrefix(trimmed, "\""):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("expected string or number, got %s", trimmed)
		}
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

// UnmarshalJSON decodes a product, normalizing the shapes the store has been
// seen to return: list fields as JSON-encoded strings and a single image
// path instead of an array.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var raw struct {
		plain
		Composition       json.RawMessage `json:"composition"`
		MechanismOfAction json.RawMessage `json:"mechanismOfAction"`
		Uses              json.RawMessage `json:"uses"`
		Indications       json.RawMessage `json:"indications"`
		Contraindications json.RawMessage `json:"contraindications"`
		Images            json.RawMessage `json:"productImage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Product(raw.plain)

	if err := decodeList(raw.Composition, &p.Composition); err != nil {
		return fmt.Errorf("composition: %w", err)
	}
	if err := decodeList(raw.MechanismOfAction, &p.MechanismOfAction); err != nil {
		return fmt.Errorf("mechanismOfAction: %w", err)
	}
	if err := decodeList(raw.Uses, &p.Uses); err != nil {
		return fmt.Errorf("uses: %w", err)
	}
	if err := decodeList(raw.Indications, &p.Indications); err != nil {
		return fmt.Errorf("indications: %w", err)
	}
	if err := decodeList(raw.Contraindications, &p.Contraindications); err != nil {
		return fmt.Errorf("contraindications: %w", err)
	}

	images, err := decodeImages(raw.Images)
	if err != nil {
		return fmt.Errorf("productImage: %w", err)
	}
	p.Images = images
	return nil
}

// decodeList decodes a JSON array, or a JSON string that itself holds an array.
func decodeList[T any](data json.RawMessage, out *[]T) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*out = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		if strings.TrimSpace(inner) == "" {
			*out = nil
			return nil
		}
		data = json.RawMessage(inner)
	}
	return json.Unmarshal(data, out)
}

func decodeImages(data json.RawMessage) ([]AttachmentRef, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, err
		}
		if single == "" {
			return nil, nil
		}
		return []AttachmentRef{AttachmentRef(single)}, nil
	}
	var refs []AttachmentRef
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}
