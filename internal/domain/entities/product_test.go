package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_UnmarshalJSON_NormalizesStoreShapes(t *testing.T) {
	body := `{
		"_id": "p1",
		"productName": "Calpol",
		"mrp": 42.5,
		"category": {"_id": "cat1", "name": "Analgesics"},
		"composition": "[{\"name\":\"Paracetamol\",\"strength\":\"500mg\"}]",
		"mechanismOfAction": [{"drug":"Paracetamol","moa":"COX inhibition"}],
		"uses": "[\"Pain relief\",\"Fever\"]",
		"indications": null,
		"contraindications": "",
		"productImage": "/uploads/calpol.png",
		"prescriptionRequired": false
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, FlexString("42.5"), p.MRP)
	assert.Equal(t, CategoryRef{ID: "cat1", Name: "Analgesics"}, p.Category)
	assert.Equal(t, []Ingredient{{Name: "Paracetamol", Strength: "500mg"}}, p.Composition)
	assert.Equal(t, []Mechanism{{Drug: "Paracetamol", Description: "COX inhibition"}}, p.MechanismOfAction)
	assert.Equal(t, []string{"Pain relief", "Fever"}, p.Uses)
	assert.Nil(t, p.Indications)
	assert.Nil(t, p.Contraindications)
	assert.Equal(t, []AttachmentRef{"/uploads/calpol.png"}, p.Images)
	require.NotNil(t, p.PrescriptionRequired)
	assert.False(t, *p.PrescriptionRequired)
	assert.Nil(t, p.IsFeatured)
}

func TestProduct_UnmarshalJSON_PlainArrays(t *testing.T) {
	body := `{"_id":"p2","category":"cat2","mrp":"12","productImage":["/u/a.png","/u/b.png"]}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "cat2", p.Category.ID)
	assert.Equal(t, FlexString("12"), p.MRP)
	assert.Equal(t, []AttachmentRef{"/u/a.png", "/u/b.png"}, p.Images)
}

func TestProduct_MarshalCategoryAsID(t *testing.T) {
	data, err := json.Marshal(Product{ID: "p3", Category: CategoryRef{ID: "cat3", Name: "ignored"}})
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "cat3", back["category"])
}

func TestAttachmentRef_Resolve(t *testing.T) {
	const base = "https://store.example.com/"
	const placeholder = "https://via.placeholder.com/600x600.png?text=No+Image"

	assert.Equal(t, "https://store.example.com/uploads/a.png", AttachmentRef("/uploads/a.png").Resolve(base, placeholder))
	assert.Equal(t, "https://store.example.com/uploads/a.png", AttachmentRef("uploads/a.png").Resolve(base, placeholder))
	assert.Equal(t, "https://cdn.example.com/x.png", AttachmentRef("https://cdn.example.com/x.png").Resolve(base, placeholder))
	assert.Equal(t, placeholder, AttachmentRef("  ").Resolve(base, placeholder))
}

func TestProductFields_RejectsUnknownKeys(t *testing.T) {
	f := NewProductFields()

	require.NoError(t, f.Set(FieldProductName, "Calpol"))
	require.NoError(t, f.Set(FieldIsFeatured, "true"))

	var unknown *ErrUnknownField
	assert.ErrorAs(t, f.Set("sku", "123"), &unknown)
	assert.Equal(t, "sku", unknown.Name)
	assert.Error(t, f.SetFlag(FieldColor, true))
	assert.Error(t, f.Set(FieldPrescriptionRequired, "maybe"))

	assert.Equal(t, "Calpol", f.ProductName)
	assert.True(t, f.IsFeatured)
	assert.True(t, f.PrescriptionRequired)

	v, err := f.Get(FieldColor)
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, v)
}

func TestSession_Valid(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Valid(timeNow()))
	assert.True(t, (&Session{Token: "t"}).Valid(timeNow()))
	assert.False(t, (&Session{Token: "t", ExpiresAt: timeNow().Add(-1)}).Valid(timeNow()))
}
