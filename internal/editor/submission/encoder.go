package submission

import (
	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/editor/draft"
)

// EncodeProduct builds the multipart payload for a product draft. Scalars are
// written in a fixed order, blank group entries are dropped, kept image
// references go into existingImages and every queued file is attached under
// productImages. The draft is not modified.
func EncodeProduct(d *draft.Draft) (*Payload, error) {
	p := &Payload{}

	fields := d.Fields()
	for _, name := range entities.ScalarFieldOrder {
		v, err := fields.Get(name)
		if err != nil {
			return nil, err
		}
		p.addValue(name, v)
	}

	blobs := []struct {
		name string
		v    any
	}{
		{entities.FieldComposition, d.Composition.NonBlank()},
		{entities.FieldMechanismOfAction, d.MechanismOfAction.NonBlank()},
		{entities.FieldUses, d.Uses.NonBlank()},
		{entities.FieldIndications, d.Indications.NonBlank()},
		{entities.FieldContraindications, d.Contraindications.NonBlank()},
		{entities.FieldExistingImages, entities.RefStrings(d.Images.Kept())},
	}
	for _, b := range blobs {
		if err := p.addBlob(b.name, b.v); err != nil {
			return nil, err
		}
	}

	for _, f := range d.Images.Queued() {
		p.addFile(entities.FieldProductImages, f)
	}
	return p, nil
}

// EncodeBlog builds the multipart payload for a blog draft. Empty file slots
// are omitted so the store keeps the current images.
func EncodeBlog(b *draft.BlogDraft) (*Payload, error) {
	p := &Payload{}
	p.addValue(draft.FieldBlogTitle, b.Title)
	p.addValue(draft.FieldBlogDescription, b.Description)
	p.addValue(draft.FieldBlogSenderName, b.SenderName)

	if f, ok := b.Image(); ok {
		p.addFile(draft.FieldBlogImage, f)
	}
	if f, ok := b.SenderPhotoFile(); ok {
		p.addFile(draft.FieldBlogSenderPhoto, f)
	}
	return p, nil
}

// EncodeCategory builds the JSON body used to add or rename a category
func EncodeCategory(name string) (*JSONBody, error) {
	return NewJSONBody(map[string]string{"name": name})
}
