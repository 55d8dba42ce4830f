// Package draft holds the in-memory working copy of a product while it is
// created or edited. A single Draft type serves both flows; the origin only
// decides the seed values and which store operation a submit maps to.
package draft

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/editor/fieldgroup"
	"github.com/mishcolife/catalogadmin/internal/editor/staging"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// Origin tells whether a draft started empty or from a stored record
type Origin int

const (
	OriginNew Origin = iota
	OriginHydrated
)

func (o Origin) String() string {
	if o == OriginHydrated {
		return "hydrated"
	}
	return "new"
}

// Draft is the editable copy of a product. It is owned by exactly one
// editor and is not safe for concurrent use.
type Draft struct {
	origin   Origin
	recordID string
	fields   entities.ProductFields

	Composition       *fieldgroup.Group[entities.Ingredient]
	MechanismOfAction *fieldgroup.Group[entities.Mechanism]
	Uses              *fieldgroup.Group[string]
	Indications       *fieldgroup.Group[string]
	Contraindications *fieldgroup.Group[string]
	Images            *staging.Set

	baseline string
	disposed bool
}

// Options tunes draft construction
type Options struct {
	Previews staging.Previews
	// MaxImages caps kept+queued attachments. Zero means unbounded.
	MaxImages int
}

// New returns an empty draft for the create flow
func New(opts Options) *Draft {
	d := &Draft{
		origin:            OriginNew,
		fields:            entities.NewProductFields(),
		Composition:       newComposition(nil),
		MechanismOfAction: newMechanisms(nil),
		Uses:              fieldgroup.NewStrings(nil),
		Indications:       fieldgroup.NewStrings(nil),
		Contraindications: fieldgroup.NewStrings(nil),
		Images:            staging.NewSet(opts.Previews, opts.MaxImages),
	}
	d.baseline = d.Fingerprint()
	return d
}

// Hydrate returns a draft populated from a stored product for the edit flow.
// Groups whose stored list is empty start with one empty entry.
func Hydrate(p *entities.Product, opts Options) *Draft {
	d := &Draft{
		origin:            OriginHydrated,
		recordID:          p.ID,
		fields:            entities.FieldsFromProduct(p),
		Composition:       newComposition(p.Composition),
		MechanismOfAction: newMechanisms(p.MechanismOfAction),
		Uses:              fieldgroup.NewStrings(p.Uses),
		Indications:       fieldgroup.NewStrings(p.Indications),
		Contraindications: fieldgroup.NewStrings(p.Contraindications),
		Images:            staging.NewSet(opts.Previews, opts.MaxImages),
	}
	d.Images.InitFromExisting(p.Images)
	d.baseline = d.Fingerprint()
	return d
}

func newComposition(seed []entities.Ingredient) *fieldgroup.Group[entities.Ingredient] {
	return fieldgroup.New(entities.Ingredient{}, entities.Ingredient.IsBlank, seed)
}

func newMechanisms(seed []entities.Mechanism) *fieldgroup.Group[entities.Mechanism] {
	return fieldgroup.New(entities.Mechanism{}, entities.Mechanism.IsBlank, seed)
}

// Origin reports how the draft was created
func (d *Draft) Origin() Origin { return d.origin }

// IsNew reports whether submitting the draft creates a record
func (d *Draft) IsNew() bool { return d.origin == OriginNew }

// RecordID returns the id of the record being edited, empty for new drafts
func (d *Draft) RecordID() string { return d.recordID }

// Fields returns a copy of the scalar fields
func (d *Draft) Fields() entities.ProductFields { return d.fields }

// SetField assigns a scalar field by identifier, rejecting unknown keys
func (d *Draft) SetField(name, value string) error {
	if err := d.fields.Set(name, value); err != nil {
		return apperrors.NewValidationError(err.Error(), name)
	}
	return nil
}

// SetFlag assigns a boolean scalar field by identifier
func (d *Draft) SetFlag(name string, value bool) error {
	if err := d.fields.SetFlag(name, value); err != nil {
		return apperrors.NewValidationError(err.Error(), name)
	}
	return nil
}

// Validate runs the required-field checks
func (d *Draft) Validate() ValidationResult {
	return validateProduct(d.fields, d.Uses.Entries())
}

// Dirty reports whether the draft differs from how it was created
func (d *Draft) Dirty() bool {
	return d.Fingerprint() != d.baseline
}

// Dispose releases the draft's preview handles. The draft must not be used
// afterwards; calling Dispose again is a no-op.
func (d *Draft) Dispose() {
	if d.disposed {
		return
	}
	d.Images.Dispose()
	d.disposed = true
}

// Disposed reports whether Dispose has been called
func (d *Draft) Disposed() bool { return d.disposed }

// Snapshot is a value copy of everything an operator can edit
type Snapshot struct {
	Origin            string                   `json:"origin"`
	RecordID          string                   `json:"record_id"`
	Fields            entities.ProductFields   `json:"fields"`
	Composition       []entities.Ingredient    `json:"composition"`
	MechanismOfAction []entities.Mechanism     `json:"mechanism_of_action"`
	Uses              []string                 `json:"uses"`
	Indications       []string                 `json:"indications"`
	Contraindications []string                 `json:"contraindications"`
	KeptImages        []entities.AttachmentRef `json:"kept_images"`
	QueuedImages      []QueuedImage            `json:"queued_images"`
}

// QueuedImage summarizes a queued file without its preview handle
type QueuedImage struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Digest      string `json:"digest"`
}

// Snapshot copies the current state
func (d *Draft) Snapshot() Snapshot {
	queued := d.Images.Queued()
	images := make([]QueuedImage, len(queued))
	for i, f := range queued {
		sum := sha256.Sum256(f.Data)
		images[i] = QueuedImage{Name: f.Name, ContentType: f.ContentType, Digest: hex.EncodeToString(sum[:])}
	}
	return Snapshot{
		Origin:            d.origin.String(),
		RecordID:          d.recordID,
		Fields:            d.fields,
		Composition:       d.Composition.Entries(),
		MechanismOfAction: d.MechanismOfAction.Entries(),
		Uses:              d.Uses.Entries(),
		Indications:       d.Indications.Entries(),
		Contraindications: d.Contraindications.Entries(),
		KeptImages:        d.Images.Kept(),
		QueuedImages:      images,
	}
}

// Fingerprint returns a stable digest of the snapshot
func (d *Draft) Fingerprint() string {
	data, err := json.Marshal(d.Snapshot())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// StringGroup returns the free-text group stored under name
func (d *Draft) StringGroup(name string) (*fieldgroup.Group[string], error) {
	switch name {
	case entities.FieldUses:
		return d.Uses, nil
	case entities.FieldIndications:
		return d.Indications, nil
	case entities.FieldContraindications:
		return d.Contraindications, nil
	}
	return nil, apperrors.NewValidationError((&entities.ErrUnknownField{Name: name}).Error(), name)
}
