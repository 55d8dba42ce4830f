package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/editor/draft"
	"github.com/mishcolife/catalogadmin/internal/editor/staging"
	"github.com/mishcolife/catalogadmin/internal/editor/submission"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// ErrNoDraft is returned when an editor operation needs an open draft
var ErrNoDraft = errors.New("no draft is open")

// ProductFinder looks up a mirrored product by id
type ProductFinder interface {
	FindProduct(id string) (entities.Product, bool)
}

// EditorOptions configures a ProductEditorService
type EditorOptions struct {
	Previews  staging.Previews
	MaxImages int
	Sync      SyncOptions
	Finder    ProductFinder
	Notifier  providers.Notifier
	Confirmer providers.Confirmer
	Metrics   *observability.Metrics
}

// ProductEditorService owns the product draft being edited. All draft access
// goes through the service so callers on different goroutines see a
// consistent draft, and at most one submission is in flight at a time.
type ProductEditorService struct {
	mu         sync.Mutex
	current    *draft.Draft
	submitting bool

	store     providers.ProductStore
	finder    ProductFinder
	sync      recordSync
	notifier  providers.Notifier
	confirmer providers.Confirmer
	metrics   *observability.Metrics
	draftOpts draft.Options
}

// NewProductEditorService creates a new product editor service
func NewProductEditorService(store providers.ProductStore, opts EditorOptions) *ProductEditorService {
	notifier := orNoop(opts.Notifier)
	return &ProductEditorService{
		store:     store,
		finder:    opts.Finder,
		sync:      newRecordSync(opts.Sync, notifier),
		notifier:  notifier,
		confirmer: orConfirm(opts.Confirmer),
		metrics:   opts.Metrics,
		draftOpts: draft.Options{Previews: opts.Previews, MaxImages: opts.MaxImages},
	}
}

// OpenNew replaces the current draft with an empty one
func (s *ProductEditorService) OpenNew() error {
	return s.open(draft.New(s.draftOpts))
}

// OpenExisting replaces the current draft with one hydrated from p
func (s *ProductEditorService) OpenExisting(p *entities.Product) error {
	if p == nil || p.ID == "" {
		return apperrors.NewValidationError("product has no id")
	}
	return s.open(draft.Hydrate(p, s.draftOpts))
}

// OpenByID hydrates a draft from the mirrored product with the given id
func (s *ProductEditorService) OpenByID(ctx context.Context, id string) error {
	if s.finder == nil {
		return fmt.Errorf("open product %s: no product finder configured", id)
	}
	p, ok := s.finder.FindProduct(id)
	if !ok {
		err := apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", id))
		failure(ctx, observability.LoggerFromContext(ctx), s.notifier, "open product", err)
		return err
	}
	return s.OpenExisting(&p)
}

func (s *ProductEditorService) open(d *draft.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		d.Dispose()
		return apperrors.NewInFlightError()
	}
	if s.current != nil {
		s.current.Dispose()
	}
	s.current = d
	return nil
}

// Edit runs fn against the open draft. Edits are refused while a submission
// is in flight so the payload on the wire matches the draft.
func (s *ProductEditorService) Edit(fn func(d *draft.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoDraft
	}
	if s.submitting {
		return apperrors.NewInFlightError()
	}
	return fn(s.current)
}

// View runs fn against the open draft without allowing a submission to start
// meanwhile. fn must not retain d.
func (s *ProductEditorService) View(fn func(d *draft.Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoDraft
	}
	fn(s.current)
	return nil
}

// Snapshot returns a copy of the open draft's state
func (s *ProductEditorService) Snapshot() (draft.Snapshot, error) {
	var snap draft.Snapshot
	err := s.View(func(d *draft.Draft) { snap = d.Snapshot() })
	return snap, err
}

// Validate validates the open draft
func (s *ProductEditorService) Validate() (draft.ValidationResult, error) {
	var res draft.ValidationResult
	err := s.View(func(d *draft.Draft) { res = d.Validate() })
	return res, err
}

// HasDraft reports whether a draft is open
func (s *ProductEditorService) HasDraft() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Submitting reports whether a submission is in flight
func (s *ProductEditorService) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Cancel discards the open draft and releases its previews
func (s *ProductEditorService) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return apperrors.NewInFlightError()
	}
	if s.current != nil {
		s.current.Dispose()
		s.current = nil
	}
	return nil
}

// Submit validates and encodes the open draft, then creates or updates the
// record. On success the draft is discarded and the product list refetched.
// On failure the draft is left untouched so the operator can fix it and
// submit again.
func (s *ProductEditorService) Submit(ctx context.Context) (*entities.Product, error) {
	logger := observability.LoggerFromContext(ctx)

	s.mu.Lock()
	d := s.current
	if d == nil {
		s.mu.Unlock()
		return nil, ErrNoDraft
	}
	operation, action := "update", "update product"
	if d.IsNew() {
		operation, action = "create", "add product"
	}
	if s.submitting {
		s.mu.Unlock()
		err := apperrors.NewInFlightError()
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}
	if res := d.Validate(); !res.OK() {
		s.mu.Unlock()
		err := res.Err()
		observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionProducts), operation, "invalid")
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}
	payload, err := submission.EncodeProduct(d)
	if err != nil {
		s.mu.Unlock()
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}
	recordID := d.RecordID()
	s.submitting = true
	s.mu.Unlock()

	ctx, span := observability.StartSpan(ctx, "ProductEditorService.Submit")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("operation", operation),
		attribute.String("record.id", recordID),
	)

	var saved *entities.Product
	if operation == "create" {
		saved, err = s.store.CreateProduct(ctx, payload)
	} else {
		saved, err = s.store.UpdateProduct(ctx, recordID, payload)
	}

	s.mu.Lock()
	s.submitting = false
	if err == nil && s.current == d {
		d.Dispose()
		s.current = nil
	}
	s.mu.Unlock()

	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionProducts), operation, outcome(err))
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}

	observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionProducts), operation, "ok")
	eventType := entities.RecordEventUpdated
	message := "Product updated successfully"
	if operation == "create" {
		eventType = entities.RecordEventCreated
		message = "Product added successfully"
	}
	if saved != nil && saved.ID != "" {
		recordID = saved.ID
	}
	logger.Info().Str("record_id", recordID).Str("operation", operation).Msg("product saved")
	success(ctx, s.notifier, message)
	s.sync.settle(ctx, entities.CollectionProducts, recordID, eventType)
	return saved, nil
}

// Delete removes a product after the operator confirms. A declined
// confirmation returns false and no error.
func (s *ProductEditorService) Delete(ctx context.Context, id string) (bool, error) {
	logger := observability.LoggerFromContext(ctx)
	if !s.confirmer.Confirm(ctx, "Are you sure you want to delete this product?") {
		return false, nil
	}

	ctx, span := observability.StartSpan(ctx, "ProductEditorService.Delete")
	defer span.End()

	message, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionProducts), "delete", outcome(err))
		failure(ctx, logger, s.notifier, "delete product", err)
		return false, err
	}
	observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionProducts), "delete", "ok")

	s.mu.Lock()
	if s.current != nil && !s.submitting && s.current.RecordID() == id {
		s.current.Dispose()
		s.current = nil
	}
	s.mu.Unlock()

	logger.Info().Str("record_id", id).Msg("product deleted")
	success(ctx, s.notifier, deletedMessage(message, "Product deleted successfully"))
	s.sync.settle(ctx, entities.CollectionProducts, id, entities.RecordEventDeleted)
	return true, nil
}

func deletedMessage(fromStore, fallback string) string {
	if fromStore == "" || fromStore == "deleted" {
		return fallback
	}
	return fromStore
}
