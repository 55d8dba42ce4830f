package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/editor/draft"
	"github.com/mishcolife/catalogadmin/internal/editor/staging"
	"github.com/mishcolife/catalogadmin/internal/editor/submission"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// BlogFinder looks up a mirrored blog post by id
type BlogFinder interface {
	FindBlog(id string) (entities.BlogPost, bool)
}

// BlogService edits and deletes blog posts. It follows the product editor:
// one open draft, one submission in flight.
type BlogService struct {
	mu         sync.Mutex
	current    *draft.BlogDraft
	submitting bool

	store     providers.BlogStore
	finder    BlogFinder
	previews  staging.Previews
	sync      recordSync
	notifier  providers.Notifier
	confirmer providers.Confirmer
	metrics   *observability.Metrics
}

// NewBlogService creates a new blog service
func NewBlogService(store providers.BlogStore, opts EditorOptions, finder BlogFinder) *BlogService {
	notifier := orNoop(opts.Notifier)
	return &BlogService{
		store:     store,
		finder:    finder,
		previews:  opts.Previews,
		sync:      newRecordSync(opts.Sync, notifier),
		notifier:  notifier,
		confirmer: orConfirm(opts.Confirmer),
		metrics:   opts.Metrics,
	}
}

// Open starts editing post, discarding any open draft
func (s *BlogService) Open(post *entities.BlogPost) error {
	if post == nil || post.ID == "" {
		return apperrors.NewValidationError("blog post has no id")
	}
	d := draft.HydrateBlog(post, s.previews)

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

// OpenByID starts editing the mirrored post with the given id
func (s *BlogService) OpenByID(ctx context.Context, id string) error {
	if s.finder == nil {
		return fmt.Errorf("open blog %s: no blog finder configured", id)
	}
	post, ok := s.finder.FindBlog(id)
	if !ok {
		err := apperrors.NewNotFoundError(fmt.Sprintf("blog %s not found", id))
		failure(ctx, observability.LoggerFromContext(ctx), s.notifier, "open blog", err)
		return err
	}
	return s.Open(&post)
}

// Edit runs fn against the open draft
func (s *BlogService) Edit(fn func(b *draft.BlogDraft) error) error {
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

// Submitting reports whether a submission is in flight
func (s *BlogService) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Cancel discards the open draft
func (s *BlogService) Cancel() error {
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

// Submit sends the open draft as an update of the post
func (s *BlogService) Submit(ctx context.Context) (*entities.BlogPost, error) {
	logger := observability.LoggerFromContext(ctx)
	const action = "update blog"

	s.mu.Lock()
	d := s.current
	if d == nil {
		s.mu.Unlock()
		return nil, ErrNoDraft
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
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}
	payload, err := submission.EncodeBlog(d)
	if err != nil {
		s.mu.Unlock()
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}
	id := d.RecordID()
	s.submitting = true
	s.mu.Unlock()

	ctx, span := observability.StartSpan(ctx, "BlogService.Submit")
	defer span.End()

	saved, err := s.store.UpdateBlog(ctx, id, payload)

	s.mu.Lock()
	s.submitting = false
	if err == nil && s.current == d {
		d.Dispose()
		s.current = nil
	}
	s.mu.Unlock()

	observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionBlogs), "update", outcome(err))
	if err != nil {
		observability.RecordError(span, err)
		failure(ctx, logger, s.notifier, action, err)
		return nil, err
	}

	logger.Info().Str("record_id", id).Msg("blog updated")
	success(ctx, s.notifier, "Blog updated successfully")
	s.sync.settle(ctx, entities.CollectionBlogs, id, entities.RecordEventUpdated)
	return saved, nil
}

// Delete removes a blog post after the operator confirms
func (s *BlogService) Delete(ctx context.Context, id string) (bool, error) {
	logger := observability.LoggerFromContext(ctx)
	if !s.confirmer.Confirm(ctx, "Are you sure you want to delete this blog?") {
		return false, nil
	}

	message, err := s.store.DeleteBlog(ctx, id)
	observability.RecordSubmission(ctx, s.metrics, string(entities.CollectionBlogs), "delete", outcome(err))
	if err != nil {
		failure(ctx, logger, s.notifier, "delete blog", err)
		return false, err
	}

	logger.Info().Str("record_id", id).Msg("blog deleted")
	success(ctx, s.notifier, deletedMessage(message, "Blog deleted successfully"))
	s.sync.settle(ctx, entities.CollectionBlogs, id, entities.RecordEventDeleted)
	return true, nil
}
