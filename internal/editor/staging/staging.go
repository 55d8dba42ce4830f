// Package staging tracks the attachments of a draft: persisted references
// the operator keeps, and new files queued for upload with local previews.
package staging

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// File is a new binary attachment selected by the operator
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type queuedFile struct {
	file   File
	handle Handle
}

// Set holds the kept references and queued files of one draft. The two
// collections are disjoint: kept only ever shrinks, queued is replaced
// wholesale on each selection.
type Set struct {
	kept     []entities.AttachmentRef
	queued   []queuedFile
	previews Previews
	limit    int
}

// NewSet creates an empty staging set. limit caps kept+queued; zero means
// unbounded.
func NewSet(previews Previews, limit int) *Set {
	if previews == nil {
		previews = NewMemoryPreviews()
	}
	return &Set{previews: previews, limit: limit}
}

// InitFromExisting sets kept to refs and clears the queue
func (s *Set) InitFromExisting(refs []entities.AttachmentRef) {
	s.releaseQueued()
	s.kept = make([]entities.AttachmentRef, 0, len(refs))
	for _, r := range refs {
		if strings.TrimSpace(string(r)) == "" {
			continue
		}
		s.kept = append(s.kept, r)
	}
}

// RemoveKept drops ref from the kept references. Removing a reference that
// is not kept is a no-op.
func (s *Set) RemoveKept(ref entities.AttachmentRef) {
	out := s.kept[:0]
	for _, r := range s.kept {
		if r != ref {
			out = append(out, r)
		}
	}
	s.kept = out
}

// SetQueued replaces the queued files. Previews of the previous selection
// are released before the new ones are acquired. If a preview cannot be
// acquired, the handles taken so far are released and the queue is left
// empty.
func (s *Set) SetQueued(files []File) error {
	if s.limit > 0 && len(s.kept)+len(files) > s.limit {
		return apperrors.NewValidationError(
			fmt.Sprintf("at most %d images per product", s.limit),
			entities.FieldProductImages,
		)
	}

	normalized := make([]File, len(files))
	for i, f := range files {
		nf, err := normalize(f)
		if err != nil {
			return err
		}
		normalized[i] = nf
	}

	s.releaseQueued()

	queued := make([]queuedFile, 0, len(normalized))
	for _, f := range normalized {
		h, err := s.previews.Acquire(f)
		if err != nil {
			for _, q := range queued {
				s.previews.Release(q.handle)
			}
			return fmt.Errorf("acquire preview for %s: %w", f.Name, err)
		}
		queued = append(queued, queuedFile{file: f, handle: h})
	}
	s.queued = queued
	return nil
}

// RemoveQueuedAt removes one queued file and releases its preview
func (s *Set) RemoveQueuedAt(index int) error {
	if index < 0 || index >= len(s.queued) {
		return apperrors.NewIndexOutOfRangeError(index, len(s.queued))
	}
	s.previews.Release(s.queued[index].handle)
	s.queued = append(s.queued[:index:index], s.queued[index+1:]...)
	return nil
}

// Dispose releases every outstanding preview handle and clears the queue.
// It is safe to call more than once.
func (s *Set) Dispose() {
	s.releaseQueued()
}

// Kept returns a copy of the kept references in order
func (s *Set) Kept() []entities.AttachmentRef {
	return append([]entities.AttachmentRef(nil), s.kept...)
}

// Queued returns the queued files in selection order
func (s *Set) Queued() []File {
	out := make([]File, len(s.queued))
	for i, q := range s.queued {
		out[i] = q.file
	}
	return out
}

// PreviewHandles returns the preview handle of each queued file, in order
func (s *Set) PreviewHandles() []Handle {
	out := make([]Handle, len(s.queued))
	for i, q := range s.queued {
		out[i] = q.handle
	}
	return out
}

// Len returns the number of kept plus queued attachments
func (s *Set) Len() int {
	return len(s.kept) + len(s.queued)
}

func (s *Set) releaseQueued() {
	for _, q := range s.queued {
		s.previews.Release(q.handle)
	}
	s.queued = nil
}

func normalize(f File) (File, error) {
	if len(f.Data) == 0 {
		return File{}, apperrors.NewValidationError(
			fmt.Sprintf("image %q is empty", f.Name),
			entities.FieldProductImages,
		)
	}
	if f.ContentType == "" {
		f.ContentType = http.DetectContentType(f.Data)
	}
	if !strings.HasPrefix(f.ContentType, "image/") {
		return File{}, apperrors.NewValidationError(
			fmt.Sprintf("%q is not an image (%s)", f.Name, f.ContentType),
			entities.FieldProductImages,
		)
	}
	if f.Name == "" {
		f.Name = "image"
	}
	return f, nil
}
