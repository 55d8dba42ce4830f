package draft

import (
	"errors"
	"strings"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/editor/staging"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// Blog field identifiers
const (
	FieldBlogTitle       = "title"
	FieldBlogDescription = "description"
	FieldBlogSenderName  = "senderName"
	FieldBlogImage       = "imageUrl"
	FieldBlogSenderPhoto = "senderPhoto"
)

// BlogDraft is the editable copy of a blog post. The cover image and the
// author photo are single-file slots; an empty slot keeps the stored image.
type BlogDraft struct {
	recordID    string
	Title       string
	Description string
	SenderName  string

	// Current references, for display only
	ImageURL    entities.AttachmentRef
	SenderPhoto entities.AttachmentRef

	image    *staging.Set
	photo    *staging.Set
	disposed bool
}

// HydrateBlog returns a draft for editing an existing blog post
func HydrateBlog(post *entities.BlogPost, previews staging.Previews) *BlogDraft {
	if previews == nil {
		previews = staging.NewMemoryPreviews()
	}
	return &BlogDraft{
		recordID:    post.ID,
		Title:       post.Title,
		Description: post.Description,
		SenderName:  post.SenderName,
		ImageURL:    post.ImageURL,
		SenderPhoto: post.SenderPhoto,
		image:       staging.NewSet(previews, 1),
		photo:       staging.NewSet(previews, 1),
	}
}

// RecordID returns the id of the blog post being edited
func (b *BlogDraft) RecordID() string { return b.recordID }

// SetImage replaces the queued cover image
func (b *BlogDraft) SetImage(f staging.File) error {
	return b.setSlot(b.image, FieldBlogImage, f)
}

// SetSenderPhoto replaces the queued author photo
func (b *BlogDraft) SetSenderPhoto(f staging.File) error {
	return b.setSlot(b.photo, FieldBlogSenderPhoto, f)
}

func (b *BlogDraft) setSlot(slot *staging.Set, field string, f staging.File) error {
	return slotError(slot.SetQueued([]staging.File{f}), field)
}

// slotError attributes a staging validation failure to the slot field
func slotError(err error, field string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
		return apperrors.NewValidationError(appErr.Message, field)
	}
	return err
}

// Image returns the queued cover image, if any
func (b *BlogDraft) Image() (staging.File, bool) {
	return first(b.image.Queued())
}

// SenderPhotoFile returns the queued author photo, if any
func (b *BlogDraft) SenderPhotoFile() (staging.File, bool) {
	return first(b.photo.Queued())
}

func first(files []staging.File) (staging.File, bool) {
	if len(files) == 0 {
		return staging.File{}, false
	}
	return files[0], true
}

// Validate requires a title
func (b *BlogDraft) Validate() ValidationResult {
	var res ValidationResult
	if strings.TrimSpace(b.Title) == "" {
		res.add(FieldBlogTitle, "title is required")
	}
	return res
}

// Dispose releases the preview handles of both slots
func (b *BlogDraft) Dispose() {
	if b.disposed {
		return
	}
	b.image.Dispose()
	b.photo.Dispose()
	b.disposed = true
}
