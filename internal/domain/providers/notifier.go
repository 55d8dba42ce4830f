package providers

import (
	"context"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
)

// Notifier delivers user-facing notices to the rendering layer
type Notifier interface {
	Notify(ctx context.Context, notice entities.Notice)
}

// Confirmer asks the operator to confirm a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, notice entities.Notice)

// Notify implements Notifier
func (f NotifierFunc) Notify(ctx context.Context, notice entities.Notice) { f(ctx, notice) }

// ConfirmerFunc adapts a function to Confirmer
type ConfirmerFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }
