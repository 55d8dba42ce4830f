package providers

import (
	"context"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
)

// SessionStore keeps the current operator session between requests
type SessionStore interface {
	// Load returns the stored session, or nil when none is stored
	Load(ctx context.Context) (*entities.Session, error)
	Save(ctx context.Context, session *entities.Session) error
	Clear(ctx context.Context) error
}
