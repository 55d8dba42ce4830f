// Package loaders batches lookups that product listings repeat per row.
package loaders

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains all the dataloaders for the application
type Loaders struct {
	CategoryLoader *dataloader.Loader[string, *entities.Category]
}

// NewLoaders creates a new instance of Loaders. Every batch costs one
// category list call against the store.
func NewLoaders(categories providers.CategoryStore) *Loaders {
	return &Loaders{
		CategoryLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Category] {
			results := make([]*dataloader.Result[*entities.Category], len(keys))
			list, err := categories.ListCategories(ctx)

			byID := make(map[string]*entities.Category, len(list))
			if err == nil {
				for i := range list {
					byID[list[i].ID] = &list[i]
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.Category]{Error: err}
				} else if c, ok := byID[key]; ok {
					results[i] = &dataloader.Result[*entities.Category]{Data: c}
				} else {
					results[i] = &dataloader.Result[*entities.Category]{Error: fmt.Errorf("category %s not found", key)}
				}
			}
			return results
		}, dataloader.WithWait[string, *entities.Category](2*time.Millisecond)),
	}
}

// CategoryName resolves a category id to its display name. Unknown ids and
// lookup failures resolve to "".
func (l *Loaders) CategoryName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	c, err := l.CategoryLoader.Load(ctx, id)()
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

// Invalidate drops every cached category, e.g. after a rename
func (l *Loaders) Invalidate() {
	l.CategoryLoader.ClearAll()
}

// For returns the loaders for a given context, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}
