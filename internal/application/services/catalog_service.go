package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mishcolife/catalogadmin/internal/application/loaders"
	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
)

// CatalogStores bundles the store operations the catalog mirrors read from
type CatalogStores struct {
	Products   providers.ProductStore
	Categories providers.CategoryStore
	Blogs      providers.BlogStore
	Contacts   providers.ContactStore
}

// ImageResolver turns attachment references into renderable URLs
type ImageResolver struct {
	BaseURL     string
	Placeholder string
}

// Resolve returns the URL for ref, or the placeholder when ref is empty
func (r ImageResolver) Resolve(ref entities.AttachmentRef) string {
	return ref.Resolve(r.BaseURL, r.Placeholder)
}

// ProductCard is a product prepared for a list view
type ProductCard struct {
	Product      entities.Product
	CategoryName string
	ImageURLs    []string
}

// Refresher refetches one collection after a mutation
type Refresher interface {
	Refresh(ctx context.Context, collection entities.Collection) error
}

// CatalogService owns the list mirrors of every collection
type CatalogService struct {
	Products   *Mirror[entities.Product]
	Categories *Mirror[entities.Category]
	Blogs      *Mirror[entities.BlogPost]
	Contacts   *Mirror[entities.ContactMessage]

	loaders  *loaders.Loaders
	images   ImageResolver
	notifier providers.Notifier
}

// NewCatalogService creates a catalog service. Contacts are kept newest
// first regardless of the order the store returns them in.
func NewCatalogService(stores CatalogStores, l *loaders.Loaders, images ImageResolver, notifier providers.Notifier) *CatalogService {
	if l == nil {
		l = loaders.NewLoaders(stores.Categories)
	}
	return &CatalogService{
		Products:   NewMirror(stores.Products.ListProducts, nil),
		Categories: NewMirror(stores.Categories.ListCategories, nil),
		Blogs:      NewMirror(stores.Blogs.ListBlogs, nil),
		Contacts:   NewMirror(stores.Contacts.ListContacts, entities.SortContactsNewestFirst),
		loaders:    l,
		images:     images,
		notifier:   orNoop(notifier),
	}
}

// Refresh refetches one collection. Failures keep the previous items.
func (s *CatalogService) Refresh(ctx context.Context, collection entities.Collection) error {
	switch collection {
	case entities.CollectionProducts:
		return s.Products.Refresh(ctx)
	case entities.CollectionCategories:
		s.loaders.Invalidate()
		return s.Categories.Refresh(ctx)
	case entities.CollectionBlogs:
		return s.Blogs.Refresh(ctx)
	case entities.CollectionContacts:
		return s.Contacts.Refresh(ctx)
	}
	return fmt.Errorf("unknown collection %q", collection)
}

// Load refetches a collection on behalf of the operator and reports a
// failure as a notice
func (s *CatalogService) Load(ctx context.Context, collection entities.Collection) error {
	if err := s.Refresh(ctx, collection); err != nil {
		failure(ctx, observability.LoggerFromContext(ctx), s.notifier, "load "+string(collection), err)
		return err
	}
	return nil
}

// LoadAll refetches every collection concurrently. Each mirror settles on
// its own; the first error is returned.
func (s *CatalogService) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	for _, c := range []entities.Collection{
		entities.CollectionProducts,
		entities.CollectionCategories,
		entities.CollectionBlogs,
		entities.CollectionContacts,
	} {
		g.Go(func() error { return s.Load(ctx, c) })
	}
	return g.Wait()
}

// FindProduct looks a product up in the mirror
func (s *CatalogService) FindProduct(id string) (entities.Product, bool) {
	return s.Products.Find(func(p entities.Product) bool { return p.ID == id })
}

// FindBlog looks a blog post up in the mirror
func (s *CatalogService) FindBlog(id string) (entities.BlogPost, bool) {
	return s.Blogs.Find(func(b entities.BlogPost) bool { return b.ID == id })
}

// ProductCards returns the mirrored products with category names and image
// URLs resolved
func (s *CatalogService) ProductCards(ctx context.Context) []ProductCard {
	products := s.Products.Items()
	cards := make([]ProductCard, len(products))

	var wg sync.WaitGroup
	for i := range products {
		wg.Go(func() {
			p := products[i]
			name := p.Category.Name
			if name == "" {
				name = s.loaders.CategoryName(ctx, p.Category.ID)
			}
			urls := make([]string, 0, len(p.Images))
			for _, ref := range p.Images {
				urls = append(urls, s.images.Resolve(ref))
			}
			if len(urls) == 0 {
				urls = append(urls, s.images.Placeholder)
			}
			cards[i] = ProductCard{Product: p, CategoryName: name, ImageURLs: urls}
		})
	}
	wg.Wait()
	return cards
}

// Images returns the attachment resolver
func (s *CatalogService) Images() ImageResolver {
	return s.images
}
