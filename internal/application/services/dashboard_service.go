package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
)

// RecentContactLimit is how many inquiries the dashboard shows
const RecentContactLimit = 5

// DashboardSummary is the landing page overview
type DashboardSummary struct {
	Products       int                       `json:"products"`
	Categories     int                       `json:"categories"`
	Blogs          int                       `json:"blogs"`
	Contacts       int                       `json:"contacts"`
	RecentContacts []entities.ContactMessage `json:"recent_contacts"`
}

// DashboardService builds the dashboard summary
type DashboardService struct {
	stores   CatalogStores
	notifier providers.Notifier
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(stores CatalogStores, notifier providers.Notifier) *DashboardService {
	return &DashboardService{stores: stores, notifier: orNoop(notifier)}
}

// Summary fetches every collection concurrently. Any failure fails the
// whole summary.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	ctx, span := observability.StartSpan(ctx, "DashboardService.Summary")
	defer span.End()

	var (
		products   []entities.Product
		categories []entities.Category
		blogs      []entities.BlogPost
		contacts   []entities.ContactMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.stores.Products.ListProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.stores.Categories.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		blogs, err = s.stores.Blogs.ListBlogs(gctx)
		return err
	})
	g.Go(func() (err error) {
		contacts, err = s.stores.Contacts.ListContacts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		failure(ctx, observability.LoggerFromContext(ctx), s.notifier, "load dashboard", err)
		return nil, err
	}

	entities.SortContactsNewestFirst(contacts)
	recent := contacts
	if len(recent) > RecentContactLimit {
		recent = recent[:RecentContactLimit]
	}

	return &DashboardSummary{
		Products:       len(products),
		Categories:     len(categories),
		Blogs:          len(blogs),
		Contacts:       len(contacts),
		RecentContacts: append([]entities.ContactMessage(nil), recent...),
	}, nil
}
