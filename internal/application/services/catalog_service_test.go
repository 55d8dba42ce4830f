package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mishcolife/catalogadmin/internal/application/services"
	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/testutil/fakestore"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

func seedContacts(store *fakestore.Store, n int) time.Time {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		store.SeedContact(entities.ContactMessage{
			FullName:  "Visitor",
			Email:     "visitor@example.com",
			QueryType: "general",
			Message:   "hello",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return base
}

func TestCatalog_ContactsNewestFirst(t *testing.T) {
	b := newBackend(t)
	base := seedContacts(b.store, 3)

	require.NoError(t, b.catalog.Load(context.Background(), entities.CollectionContacts))

	contacts := b.catalog.Contacts.Items()
	require.Len(t, contacts, 3)
	assert.Equal(t, base.Add(2*time.Hour), contacts[0].CreatedAt.UTC())
	assert.Equal(t, base, contacts[2].CreatedAt.UTC())
}

func TestCatalog_FailedRefreshKeepsItems(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	b.store.SeedCategory("Analgesics")
	require.NoError(t, b.catalog.Refresh(ctx, entities.CollectionCategories))
	require.Equal(t, 1, b.catalog.Categories.Len())

	b.store.FailNext("GET", "/api/categories/getall", fakestore.Failure{Status: 500, Raw: "<html>down</html>"})
	err := b.catalog.Refresh(ctx, entities.CollectionCategories)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransport))

	state, stateErr := b.catalog.Categories.State()
	assert.Equal(t, services.MirrorError, state)
	assert.Equal(t, err, stateErr)
	assert.Equal(t, 1, b.catalog.Categories.Len(), "previous items kept")
}

func TestCatalog_LoadNotifiesFailure(t *testing.T) {
	b := newBackend(t)
	notifier := &recordingNotifier{}
	catalog := services.NewCatalogService(services.CatalogStores{
		Products:   b.client,
		Categories: b.client,
		Blogs:      b.client,
		Contacts:   b.client,
	}, nil, services.ImageResolver{}, notifier)

	b.store.FailNext("GET", "/api/blogs/getall", fakestore.Failure{Status: 503, Body: map[string]any{"message": "maintenance"}})
	err := catalog.Load(context.Background(), entities.CollectionBlogs)
	require.Error(t, err)
	assert.Equal(t, entities.NoticeError, notifier.Last().Level)

	assert.Error(t, catalog.Refresh(context.Background(), entities.Collection("orders")))
}

func TestCatalog_LoadAll(t *testing.T) {
	b := newBackend(t)
	b.store.SeedCategory("Analgesics")
	b.store.SeedProduct(entities.Product{ProductName: "Calpol"})
	b.store.SeedBlog(entities.BlogPost{Title: "Dosage tips"})
	seedContacts(b.store, 2)

	require.NoError(t, b.catalog.LoadAll(context.Background()))
	assert.Equal(t, 1, b.catalog.Products.Len())
	assert.Equal(t, 1, b.catalog.Categories.Len())
	assert.Equal(t, 1, b.catalog.Blogs.Len())
	assert.Equal(t, 2, b.catalog.Contacts.Len())
}

func TestCatalog_ProductCards(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	catID := b.store.SeedCategory("Analgesics")
	b.store.SeedProduct(entities.Product{
		ID:          "p1",
		ProductName: "Calpol",
		Category:    entities.CategoryRef{ID: catID},
		Images:      []entities.AttachmentRef{"/uploads/1-front.png", "https://cdn.example.com/back.png"},
	})
	b.store.SeedProduct(entities.Product{
		ID:          "p2",
		ProductName: "Brufen",
		Category:    entities.CategoryRef{ID: "unknown"},
	})
	require.NoError(t, b.catalog.Refresh(ctx, entities.CollectionProducts))

	cards := b.catalog.ProductCards(ctx)
	require.Len(t, cards, 2)

	byID := map[string]services.ProductCard{}
	for _, c := range cards {
		byID[c.Product.ID] = c
	}

	calpol := byID["p1"]
	assert.Equal(t, "Analgesics", calpol.CategoryName)
	require.Len(t, calpol.ImageURLs, 2)
	assert.Equal(t, b.catalog.Images().BaseURL+"/uploads/1-front.png", calpol.ImageURLs[0])
	assert.Equal(t, "https://cdn.example.com/back.png", calpol.ImageURLs[1])

	brufen := byID["p2"]
	assert.Empty(t, brufen.CategoryName)
	assert.Equal(t, []string{"placeholder.png"}, brufen.ImageURLs)
}

func TestMirror_ArrangeAndFind(t *testing.T) {
	calls := 0
	m := services.NewMirror(func(ctx context.Context) ([]int, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("boom")
		}
		return []int{3, 1, 2}, nil
	}, func(items []int) {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	})

	state, _ := m.State()
	assert.Equal(t, services.MirrorIdle, state)

	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, []int{2, 1, 3}, m.Items())
	assert.False(t, m.UpdatedAt().IsZero())

	v, ok := m.Find(func(i int) bool { return i > 2 })
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	items := m.Items()
	items[0] = 99
	assert.Equal(t, []int{2, 1, 3}, m.Items(), "Items returns a copy")

	assert.Error(t, m.Refresh(context.Background()))
	assert.Equal(t, 3, m.Len())
}

func TestMirror_OverlappingRefreshesApplyInIssueOrder(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls atomic.Int32
	m := services.NewMirror(func(ctx context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
			return []string{"old"}, nil
		}
		return []string{"old", "new"}, nil
	}, nil)

	done := make(chan error, 1)
	go func() { done <- m.Refresh(context.Background()) }()
	<-firstStarted

	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, []string{"old", "new"}, m.Items())

	close(releaseFirst)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"old", "new"}, m.Items(), "stale fetch discarded")
	state, err := m.State()
	assert.Equal(t, services.MirrorReady, state)
	assert.NoError(t, err)
}

func TestMirror_StaleFailureDoesNotMarkError(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls atomic.Int32
	m := services.NewMirror(func(ctx context.Context) ([]int, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
			return nil, errors.New("connection reset")
		}
		return []int{1}, nil
	}, nil)

	done := make(chan error, 1)
	go func() { done <- m.Refresh(context.Background()) }()
	<-firstStarted
	require.NoError(t, m.Refresh(context.Background()))

	close(releaseFirst)
	assert.Error(t, <-done)
	state, _ := m.State()
	assert.Equal(t, services.MirrorReady, state)
	assert.Equal(t, []int{1}, m.Items())
}
