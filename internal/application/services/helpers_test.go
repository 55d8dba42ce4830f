package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mishcolife/catalogadmin/internal/application/services"
	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/editor/draft"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/clients/recordstore"
	"github.com/mishcolife/catalogadmin/internal/testutil/fakestore"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// Mocks

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) ListProducts(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *MockProductStore) CreateProduct(ctx context.Context, body providers.Body) (*entities.Product, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductStore) UpdateProduct(ctx context.Context, id string, body providers.Body) (*entities.Product, error) {
	args := m.Called(ctx, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context, collection entities.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []entities.Notice
}

func (n *recordingNotifier) Notify(ctx context.Context, notice entities.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) All() []entities.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entities.Notice(nil), n.notices...)
}

func (n *recordingNotifier) Last() entities.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return entities.Notice{}
	}
	return n.notices[len(n.notices)-1]
}

func (n *recordingNotifier) Levels() []entities.NoticeLevel {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entities.NoticeLevel, len(n.notices))
	for i, notice := range n.notices {
		out[i] = notice.Level
	}
	return out
}

// Fixtures

type backend struct {
	store   *fakestore.Store
	client  *recordstore.HTTPClient
	catalog *services.CatalogService
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	store := fakestore.New()
	srv := store.Server()
	t.Cleanup(srv.Close)

	client := recordstore.NewClient(srv.URL, recordstore.WithTimeout(5*time.Second))
	catalog := services.NewCatalogService(services.CatalogStores{
		Products:   client,
		Categories: client,
		Blogs:      client,
		Contacts:   client,
	}, nil, services.ImageResolver{BaseURL: srv.URL, Placeholder: "placeholder.png"}, nil)

	return &backend{store: store, client: client, catalog: catalog}
}

func fillRequired(t *testing.T, d *draft.Draft, categoryID string) {
	t.Helper()
	require.NoError(t, d.SetField(entities.FieldProductName, "Calpol"))
	require.NoError(t, d.SetField(entities.FieldGenericName, "Paracetamol"))
	require.NoError(t, d.SetField(entities.FieldStrength, "500mg"))
	require.NoError(t, d.SetField(entities.FieldCategory, categoryID))
	require.NoError(t, d.Uses.SetAt(0, "Fever"))
}
