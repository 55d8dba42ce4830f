package catalogadmin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/editor/draft"
	"github.com/mishcolife/catalogadmin/internal/editor/staging"
	"github.com/mishcolife/catalogadmin/internal/testutil/fakestore"
	"github.com/mishcolife/catalogadmin/pkg/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			BaseURL:          baseURL,
			Timeout:          5 * time.Second,
			LoginPath:        "/api/auth/login",
			PlaceholderImage: "placeholder.png",
		},
		Editor: config.EditorConfig{MaxImages: 4},
		Events: config.EventsConfig{Channel: providers.DefaultRecordChannel},
		Log:    config.LogConfig{Env: "test", Level: "error"},
		OTEL:   config.OTELConfig{ServiceName: "catalog-admin-test"},
	}
}

func TestNew_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := fakestore.New()
	store.RequireJWT()
	store.AddUser("operator", "s3cret")
	catID := store.SeedCategory("Analgesics")
	srv := store.Server()
	t.Cleanup(srv.Close)

	var (
		mu      sync.Mutex
		notices []entities.Notice
	)
	admin, err := New(ctx, testConfig(srv.URL), WithNotifier(providers.NotifierFunc(func(_ context.Context, n entities.Notice) {
		mu.Lock()
		notices = append(notices, n)
		mu.Unlock()
	})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close(context.Background()) })
	assert.NotEmpty(t, admin.Source())

	_, err = admin.Sessions.Login(ctx, "operator", "s3cret")
	require.NoError(t, err)
	require.NoError(t, admin.Catalog.LoadAll(ctx))

	require.NoError(t, admin.Products.OpenNew())
	require.NoError(t, admin.Products.Edit(func(d *draft.Draft) error {
		for name, value := range map[string]string{
			entities.FieldProductName: "Calpol",
			entities.FieldGenericName: "Paracetamol",
			entities.FieldStrength:    "500mg",
			entities.FieldCategory:    catID,
			entities.FieldMRP:         "30",
		} {
			if err := d.SetField(name, value); err != nil {
				return err
			}
		}
		if err := d.Uses.SetAt(0, "Fever"); err != nil {
			return err
		}
		return d.Images.SetQueued([]staging.File{{Name: "front.png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}})
	}))

	saved, err := admin.Products.Submit(ctx)
	require.NoError(t, err)

	req, ok := store.LastRequest("POST", "/api/products/add")
	require.True(t, ok)
	assert.Contains(t, req.Authorization, "Bearer ")
	assert.NotEmpty(t, req.RequestID)

	cards := admin.Catalog.ProductCards(ctx)
	require.Len(t, cards, 1)
	assert.Equal(t, saved.ID, cards[0].Product.ID)
	assert.Equal(t, "Analgesics", cards[0].CategoryName)
	assert.Contains(t, cards[0].ImageURLs[0], srv.URL+"/uploads/")

	summary, err := admin.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 1, summary.Categories)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, notices)
	assert.Equal(t, entities.NoticeSuccess, notices[len(notices)-1].Level)
}

func TestNew_RedisUnavailableFallsBack(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Redis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	admin, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, admin.redis)
	assert.Nil(t, admin.listener)
	require.NoError(t, admin.Close(context.Background()))
}
