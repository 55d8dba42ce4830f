// Package catalogadmin wires the catalog editor: record store client,
// editor services, list mirrors, session handling and the optional Redis
// backed event bus. A host UI embeds it through New.
package catalogadmin

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/mishcolife/catalogadmin/internal/adapters/events"
	"github.com/mishcolife/catalogadmin/internal/adapters/session"
	"github.com/mishcolife/catalogadmin/internal/application/loaders"
	"github.com/mishcolife/catalogadmin/internal/application/services"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/editor/staging"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/clients/recordstore"
	redisclient "github.com/mishcolife/catalogadmin/internal/infrastructure/clients/redis"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
	"github.com/mishcolife/catalogadmin/pkg/config"
)

// Admin is the assembled editor
type Admin struct {
	Catalog    *services.CatalogService
	Products   *services.ProductEditorService
	Blogs      *services.BlogService
	Categories *services.CategoryService
	Contacts   *services.ContactService
	Dashboard  *services.DashboardService
	Sessions   *services.SessionService
	Previews   *staging.MemoryPreviews
	Client     *recordstore.HTTPClient

	source   string
	bus      providers.EventBus
	listener *services.RecordListener
	redis    *redisclient.Client
	shutdown func(context.Context) error
}

type options struct {
	notifier  providers.Notifier
	confirmer providers.Confirmer
	transport http.RoundTripper
}

// Option customizes New
type Option func(*options)

// WithNotifier routes operator notices to n
func WithNotifier(n providers.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithConfirmer asks c before destructive actions
func WithConfirmer(c providers.Confirmer) Option {
	return func(o *options) { o.confirmer = c }
}

// WithTransport sets the innermost round tripper of the store client
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// New assembles the editor from cfg. Redis and OpenTelemetry are optional:
// when they are disabled or unreachable the editor runs on in-process
// replacements.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Admin, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)
	a := &Admin{source: "editor-" + xid.New().String()}

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			a.shutdown = shutdown
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, err
	}

	a.Previews = staging.NewMemoryPreviews()
	a.Previews.Observe(observability.PreviewObserver(metrics))

	var sessionStore providers.SessionStore
	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.RedisAddr()).Msg("redis unavailable, using in-process bus and session store")
		} else {
			a.redis = client
			a.bus = events.NewRedisEventBus(client)
			sessionStore = session.NewRedisStore(client, cfg.Session.Key)
		}
	}
	if a.bus == nil {
		a.bus = events.NewMemoryEventBus()
		sessionStore = session.NewMemoryStore()
	}

	var sessions *services.SessionService
	a.Client = recordstore.NewClient(cfg.Store.BaseURL,
		recordstore.WithTimeout(cfg.Store.Timeout),
		recordstore.WithLoginPath(cfg.Store.LoginPath),
		recordstore.WithTransport(recordstore.Chain(o.transport,
			recordstore.RequestIDMiddleware(),
			recordstore.ObservabilityMiddleware(metrics),
			recordstore.LoggingMiddleware(),
			recordstore.BearerMiddleware(recordstore.TokenSourceFunc(func(ctx context.Context) (string, error) {
				return sessions.Token(ctx)
			})),
		)),
	)
	sessions = services.NewSessionService(a.Client, sessionStore, o.notifier)
	a.Sessions = sessions

	stores := services.CatalogStores{
		Products:   a.Client,
		Categories: a.Client,
		Blogs:      a.Client,
		Contacts:   a.Client,
	}
	a.Catalog = services.NewCatalogService(stores, loaders.NewLoaders(a.Client), services.ImageResolver{
		BaseURL:     a.Client.BaseURL(),
		Placeholder: cfg.Store.PlaceholderImage,
	}, o.notifier)

	syncOpts := services.SyncOptions{
		Catalog: a.Catalog,
		Bus:     a.bus,
		Channel: cfg.Events.Channel,
		Source:  a.source,
	}
	editorOpts := services.EditorOptions{
		Previews:  a.Previews,
		MaxImages: cfg.Editor.MaxImages,
		Sync:      syncOpts,
		Finder:    a.Catalog,
		Notifier:  o.notifier,
		Confirmer: o.confirmer,
		Metrics:   metrics,
	}
	a.Products = services.NewProductEditorService(a.Client, editorOpts)
	a.Blogs = services.NewBlogService(a.Client, editorOpts, a.Catalog)
	a.Categories = services.NewCategoryService(a.Client, syncOpts, o.notifier, o.confirmer, metrics)
	a.Contacts = services.NewContactService(a.Client, syncOpts, o.notifier, o.confirmer)
	a.Dashboard = services.NewDashboardService(stores, o.notifier)

	if a.redis != nil {
		a.listener = services.NewRecordListener(a.Catalog, a.bus, cfg.Events.Channel, a.source)
		if err := a.listener.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start record listener")
			a.listener = nil
		}
	}

	log.Info().
		Str("store", a.Client.BaseURL()).
		Str("source", a.source).
		Bool("redis", a.redis != nil).
		Msg("catalog admin ready")
	return a, nil
}

// Source identifies this editor process on the event bus
func (a *Admin) Source() string {
	return a.source
}

// Close discards open drafts and releases the event bus, Redis and
// telemetry exporters
func (a *Admin) Close(ctx context.Context) error {
	var errs []error
	if err := a.Products.Cancel(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Blogs.Cancel(); err != nil {
		errs = append(errs, err)
	}
	if a.listener != nil {
		a.listener.Stop()
	}
	if err := a.bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
