package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	cloudstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/brandfolio/api/internal/analytics"
	"github.com/brandfolio/api/internal/catalog"
	"github.com/brandfolio/api/internal/handlers"
	"github.com/brandfolio/api/internal/platform/config"
	"github.com/brandfolio/api/internal/platform/documents"
	pfirestore "github.com/brandfolio/api/internal/platform/firestore"
	"github.com/brandfolio/api/internal/platform/observability"
	"github.com/brandfolio/api/internal/platform/visitor"
	"github.com/brandfolio/api/internal/repositories"
	firestoreRepo "github.com/brandfolio/api/internal/repositories/firestore"
	memoryRepo "github.com/brandfolio/api/internal/repositories/memory"
	"github.com/brandfolio/api/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Cloud Storage is only dialled when a document actually lives in a bucket.
	var storageClient *cloudstorage.Client
	if needsStorage(cfg.Documents) {
		storageClient, err = cloudstorage.NewClient(ctx)
		if err != nil {
			logger.Fatal("failed to initialise storage client", zap.Error(err))
		}
		defer func() {
			if err := storageClient.Close(); err != nil {
				logger.Warn("storage close error", zap.Error(err))
			}
		}()
	}

	loaderOpts := []documents.Option{documents.WithTimeout(cfg.Documents.FetchTimeout)}
	if storageClient != nil {
		loaderOpts = append(loaderOpts, documents.WithStorageClient(storageClient))
	}
	loader := documents.NewLoader(loaderOpts...)

	store := catalog.NewStore()
	if raw, err := loader.Fetch(ctx, cfg.Documents.CatalogSource); err != nil {
		logger.Warn("catalog document unavailable; starting with an empty catalog",
			zap.String("source", cfg.Documents.CatalogSource),
			zap.Error(err),
		)
	} else if err := store.Load(raw); err != nil {
		logger.Warn("catalog document malformed; starting with an empty catalog",
			zap.String("source", cfg.Documents.CatalogSource),
			zap.Error(err),
		)
	} else {
		logger.Info("catalog loaded",
			zap.String("source", cfg.Documents.CatalogSource),
			zap.Int("products", store.Len()),
		)
	}

	var profileRaw []byte
	if raw, err := loader.Fetch(ctx, cfg.Documents.ProfileSource); err != nil {
		logger.Warn("profile document unavailable; serving fallback profile",
			zap.String("source", cfg.Documents.ProfileSource),
			zap.Error(err),
		)
	} else {
		profileRaw = raw
	}

	// Persistence: Firestore when configured, process memory otherwise.
	var (
		wishlistRepo      repositories.WishlistRepository
		preferenceRepo    repositories.PreferenceRepository
		firestoreProvider *pfirestore.Provider
	)
	if strings.TrimSpace(cfg.Firestore.ProjectID) != "" {
		firestoreProvider = pfirestore.NewProvider(cfg.Firestore)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := firestoreProvider.Close(closeCtx); err != nil {
				logger.Warn("firestore close error", zap.Error(err))
			}
		}()

		wishlistRepo, err = firestoreRepo.NewWishlistRepository(firestoreProvider)
		if err != nil {
			logger.Fatal("failed to initialise wishlist repository", zap.Error(err))
		}
		preferenceRepo, err = firestoreRepo.NewPreferenceRepository(firestoreProvider)
		if err != nil {
			logger.Fatal("failed to initialise preference repository", zap.Error(err))
		}
	} else {
		logger.Info("no firestore project configured; visitor state is in-memory only")
		wishlistRepo = memoryRepo.NewWishlistRepository()
		preferenceRepo = memoryRepo.NewPreferenceRepository()
	}

	sink, pubsubClient, pubsubTopic := newAnalyticsSink(ctx, logger, cfg.Analytics, cfg.Features.EnableAnalytics)
	if pubsubTopic != nil {
		defer pubsubTopic.Stop()
	}
	if pubsubClient != nil {
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logger.Warn("pubsub close error", zap.Error(err))
			}
		}()
	}

	tracker := analytics.NewTracker(sink, logger.Named("analytics"),
		analytics.WithFlushInterval(cfg.Analytics.FlushInterval),
		analytics.WithBatchSize(cfg.Analytics.FlushBatchSize),
	)
	defer tracker.Close()

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Store:          store,
		Renderer:       catalog.NewRenderer(),
		Wishlist:       wishlistRepo,
		Tracker:        tracker,
		FilterDebounce: cfg.Analytics.SearchDebounce,
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	profileService, err := services.NewProfileService(services.ProfileServiceDeps{Raw: profileRaw})
	if err != nil {
		logger.Fatal("failed to initialise profile service", zap.Error(err))
	}

	wishlistService, err := services.NewWishlistService(services.WishlistServiceDeps{
		Repo:    wishlistRepo,
		Catalog: store,
		Tracker: tracker,
	})
	if err != nil {
		logger.Fatal("failed to initialise wishlist service", zap.Error(err))
	}

	preferenceService, err := services.NewPreferenceService(services.PreferenceServiceDeps{Repo: preferenceRepo})
	if err != nil {
		logger.Fatal("failed to initialise preference service", zap.Error(err))
	}

	projectID := strings.TrimSpace(cfg.Firestore.ProjectID)
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		visitor.Middleware(visitor.CookieConfig{
			Secret: []byte(cfg.Visitor.CookieSecret),
			Secure: cfg.Visitor.CookieSecure,
			MaxAge: cfg.Visitor.CookieTTL,
		}),
		observability.RequestLoggerMiddleware(projectID),
	}

	healthChecks := []handlers.ReadinessCheck{
		{Name: "catalog", Check: func(context.Context) error {
			if store.Generation() == 0 {
				return errors.New("catalog never loaded")
			}
			return nil
		}},
	}
	if firestoreProvider != nil {
		provider := firestoreProvider
		healthChecks = append(healthChecks, handlers.ReadinessCheck{
			Name: "firestore",
			Check: func(ctx context.Context) error {
				_, err := provider.Client(ctx)
				return err
			},
		})
	}

	opts := []handlers.Option{
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(
			handlers.WithHealthVersion(strings.TrimSpace(os.Getenv("SITE_BUILD_VERSION"))),
			handlers.WithReadinessChecks(healthChecks...),
		)),
		handlers.WithProductRoutes(handlers.NewProductHandlers(catalogService).Routes),
		handlers.WithProfileRoutes(handlers.NewProfileHandlers(profileService).Routes),
		handlers.WithMeRoutes(handlers.NewMeHandlers(wishlistService, preferenceService).Routes),
	}
	if cfg.Features.EnableAdmin {
		opts = append(opts, handlers.WithAdminRoutes(handlers.NewAdminHandlers(catalogService).Routes))
	}

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("brandfolio api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func needsStorage(cfg config.DocumentsConfig) bool {
	return strings.HasPrefix(cfg.CatalogSource, "gs://") || strings.HasPrefix(cfg.ProfileSource, "gs://")
}

// newAnalyticsSink wires the Pub/Sub sink when analytics is enabled and a
// project is configured; otherwise events are discarded.
func newAnalyticsSink(ctx context.Context, logger *zap.Logger, cfg config.AnalyticsConfig, enabled bool) (analytics.Sink, *pubsub.Client, *pubsub.Topic) {
	if !enabled {
		logger.Info("analytics disabled by feature flag")
		return analytics.NopSink{}, nil, nil
	}
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		logger.Info("no analytics project configured; events will be dropped")
		return analytics.NopSink{}, nil, nil
	}

	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		logger.Warn("failed to initialise pubsub client; events will be dropped", zap.Error(err))
		return analytics.NopSink{}, nil, nil
	}

	topic := client.Topic(cfg.Topic)
	sink, err := analytics.NewPubSubSink(topic)
	if err != nil {
		logger.Warn("failed to initialise analytics sink; events will be dropped", zap.Error(err))
		topic.Stop()
		_ = client.Close()
		return analytics.NopSink{}, nil, nil
	}

	logger.Info("analytics publishing enabled",
		zap.String("project", projectID),
		zap.String("topic", cfg.Topic),
	)
	return sink, client, topic
}
