package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"

	"atelier/internal/cache"
	"atelier/internal/config"
	"atelier/internal/handlers"
	"atelier/internal/middleware"
	"atelier/internal/repositories"
	"atelier/internal/services"
	"atelier/internal/upload"
	"atelier/pkg/logger"
	"atelier/pkg/rabbitmq"
	"atelier/pkg/storage"
)

// Dependencies are the backends the application runs on.
type Dependencies struct {
	Repos  repositories.Repositories
	Store  storage.ObjectStore
	Cache  cache.ListingCache      // nil disables the listing cache
	Events services.EventPublisher // nil disables change events

	closers []func() error
}

// Close releases every backend connection opened by OpenDependencies.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i]()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := OpenDependencies(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise backends")
	}
	defer deps.Close()

	app, err := NewApp(ctx, cfg, deps, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(cfg.Server.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// OpenDependencies connects the database, object store, cache and broker selected by cfg.
// When a broker is configured a consumer keeps the local cache in step with writes made
// by other instances until ctx is cancelled.
func OpenDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	switch cfg.Database.Driver {
	case "memory":
		deps.Repos = repositories.NewMemoryRepositories()
	default:
		db, err := repositories.OpenDatabase(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			deps.closers = append(deps.closers, sqlDB.Close)
		}
		deps.Repos = repositories.NewGORMRepositories(db)
	}

	store, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Store = store

	switch cfg.CacheBackend() {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, rc.Close)
		deps.Cache = rc
	case "memory":
		deps.Cache = cache.NewMemoryCache()
	default:
		log.Info().Msg("listing cache disabled")
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, log)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, mq.Close)
		deps.Events = mq

		if deps.Cache != nil {
			invalidate := services.InvalidateOnEvent(deps.Cache)
			go func() {
				if err := mq.ConsumeEvents(ctx, invalidate); err != nil {
					log.Error().Err(err).Msg("catalogue event consumer stopped")
				}
			}()
		}
	}

	return deps, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (storage.ObjectStore, error) {
	switch cfg.Driver {
	case "minio":
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.PublicBaseURL,
		}, []string{cfg.ProductBucket, cfg.BlogBucket}, log)
	case "cloudinary":
		return storage.NewCloudinaryStore(cfg.CloudinaryURL)
	case "memory":
		return storage.NewMemoryStore(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// NewApp wires services and handlers over deps and returns the fiber application. The
// admin account from cfg is created when it does not exist yet.
func NewApp(ctx context.Context, cfg *config.Config, deps *Dependencies, log zerolog.Logger) (*fiber.App, error) {
	infra := services.Infra{
		Cache:    deps.Cache,
		CacheTTL: cfg.Cache.TTL,
		Events:   deps.Events,
		Logger:   &log,
	}

	productService := services.NewProductService(deps.Repos.Products, infra)
	categoryService := services.NewCategoryService(deps.Repos.Categories, infra)
	blogService := services.NewBlogService(deps.Repos.Posts, infra)
	authService := services.NewAuthService(deps.Repos.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	contactService := services.NewContactService(cfg.Contact.SimulatedDelay, log)

	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	productImages := upload.New(deps.Store, cfg.Storage.ProductBucket, "products", log)
	blogImages := upload.New(deps.Store, cfg.Storage.BlogBucket, "blog", log)

	app := fiber.New(fiber.Config{AppName: "atelier"})
	app.Use(fiberlogger.New())

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": deps.Events != nil,
		})
	})

	handlers.NewCatalogueHandler(productService, categoryService, log).RegisterRoutes(apiV1)
	handlers.NewParticipationHandler(blogService, log).RegisterRoutes(apiV1)
	handlers.NewContactHandler(contactService, log).RegisterRoutes(apiV1)
	handlers.NewAuthHandler(authService, log).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService, log))
	handlers.NewAdminHandler(productService, categoryService, blogService, productImages, blogImages, log).
		RegisterRoutes(protected)

	return app, nil
}
