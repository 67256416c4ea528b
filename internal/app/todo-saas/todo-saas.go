// Package todosaas собирает приложение: хранилище, кеш, брокер,
// сервисы и HTTP-сервер с graceful shutdown. Все зависимости
// конструируются явно при старте и передаются компонентам,
// процессных синглтонов нет.
package todosaas

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/todo-saas/internal/cache"
	"github.com/magabrotheeeer/todo-saas/internal/config"
	libjwt "github.com/magabrotheeeer/todo-saas/internal/lib/jwt"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/lib/webhooksig"
	"github.com/magabrotheeeer/todo-saas/internal/migrations"
	"github.com/magabrotheeeer/todo-saas/internal/rabbitmq"
	adminservice "github.com/magabrotheeeer/todo-saas/internal/services/admin"
	identityservice "github.com/magabrotheeeer/todo-saas/internal/services/identity"
	subscriptionservice "github.com/magabrotheeeer/todo-saas/internal/services/subscription"
	taskservice "github.com/magabrotheeeer/todo-saas/internal/services/task"
	"github.com/magabrotheeeer/todo-saas/internal/storage/repository"
)

// App владеет HTTP-сервером и соединениями с внешними системами.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	broker *amqp.Connection
}

// New строит приложение из конфига: подключает хранилище, применяет
// миграции, поднимает кеш и брокер, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	broker, err := rabbitmq.Connect(cfg.AddressRabbit, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(broker, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch, cfg.Exchange)

	var verifier *webhooksig.Verifier
	if cfg.WebhookSecret != "" {
		verifier, err = webhooksig.NewVerifier(cfg.WebhookSecret)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("webhook secret is not set, provider deliveries will be rejected")
	}

	tokenMaker := libjwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	subscriptionService := subscriptionservice.NewService(db, cacheRedis, publisher, logger)
	taskService := taskservice.NewService(db, logger)
	identityService := identityservice.NewService(db, logger)
	adminService := adminservice.NewService(db, subscriptionService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokenMaker, verifier,
		taskService, subscriptionService, identityService, adminService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		broker: broker,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if closeErr := a.broker.Close(); closeErr != nil {
			a.logger.Error("failed to close broker connection", sl.Err(closeErr))
		}
		if closeErr := a.cache.Close(); closeErr != nil {
			a.logger.Error("failed to close redis client", sl.Err(closeErr))
		}
		return err
	}
}
