package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"todoApp/internal/config"
	"todoApp/internal/handlers"
	"todoApp/internal/logger"
	"todoApp/internal/middleware"
	"todoApp/internal/repository/task/dynamo"
	"todoApp/internal/repository/task/inmemory"
	"todoApp/internal/repository/task/postgres"
	redisrepo "todoApp/internal/repository/task/redis"
	"todoApp/internal/service"
	"todoApp/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository
	service    handlers.Service
	shutdowns  []func() // run in reverse order on exit
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Flushing logs...")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		a.Close()
		return err
	}

	renderer, err := view.New()
	if err != nil {
		a.Close()
		return fmt.Errorf("init view: %w", err)
	}

	a.service = service.NewTaskService(a.repository)
	handler := handlers.NewTaskHandler(a.service, renderer, a.config.Repository.Type)
	a.router = NewRouter(handler, middleware.NewMetrics(), a.config)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application initialized",
		zap.String("store", a.config.Repository.Type),
		zap.String("table", a.config.Store.Table),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	store := a.config.Store

	switch a.config.Repository.Type {
	case config.RepoDynamo:
		repo, err := dynamo.New(ctx, store.Table, store.Region, store.Endpoint)
		if err != nil {
			return fmt.Errorf("init dynamodb store: %w", err)
		}
		a.repository = repo

	case config.RepoRedis:
		repo, err := redisrepo.New(ctx, store.RedisURL, store.Table)
		if err != nil {
			return fmt.Errorf("init redis store: %w", err)
		}
		a.repository = repo
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Closing redis client...")
			if err := repo.Close(); err != nil {
				logger.Error("Failed to close redis client", err)
			}
		})

	case config.RepoPostgres:
		repo, err := postgres.New(ctx, store.PostgresURL, store.Table)
		if err != nil {
			return fmt.Errorf("init postgres store: %w", err)
		}
		a.repository = repo
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Closing postgres pool...")
			repo.Close()
		})

	case config.RepoInMemory:
		a.repository = inmemory.NewTaskStorage()

	default:
		return fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}

	logger.Info("Store ready", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// the server down and releases the store.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
