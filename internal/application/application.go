package application

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/container-packing/internal/api"
	"github.com/eugenenazirov/container-packing/internal/config"
	"github.com/eugenenazirov/container-packing/internal/metrics"
	"github.com/eugenenazirov/container-packing/internal/service"
	"github.com/eugenenazirov/container-packing/internal/storage"
	"github.com/eugenenazirov/container-packing/web"
)

const indexFile = "templates/index.html"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	service *service.Service
	metrics *metrics.Recorder
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if cfg.InitialContainers != nil {
		if err := store.SetContainers(cfg.InitialContainers); err != nil {
			return nil, fmt.Errorf("failed to apply initial containers: %w", err)
		}
	}

	recorder := metrics.New()
	svc := service.New(
		service.WithLogger(logger),
		service.WithMetrics(recorder),
		service.WithMaxItems(cfg.MaxItems),
	)
	handler := api.NewHandler(svc, store)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(recorder),
	)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		storage: store,
		service: svc,
		metrics: recorder,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root handler that serves the embedded front
// end and routes API and metrics requests.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	return buildRootHandler(apiHandler, web.Assets)
}

func buildRootHandler(apiHandler http.Handler, assets fs.FS) (http.Handler, error) {
	index, err := fs.ReadFile(assets, indexFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s: %w", indexFile, err)
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("unable to load static assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(index)
	}))

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.Int("max_items", a.service.MaxItems()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
