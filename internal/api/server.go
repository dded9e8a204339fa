package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hpungsan/ideastore/internal/config"
	"github.com/hpungsan/ideastore/internal/ops"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	CORS   config.CORSConfig
	Logger *slog.Logger

	// Registry receives the HTTP collectors and backs /metrics.
	// A nil Registry gets a fresh one.
	Registry *prometheus.Registry
}

// NewRouter builds the entry API handler with its middleware stack.
// Order, outermost first: CORS, panic recovery, request ID, logging, metrics, routes.
func NewRouter(svc *ops.Service, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	// Bodies are capped at the service's own limit so the two never disagree.
	h := &Handlers{svc: svc, log: logger, maxBytes: int64(svc.MaxContentBytes())}
	metrics := NewMetrics(reg)

	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/save", h.HandleSave).Methods(http.MethodPost)
	r.HandleFunc("/entries", h.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/entries/{id}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/entries/{id}/preview", h.HandlePreview).Methods(http.MethodGet)
	// Blob IDs may contain slashes (S3 keys are dated paths).
	r.HandleFunc("/load/{blobId:.+}", h.HandleLoad).Methods(http.MethodGet)
	r.HandleFunc("/content", h.HandleContent).Methods(http.MethodGet)
	r.HandleFunc("/update/{id}", h.HandleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/delete/{id}", h.HandleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/healthz", h.HandleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Wrong methods on known paths are reported like unknown paths.
	// mux skips Use middleware for both, so metrics wrap them directly.
	notFound := metrics.Middleware(http.HandlerFunc(h.HandleNotFound))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	stack := Chain(
		handlers.CORS(
			handlers.AllowedOrigins(opts.CORS.Origins()),
			handlers.AllowedMethods(opts.CORS.Methods()),
			handlers.AllowedHeaders(opts.CORS.Headers()),
			handlers.ExposedHeaders([]string{RequestIDHeader}),
		),
		handlers.RecoveryHandler(
			handlers.RecoveryLogger(recoveryLogger{logger}),
			handlers.PrintRecoveryStack(true),
		),
		RequestID,
		Logger(logger),
	)
	return stack(r)
}

// recoveryLogger adapts slog to handlers.RecoveryHandlerLogger.
type recoveryLogger struct{ log *slog.Logger }

func (l recoveryLogger) Println(v ...any) {
	l.log.Error("panic recovered", slog.String("panic", fmt.Sprint(v...)))
}

// NewServer creates an http.Server for handler using the transport settings in cfg.
func NewServer(handler http.Handler, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to shutdownTimeout.
func Run(ctx context.Context, srv *http.Server, logger *slog.Logger, shutdownTimeout time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("ideastore api listening", slog.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
