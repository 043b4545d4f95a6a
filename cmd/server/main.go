package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KamilKorczek/project-pizzeria/internal/auth"
	"github.com/KamilKorczek/project-pizzeria/internal/cache"
	"github.com/KamilKorczek/project-pizzeria/internal/catalog"
	"github.com/KamilKorczek/project-pizzeria/internal/config"
	"github.com/KamilKorczek/project-pizzeria/internal/middleware"
	"github.com/KamilKorczek/project-pizzeria/internal/service"
	"github.com/KamilKorczek/project-pizzeria/internal/storage/sqlite"
	"github.com/KamilKorczek/project-pizzeria/internal/widget"
	"github.com/KamilKorczek/project-pizzeria/pkg/api/apiconnect"
	"github.com/KamilKorczek/project-pizzeria/pkg/logging"
)

// legacyOrderPath is where the original widget posts its order document.
const legacyOrderPath = "/order"

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	cfg, err := config.Load(getEnv("CONFIG_DIR", "configs"), getEnv("APP_ENV", "dev"))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logCloser := logging.SetupWithOptions(logging.Options{
		Level:     cfg.App.LogLevel,
		File:      cfg.App.LogFile,
		Component: cfg.App.Name,
	})

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
	logCloser.Close()
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	menu, err := catalog.Load(cfg.Menu.Path)
	if err != nil {
		return err
	}
	slog.Info("Menu loaded", "path", cfg.Menu.Path, "products", menu.Len())

	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Storage.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	for _, op := range cfg.Operators {
		seeded, created, err := authenticator.EnsureOperator(ctx, op.Email, op.DisplayName, op.Password)
		if err != nil {
			return err
		}
		if created {
			slog.Info("Operator created", "operator_id", seeded.ID, "email", seeded.Email)
		}
	}
	jwtManager := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)

	idem, closeIdem, err := newIdempotencyStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeIdem()

	limits := widget.AmountLimits{Min: cfg.Amount.Min, Max: cfg.Amount.Max, Default: cfg.Amount.Default}
	menuSvc, err := service.NewMenuService(menu, cfg.Cart.DeliveryFee, limits, slog.Default())
	if err != nil {
		return err
	}
	orderSvc := service.NewOrderService(store, menu, cfg.Cart.DeliveryFee, idem, slog.Default())
	authSvc := service.NewAuthService(authenticator, jwtManager, slog.Default())

	// auth runs outermost so the logging interceptor sees the operator
	logged := []connect.Interceptor{middleware.LoggingInterceptor(slog.Default()), middleware.MetricsInterceptor()}
	public := connect.WithInterceptors(append([]connect.Interceptor{middleware.OptionalAuth(jwtManager)}, logged...)...)
	private := connect.WithInterceptors(append([]connect.Interceptor{middleware.RequireAuth(jwtManager, store)}, logged...)...)
	anonymous := connect.WithInterceptors(logged...)

	mux := http.NewServeMux()

	menuPath, menuHandler := apiconnect.NewMenuServiceHandler(menuSvc, anonymous)
	mux.Handle(menuPath, menuHandler)

	orderPath, orderHandler := apiconnect.NewOrderServiceHandler(orderSvc,
		[]connect.HandlerOption{public}, []connect.HandlerOption{private})
	mux.Handle(orderPath, orderHandler)
	mux.Handle(legacyOrderPath, rewritePath(apiconnect.OrderServiceSubmitOrderProcedure, orderHandler))

	authPath, authHandler := apiconnect.NewAuthServiceHandler(authSvc, anonymous)
	mux.Handle(authPath, authHandler)

	mux.Handle("/metrics", promhttp.Handler())

	if err := mountStatic(mux, cfg.App.StaticPath); err != nil {
		return err
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newIdempotencyStore uses Redis when an address is configured so replicas
// share submission records, and process memory otherwise.
func newIdempotencyStore(ctx context.Context, cfg config.Config) (cache.IdempotencyStore, func(), error) {
	if cfg.Redis.Addr == "" {
		slog.Info("Idempotency store: memory", "ttl", cfg.Idempotency.TTL)
		return cache.NewMemoryIdempotencyStore(cfg.Idempotency.TTL), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, err
	}

	slog.Info("Idempotency store: redis", "addr", cfg.Redis.Addr, "ttl", cfg.Idempotency.TTL)
	return cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL), func() { _ = rdb.Close() }, nil
}

// rewritePath serves next as if the request had been sent to path.
func rewritePath(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := r.Clone(r.Context())
		r2.URL.Path = path
		next.ServeHTTP(w, r2)
	})
}

// mountStatic serves the widget frontend at "/" when staticPath is set.
// The directory must hold an index.html.
func mountStatic(mux *http.ServeMux, staticPath string) error {
	if staticPath == "" {
		slog.Info("No static_path configured, serving the API only")
		return nil
	}
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(staticDir, "index.html")); err != nil {
		return fmt.Errorf("static_path %s: %w", staticDir, err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))
	return nil
}

// staticHandler serves the widget frontend, falling back to index.html.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/pizzeria.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
