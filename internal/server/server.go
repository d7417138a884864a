package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/internal/factcheck"
	"github.com/mohammad-safakhou/factcheck/internal/runtime"
	"github.com/mohammad-safakhou/factcheck/internal/store"
)

var rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "factcheck_http_rate_limited_total",
	Help: "Requests rejected by the rate limiter.",
})

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators served over HTTP.
type Deps struct {
	Verifier       Verifier
	Audit          AuditRecorder
	Limiter        Limiter
	JWTSecret      []byte
	// DB, when set, is pinged by /healthz.
	DB             Pinger
	RequestTimeout time.Duration
	Logger         *log.Logger
}

// NewEcho builds the HTTP API.
func NewEcho(d Deps) *echo.Echo {
	baseLogger := d.Logger
	if baseLogger == nil {
		baseLogger = log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "Fact Checker API is running"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		if d.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := d.DB.Ping(ctx); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
			}
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	if len(d.JWTSecret) > 0 {
		api.Use(AuthMiddleware(d.JWTSecret))
	}
	if d.Limiter != nil {
		api.Use(RateLimit(d.Limiter, baseLogger))
	}
	vh := &VerifyHandler{Verifier: d.Verifier, Audit: d.Audit, Timeout: d.RequestTimeout, Logger: baseLogger}
	vh.Register(api)
	return e
}

// Run wires the configured pipeline and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, addr string) error {
	httpLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)

	tele, _, err := runtime.SetupTelemetry(ctx, cfg.Telemetry, runtime.TelemetryOptions{ServiceName: cfg.Telemetry.ServiceName})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tele.Shutdown(sctx); err != nil {
			httpLogger.Printf("telemetry shutdown: %v", err)
		}
	}()

	orch, err := factcheck.NewFromConfig(cfg, log.New(log.Writer(), "[VERIFY] ", log.LstdFlags))
	if err != nil {
		return err
	}
	deps := Deps{Verifier: orch, RequestTimeout: cfg.Server.RequestTimeout, Logger: httpLogger}
	if cfg.Server.JWTSecret != "" {
		deps.JWTSecret = []byte(cfg.Server.JWTSecret)
	}

	if cfg.Storage.Postgres.Enabled() {
		st, err := store.Open(ctx, cfg.Storage.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer st.Close()
		deps.Audit = st
		deps.DB = st
	}

	if cfg.Server.RateLimit.Enabled {
		rl := cfg.Server.RateLimit
		if cfg.Storage.Redis.Enabled() {
			rdb, err := runtime.ConnectRedis(ctx, cfg.Storage.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()
			deps.Limiter = NewRedisLimiter(rdb, rl.RequestsPerMinute, rl.Burst)
		} else {
			deps.Limiter = NewLocalLimiter(rl.RequestsPerMinute, rl.Burst)
		}
	}

	if addr == "" {
		addr = cfg.Server.Address
	}
	e := NewEcho(deps)

	errCh := make(chan error, 1)
	go func() {
		httpLogger.Printf("listening on %s", addr)
		errCh <- e.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(sctx)
	}
}
