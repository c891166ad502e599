// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/garyellow/kitaku-linebot-go/internal/bot"
	"github.com/garyellow/kitaku-linebot-go/internal/buildinfo"
	"github.com/garyellow/kitaku-linebot-go/internal/config"
	"github.com/garyellow/kitaku-linebot-go/internal/ctxutil"
	"github.com/garyellow/kitaku-linebot-go/internal/logger"
	"github.com/garyellow/kitaku-linebot-go/internal/metrics"
	"github.com/garyellow/kitaku-linebot-go/internal/sentry"
	"github.com/garyellow/kitaku-linebot-go/internal/station"
	"github.com/garyellow/kitaku-linebot-go/internal/webhook"
)

const serviceName = "kitaku-linebot-go"

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	stations       *station.Cache
	webhookHandler *webhook.Handler
	router         *gin.Engine
	server         *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	return initialize(ctx, cfg, log)
}

func initialize(_ context.Context, cfg *config.Config, log *logger.Logger, opts ...webhook.HandlerOption) (*Application, error) {
	log = log.WithField("service", serviceName)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}
	if buildinfo.Version != "" {
		log = log.WithField("version", buildinfo.Version)
	}

	// Package-level slog.*Context() calls pick up user/chat/request IDs via ContextHandler.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
	}); err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)
	metrics.RegisterLogDrops(registry, log.DroppedRecords)

	stations := station.NewCache()
	handlerOpts := []webhook.HandlerOption{
		webhook.WithErrorReporter(sentry.CaptureException),
	}
	if cfg.StationLookupEnabled() {
		handlerOpts = append(handlerOpts, webhook.WithLocator(
			station.NewHTTPLocator(cfg.StationAPIURL, cfg.StationLookupTimeout),
		))
		log.WithField("url", cfg.StationAPIURL).Info("Station lookup enabled")
	} else {
		log.Info("Station lookup disabled, replies use the default station")
	}
	handlerOpts = append(handlerOpts, opts...)

	table := bot.DefaultTable()
	log.WithField("rules", table.Names()).Info("Rule table loaded")

	webhookHandler, err := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret:       cfg.LineChannelSecret,
		ChannelToken:        cfg.LineChannelToken,
		MaxMessagesPerReply: cfg.MaxMessagesPerReply,
		GlobalRateLimitRPS:  cfg.GlobalRateLimitRPS,
		Table:               table,
		Stations:            stations,
		Metrics:             m,
		Logger:              log,
	}, handlerOpts...)
	if err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}

	app := &Application{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		registry:       registry,
		stations:       stations,
		webhookHandler: webhookHandler,
	}
	app.router = app.buildRouter()
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

func (a *Application) buildRouter() *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/", a.hello)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.POST("/callback", a.webhookHandler.Handle)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsAuthEnabled(), a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(gzhttp.GzipHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))))

	return router
}

// Handler exposes the HTTP router.
func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) hello(c *gin.Context) {
	c.String(http.StatusOK, "hello world!")
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	record, cached := a.stations.Get()
	if !cached {
		record = station.DefaultRecord
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"station": gin.H{
			"name":   record.Name,
			"cached": cached,
		},
		"features": gin.H{
			"station_lookup": a.cfg.StationLookupEnabled(),
			"error_tracking": sentry.IsEnabled(),
			"metrics_auth":   a.cfg.MetricsAuthEnabled(),
		},
	})
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Received shutdown signal")
		return a.shutdown()
	})

	return g.Wait()
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		errs = append(errs, err)
	}

	a.logger.Info("Waiting for webhook events to complete...")
	if err := a.webhookHandler.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Webhook handler shutdown timeout")
		errs = append(errs, err)
	}

	if sentry.IsEnabled() {
		remaining := time.Until(deadlineOr(shutdownCtx, time.Now().Add(2*time.Second)))
		if !sentry.Flush(remaining) {
			a.logger.Warn("Sentry flush timed out")
		}
	}

	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}

	a.logger.Info("Shutdown complete")
	return errors.Join(errs...)
}

func deadlineOr(ctx context.Context, fallback time.Time) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return fallback
}

func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Next()
	}
}

var requestIDHeaders = []string{"X-Request-Id", "X-Correlation-Id"}

func requestIDFrom(c *gin.Context) string {
	for _, h := range requestIDHeaders {
		if v := c.GetHeader(h); v != "" {
			return v
		}
	}
	return uuid.NewString()
}

func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := requestIDFrom(c)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))
		c.Header("X-Request-Id", requestID)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithField("http_method", method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("client_ip", c.ClientIP()).
			WithRequestID(requestID)

		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status == http.StatusNotFound:
			entry.Debug("HTTP request not found")
		case status >= 400:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}
