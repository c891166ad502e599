// Package webhook receives LINE webhook calls, normalizes events for the
// rule dispatcher and delivers the replies.
package webhook

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/garyellow/kitaku-linebot-go/internal/bot"
	"github.com/garyellow/kitaku-linebot-go/internal/config"
	"github.com/garyellow/kitaku-linebot-go/internal/ctxutil"
	"github.com/garyellow/kitaku-linebot-go/internal/errors"
	"github.com/garyellow/kitaku-linebot-go/internal/logger"
	"github.com/garyellow/kitaku-linebot-go/internal/metrics"
	"github.com/garyellow/kitaku-linebot-go/internal/ratelimit"
	"github.com/garyellow/kitaku-linebot-go/internal/station"
)

// ErrorReporter forwards a failure to error tracking.
type ErrorReporter func(ctx context.Context, err error)

// Handler handles LINE webhook events
type Handler struct {
	channelSecret     string
	replier           Replier
	sink              *Sink
	dispatcher        *bot.Dispatcher
	stations          *station.Cache
	locator           station.Locator
	metrics           *metrics.Metrics
	logger            *logger.Logger
	reportError       ErrorReporter
	processingTimeout time.Duration
	wg                sync.WaitGroup
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	ChannelSecret       string
	ChannelToken        string
	MaxMessagesPerReply int
	GlobalRateLimitRPS  float64
	Table               *bot.Table
	Stations            *station.Cache
	Metrics             *metrics.Metrics
	Logger              *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig, opts ...HandlerOption) (*Handler, error) {
	if cfg.Table == nil {
		return nil, fmt.Errorf("%w: nil table", errors.ErrInvalidTable)
	}
	stations := cfg.Stations
	if stations == nil {
		stations = station.NewCache()
	}

	h := &Handler{
		channelSecret:     cfg.ChannelSecret,
		stations:          stations,
		metrics:           cfg.Metrics,
		logger:            cfg.Logger.WithModule("webhook"),
		processingTimeout: config.WebhookProcessing,
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.replier == nil {
		client, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
		if err != nil {
			return nil, fmt.Errorf("create messaging API client: %w", err)
		}
		h.replier = client
	}

	h.dispatcher = bot.NewDispatcher(cfg.Table, stations, bot.WithOnMatch(func(rule string) {
		if h.metrics != nil {
			h.metrics.RecordRuleMatch(rule)
		}
	}))

	var limiter *ratelimit.ReplyLimiter
	if cfg.GlobalRateLimitRPS > 0 {
		limiter = ratelimit.NewReplyLimiter(cfg.GlobalRateLimitRPS, cfg.Metrics)
	}
	h.sink = NewSink(h.replier, limiter, cfg.MaxMessagesPerReply, cfg.Metrics)

	return h, nil
}

// Handle is the Gin handler for the webhook endpoint
func (h *Handler) Handle(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if stderrors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.WarnContext(c.Request.Context(), "Invalid webhook signature")
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).ErrorContext(c.Request.Context(), "Failed to parse webhook request")
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	h.logger.WithField("event_count", len(cb.Events)).
		WithField("content_length", c.Request.ContentLength).
		DebugContext(c.Request.Context(), "Webhook received")

	// LINE only needs the 200; replies use the reply token later.
	c.Status(http.StatusOK)

	events := make([]webhook.EventInterface, len(cb.Events))
	copy(events, cb.Events)
	baseCtx := ctxutil.PreserveTracing(c.Request.Context())

	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).ErrorContext(baseCtx, "Panic in async event processing")
			}
		}()

		for _, event := range events {
			h.processEvent(baseCtx, event)
		}
	})
}

// processEvent handles one event: normalize, optionally refresh the station
// cache, dispatch, render and deliver.
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) {
	start := time.Now()
	kind := eventType(event)

	meta := extractMeta(event)
	if meta.EventID != "" {
		ctx = ctxutil.WithEventID(ctx, meta.EventID)
	}
	if meta.UserID != "" {
		ctx = ctxutil.WithUserID(ctx, meta.UserID)
	}
	if meta.ChatID != "" {
		ctx = ctxutil.WithChatID(ctx, meta.ChatID)
	}
	ctx, cancel := context.WithTimeout(ctx, h.processingTimeout)
	defer cancel()

	log := h.logger.WithField("event_type", kind)
	if meta.IsRedelivery {
		log = log.WithField("is_redelivery", true)
	}

	inbound, err := Normalize(event)
	if err != nil {
		log.WithError(err).DebugContext(ctx, "Skipping event")
		h.recordWebhook(kind, metrics.StatusSkipped, start)
		return
	}

	if inbound.Kind == bot.KindLocation {
		h.refreshStation(ctx, inbound)
	}

	messages, err := h.dispatcher.Dispatch(inbound)
	if err != nil {
		if errors.IsUnhandledEventKind(err) {
			log.WithError(err).DebugContext(ctx, "No reply for event")
			h.recordWebhook(kind, metrics.StatusSuccess, start)
			return
		}
		log.WithError(err).ErrorContext(ctx, "Dispatch failed")
		h.recordWebhook(kind, metrics.StatusError, start)
		return
	}

	if err := h.sink.Deliver(ctx, inbound.ReplyTarget, Render(messages)); err != nil {
		h.handleDeliveryFailure(ctx, log, inbound.ReplyTarget, err)
		h.recordWebhook(kind, metrics.StatusError, start)
		return
	}

	h.recordWebhook(kind, metrics.StatusSuccess, start)
	log.WithField("message_count", len(messages)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		InfoContext(ctx, "Event processed")
}

// handleDeliveryFailure sends the apology once, then reports the original error.
func (h *Handler) handleDeliveryFailure(ctx context.Context, log *logger.Logger, replyToken string, deliveryErr error) {
	if err := h.sink.Apologize(ctx, replyToken); err != nil {
		log.WithError(err).WarnContext(ctx, "Failed to send apology")
	}

	if de, ok := errors.AsDeliveryError(deliveryErr); ok {
		log = log.WithField("operation", de.Operation)
		if de.StatusCode != 0 {
			log = log.WithField("status_code", de.StatusCode)
		}
	}
	log.WithError(deliveryErr).ErrorContext(ctx, "Failed to deliver reply")
	if h.reportError != nil {
		h.reportError(ctx, deliveryErr)
	}
}

// refreshStation looks up the nearest station and stores it in the cache.
// Failures leave the previous record in place.
func (h *Handler) refreshStation(ctx context.Context, event bot.InboundEvent) {
	if h.locator == nil {
		h.recordStationLookup(metrics.StatusSkipped, 0)
		return
	}

	start := time.Now()
	record, err := h.locator.Nearest(ctx, event.Latitude, event.Longitude)
	elapsed := time.Since(start)
	log := h.logger.WithFields(map[string]any{
		"latitude":  event.Latitude,
		"longitude": event.Longitude,
	})

	switch {
	case err == nil:
		h.stations.Set(record)
		h.recordStationLookup(metrics.StatusSuccess, elapsed)
		log.WithField("station", record.Name).DebugContext(ctx, "Station cache updated")
	case errors.IsStationNotFound(err):
		h.recordStationLookup(metrics.StatusNotFound, elapsed)
		log.WithError(err).InfoContext(ctx, "No station near location")
	case errors.IsInvalidInput(err):
		h.recordStationLookup(metrics.StatusError, elapsed)
		log.WithError(err).
			WithField("user_message", errors.GetUserMessage(err)).
			WarnContext(ctx, "Station service returned an unusable response")
	default:
		h.recordStationLookup(metrics.StatusError, elapsed)
		log.WithError(err).
			WithField("user_message", errors.GetUserMessage(err)).
			WarnContext(ctx, "Station lookup failed")
	}
}

func (h *Handler) recordWebhook(kind, status string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(kind, status, time.Since(start).Seconds())
	}
}

func (h *Handler) recordStationLookup(status string, elapsed time.Duration) {
	if h.metrics != nil {
		h.metrics.RecordStationLookup(status, elapsed.Seconds())
	}
}

// Shutdown waits for all async event processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		h.wg.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
