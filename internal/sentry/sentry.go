// Package sentry initializes the Sentry SDK against Better Stack's
// Sentry-compatible errors endpoint and captures delivery failures.
package sentry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/garyellow/kitaku-linebot-go/internal/ctxutil"
	apperrors "github.com/garyellow/kitaku-linebot-go/internal/errors"
)

// Config holds Sentry configuration for Better Stack integration.
type Config struct {
	// Token is the Better Stack Errors application token.
	Token string

	// Host is the Better Stack Errors ingesting host (e.g., "errors.betterstack.com").
	Host string

	Environment string
	Release     string

	// SampleRate controls error sampling (0.0-1.0, default 1.0).
	SampleRate float64

	Debug bool
}

// DSN returns https://TOKEN@HOST/1. The project ID is required by the SDK
// and ignored by Better Stack.
func (c Config) DSN() (string, error) {
	if c.Host == "" {
		return "", errors.New("sentry host is required when token is provided")
	}
	return fmt.Sprintf("https://%s@%s/1", c.Token, c.Host), nil
}

// Initialize sets up the Sentry SDK. An empty Token disables Sentry.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events to be sent to the server.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled returns true if Sentry is initialized and active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureException captures err on the hub stored in ctx (set by sentrygin),
// falling back to the current hub. Tracing values from ctx and delivery
// details are attached as tags.
func CaptureException(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(Tags(ctx, err))
		hub.CaptureException(err)
	})
}

// Tags derives event tags from tracing values and a delivery error.
func Tags(ctx context.Context, err error) map[string]string {
	tags := make(map[string]string)
	if requestID, ok := ctxutil.GetRequestID(ctx); ok && requestID != "" {
		tags["request_id"] = requestID
	}
	if eventID := ctxutil.GetEventID(ctx); eventID != "" {
		tags["event_id"] = eventID
	}
	if delivery, ok := apperrors.AsDeliveryError(err); ok {
		tags["operation"] = delivery.Operation
		if delivery.StatusCode != 0 {
			tags["status_code"] = strconv.Itoa(delivery.StatusCode)
		}
	}
	return tags
}
