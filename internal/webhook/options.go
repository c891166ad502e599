package webhook

import (
	"time"

	"github.com/garyellow/kitaku-linebot-go/internal/station"
)

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithLocator enables nearest-station lookups for location messages.
func WithLocator(locator station.Locator) HandlerOption {
	return func(h *Handler) {
		h.locator = locator
	}
}

// WithReplier replaces the Messaging API client, mainly for tests.
func WithReplier(r Replier) HandlerOption {
	return func(h *Handler) {
		h.replier = r
	}
}

// WithProcessingTimeout bounds the background work for each event.
func WithProcessingTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		h.processingTimeout = timeout
	}
}

// WithErrorReporter receives delivery failures after they are logged.
func WithErrorReporter(fn ErrorReporter) HandlerOption {
	return func(h *Handler) {
		h.reportError = fn
	}
}
