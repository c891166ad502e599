package config

import "time"

// HTTP server timeouts. LINE posts small JSON bodies and only needs the
// 200 before processing continues in the background.
const (
	WebhookHTTPRead  = 10 * time.Second
	WebhookHTTPWrite = 15 * time.Second
	WebhookHTTPIdle  = 120 * time.Second
)

// WebhookProcessing bounds the background work for one event, including
// the station lookup and the reply call.
const WebhookProcessing = 30 * time.Second

// StationLookup is the default timeout for one station API request.
const StationLookup = 10 * time.Second

// GracefulShutdown is the default time allowed for in-flight events to finish.
const GracefulShutdown = 30 * time.Second
