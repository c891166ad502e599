package webhook

import (
	"context"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/kitaku-linebot-go/internal/errors"
	"github.com/garyellow/kitaku-linebot-go/internal/lineutil"
	"github.com/garyellow/kitaku-linebot-go/internal/metrics"
	"github.com/garyellow/kitaku-linebot-go/internal/ratelimit"
)

// Replier is the subset of the Messaging API client used for replies.
// *messaging_api.MessagingApiAPI satisfies it.
type Replier interface {
	ReplyMessageWithHttpInfo(req *messaging_api.ReplyMessageRequest) (*http.Response, *messaging_api.ReplyMessageResponse, error)
}

// Sink delivers rendered messages with one reply call per event.
type Sink struct {
	client      Replier
	limiter     *ratelimit.ReplyLimiter
	maxMessages int
	metrics     *metrics.Metrics
}

// NewSink creates a sink. maxMessages caps each reply and is clamped to the
// platform limit; limiter and m may be nil.
func NewSink(client Replier, limiter *ratelimit.ReplyLimiter, maxMessages int, m *metrics.Metrics) *Sink {
	if maxMessages <= 0 || maxMessages > lineutil.MaxMessagesPerReply {
		maxMessages = lineutil.MaxMessagesPerReply
	}
	return &Sink{
		client:      client,
		limiter:     limiter,
		maxMessages: maxMessages,
		metrics:     m,
	}
}

// Deliver replies to replyToken. Messages beyond the per-reply cap are dropped.
// Any failure, including a canceled wait for the rate limiter, is returned
// as a *errors.DeliveryError.
func (s *Sink) Deliver(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error {
	return s.send(ctx, "reply", replyToken, lineutil.TruncateMessages(messages, s.maxMessages))
}

// Apologize sends the fixed apology once, best-effort.
func (s *Sink) Apologize(ctx context.Context, replyToken string) error {
	return s.send(ctx, "apology", replyToken, apologyMessages())
}

func (s *Sink) send(ctx context.Context, op, replyToken string, messages []messaging_api.MessageInterface) error {
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			s.record(metrics.StatusError)
			return errors.NewDeliveryError(op, 0, err)
		}
	}

	resp, _, err := s.client.ReplyMessageWithHttpInfo(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		s.record(metrics.StatusError)
		return errors.NewDeliveryError(op, status, err)
	}

	s.record(metrics.StatusSuccess)
	return nil
}

func (s *Sink) record(status string) {
	if s.metrics != nil {
		s.metrics.RecordReply(status)
	}
}
