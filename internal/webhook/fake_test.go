package webhook

import (
	"errors"
	"net/http"
	"sync"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// fakeReplier records reply requests and fails the first failN calls.
type fakeReplier struct {
	mu       sync.Mutex
	requests []*messaging_api.ReplyMessageRequest
	failN    int
	status   int
}

func (f *fakeReplier) ReplyMessageWithHttpInfo(req *messaging_api.ReplyMessageRequest) (*http.Response, *messaging_api.ReplyMessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if len(f.requests) <= f.failN {
		return &http.Response{StatusCode: f.status}, nil, errors.New("reply failed")
	}
	return &http.Response{StatusCode: http.StatusOK}, &messaging_api.ReplyMessageResponse{}, nil
}

func (f *fakeReplier) calls() []*messaging_api.ReplyMessageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*messaging_api.ReplyMessageRequest(nil), f.requests...)
}

func texts(req *messaging_api.ReplyMessageRequest) []string {
	out := make([]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		if t, ok := m.(*messaging_api.TextMessage); ok {
			out = append(out, t.Text)
		}
	}
	return out
}
