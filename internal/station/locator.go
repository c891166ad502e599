package station

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/corpix/uarand"
	apperrors "github.com/garyellow/kitaku-linebot-go/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

// maxResponseBytes caps the lookup response body.
const maxResponseBytes = 1 << 20

// Locator finds the station nearest to a coordinate.
type Locator interface {
	Nearest(ctx context.Context, latitude, longitude float64) (Record, error)
}

// HTTPLocator queries a HeartRails Express compatible JSON API:
//
//	GET <base>?method=getStations&x=<longitude>&y=<latitude>
//
// The first station of response.station is taken as the nearest; ordering is
// the service's responsibility.
type HTTPLocator struct {
	baseURL  string
	client   *http.Client
	group    singleflight.Group
	validate *validator.Validate
	wrap     *apperrors.ErrorWrapper
}

// NewHTTPLocator creates a locator for the given endpoint.
func NewHTTPLocator(baseURL string, timeout time.Duration) *HTTPLocator {
	return &HTTPLocator{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		wrap:     apperrors.NewWrapper("station", "nearest"),
	}
}

// Nearest returns the station closest to the given coordinate.
// Concurrent calls for the same coordinate (to ~11m) share one request.
func (l *HTTPLocator) Nearest(ctx context.Context, latitude, longitude float64) (Record, error) {
	key := strconv.FormatFloat(latitude, 'f', 4, 64) + "," + strconv.FormatFloat(longitude, 'f', 4, 64)

	// The shared fetch is detached from any one caller; the client timeout bounds it.
	ch := l.group.DoChan(key, func() (any, error) {
		return l.fetch(context.WithoutCancel(ctx), latitude, longitude)
	})

	select {
	case <-ctx.Done():
		return Record{}, l.wrap.Wrapf(ctx.Err(), "最寄り駅の検索に失敗しました（%s）", key)
	case res := <-ch:
		if res.Err != nil {
			return Record{}, l.wrap.Wrapf(res.Err, "最寄り駅の検索に失敗しました（%s）", key)
		}
		return res.Val.(Record), nil
	}
}

func (l *HTTPLocator) fetch(ctx context.Context, latitude, longitude float64) (Record, error) {
	u, err := url.Parse(l.baseURL)
	if err != nil {
		return Record{}, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("method", "getStations")
	q.Set("x", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("y", strconv.FormatFloat(latitude, 'f', -1, 64))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return Record{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", uarand.GetRandom())
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Record{}, fmt.Errorf("read body: %w", err)
	}

	return l.parse(body)
}

func (l *HTTPLocator) parse(body []byte) (Record, error) {
	if !gjson.ValidBytes(body) {
		return Record{}, fmt.Errorf("%w: response is not JSON", apperrors.ErrInvalidInput)
	}

	if msg := gjson.GetBytes(body, "response.error"); msg.Exists() {
		return Record{}, fmt.Errorf("%w: %s", apperrors.ErrStationNotFound, msg.String())
	}

	stations := gjson.GetBytes(body, "response.station").Array()
	if len(stations) == 0 {
		return Record{}, apperrors.ErrStationNotFound
	}

	first := stations[0]
	name := first.Get("name").String()
	if name != "" && !strings.HasSuffix(name, "駅") {
		name += "駅"
	}
	address := strings.TrimSpace(first.Get("prefecture").String() + " " + first.Get("line").String())

	rec := Record{
		Name:      name,
		Address:   address,
		Latitude:  first.Get("y").Float(),
		Longitude: first.Get("x").Float(),
	}
	if err := l.validate.Struct(rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return rec, nil
}
