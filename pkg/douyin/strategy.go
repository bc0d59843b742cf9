package douyin

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

// Upstream pages can be large but are never gigabytes.
const maxBodyBytes = 10 * 1024 * 1024

// Target carries what an extraction strategy gets to work with: the video id
// and, where relevant, the resolved page URL.
type Target struct {
	ID      string
	PageURL string
}

// Strategy is one independent attempt at turning a video id into a fetchable
// media URL. Exactly one attempt, no internal retry. A fault or a miss yields
// a nil info; the error exists for logging only and must never abort the
// pipeline.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, target Target) (*model.VideoInfo, error)
}

// DefaultStrategies returns the strategy set in trial order. Upstream formats
// drift, so the order goes from the richest source to the crudest fallback.
func DefaultStrategies() []Strategy {
	client := newClient()

	return []Strategy{
		NewDetailAPIStrategy(client),
		NewDesktopPageStrategy(client),
		NewMobilePageStrategy(client),
		NewLegacyAPIStrategy(client),
		NewDirectURLStrategy(client),
	}
}

// fetch issues a GET with browser-like headers and returns the body. Non-2xx
// statuses are reported as errors since every caller needs a usable payload.
func fetch(ctx context.Context, client *http.Client, url, userAgent, cookie string) ([]byte, error) {
	req, err := newRequest(ctx, http.MethodGet, url, userAgent)
	if err != nil {
		return nil, err
	}

	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	return body, nil
}
