package douyin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

// DirectURLStrategy synthesizes a play URL from a fixed template and checks
// it with a header-only probe. The probe only confirms that the URL exists,
// not that it serves playable media; this strategy is a heuristic of last
// resort before giving up.
type DirectURLStrategy struct {
	client      *http.Client
	urlTemplate string
}

func NewDirectURLStrategy(client *http.Client) *DirectURLStrategy {
	return &DirectURLStrategy{
		client:      client,
		urlTemplate: "https://aweme.snssdk.com/aweme/v1/play/?video_id=%s&ratio=720p&line=0",
	}
}

func (s *DirectURLStrategy) Name() string {
	return "direct-url"
}

func (s *DirectURLStrategy) Attempt(ctx context.Context, target Target) (*model.VideoInfo, error) {
	candidate := fmt.Sprintf(s.urlTemplate, target.ID)

	req, err := newRequest(ctx, http.MethodHead, candidate, mobileUserAgent)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil
	}

	return &model.VideoInfo{URL: candidate}, nil
}
