package douyin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

// DetailAPIStrategy queries the official web detail endpoint. The endpoint
// rejects bare requests but accepts freshly generated session cookies.
type DetailAPIStrategy struct {
	client  *http.Client
	baseURL string
}

func NewDetailAPIStrategy(client *http.Client) *DetailAPIStrategy {
	return &DetailAPIStrategy{
		client:  client,
		baseURL: "https://www.douyin.com",
	}
}

func (s *DetailAPIStrategy) Name() string {
	return "detail-api"
}

func (s *DetailAPIStrategy) Attempt(ctx context.Context, target Target) (*model.VideoInfo, error) {
	url := fmt.Sprintf(
		"%s/aweme/v1/web/aweme/detail/?device_platform=webapp&aid=6383&channel=channel_pc_web&aweme_id=%s",
		s.baseURL, target.ID)

	body, err := fetch(ctx, s.client, url, desktopUserAgent, sessionCookie())
	if err != nil {
		return nil, err
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode detail response")
	}

	return searchVideoInfo(payload), nil
}
