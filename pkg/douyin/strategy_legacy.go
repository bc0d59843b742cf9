package douyin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

// itemInfoResponse is the flat legacy shape. Unlike the modern endpoints it
// needs no deep search.
type itemInfoResponse struct {
	ItemList []struct {
		Desc  string `json:"desc"`
		Video struct {
			PlayAddr struct {
				URLList []string `json:"url_list"`
			} `json:"play_addr"`
			Cover struct {
				URLList []string `json:"url_list"`
			} `json:"cover"`
		} `json:"video"`
	} `json:"item_list"`
}

// LegacyAPIStrategy calls the older item-info endpoint keyed by video id.
type LegacyAPIStrategy struct {
	client  *http.Client
	baseURL string
}

func NewLegacyAPIStrategy(client *http.Client) *LegacyAPIStrategy {
	return &LegacyAPIStrategy{
		client:  client,
		baseURL: "https://www.iesdouyin.com",
	}
}

func (s *LegacyAPIStrategy) Name() string {
	return "legacy-api"
}

func (s *LegacyAPIStrategy) Attempt(ctx context.Context, target Target) (*model.VideoInfo, error) {
	url := fmt.Sprintf("%s/web/api/v2/aweme/iteminfo/?item_ids=%s", s.baseURL, target.ID)

	body, err := fetch(ctx, s.client, url, mobileUserAgent, "")
	if err != nil {
		return nil, err
	}

	var resp itemInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode iteminfo response")
	}

	if len(resp.ItemList) == 0 {
		return nil, nil
	}

	item := resp.ItemList[0]
	if len(item.Video.PlayAddr.URLList) == 0 {
		return nil, nil
	}

	info := &model.VideoInfo{
		URL:  strings.Replace(item.Video.PlayAddr.URLList[0], watermarkMarker, unwatermarkedPath, 1),
		Desc: item.Desc,
	}

	if len(item.Video.Cover.URLList) > 0 {
		info.Cover = item.Video.Cover.URLList[0]
	}

	return info, nil
}
