package douyin

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

// The mobile markup is less stable than the desktop one, so this path uses raw
// pattern captures instead of structured parsing.
var (
	mobilePlayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"playAddr"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`"playApi"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`playAddr:\s*\[\{\s*src:\s*"([^"]+)"`),
	}
	mobileCoverPattern = regexp.MustCompile(`"cover(?:Url)?"\s*:\s*"([^"]+)"`)
	mobileDescPattern  = regexp.MustCompile(`"desc"\s*:\s*"([^"]*)"`)

	anyMP4Pattern = regexp.MustCompile(`https?:\\?/\\?/[^"'\s\\]+(?:\\?/[^"'\s\\]+)*\.mp4[^"'\s\\]*`)
)

// MobilePageStrategy scrapes the mobile share page with regex captures.
type MobilePageStrategy struct {
	client  *http.Client
	baseURL string
}

func NewMobilePageStrategy(client *http.Client) *MobilePageStrategy {
	return &MobilePageStrategy{
		client:  client,
		baseURL: "https://www.iesdouyin.com",
	}
}

func (s *MobilePageStrategy) Name() string {
	return "mobile-page"
}

func (s *MobilePageStrategy) Attempt(ctx context.Context, target Target) (*model.VideoInfo, error) {
	pageURL := fmt.Sprintf("%s/share/video/%s/", s.baseURL, target.ID)

	body, err := fetch(ctx, s.client, pageURL, mobileUserAgent, "")
	if err != nil {
		return nil, err
	}

	page := string(body)

	for _, pattern := range mobilePlayPatterns {
		m := pattern.FindStringSubmatch(page)
		if len(m) != 2 {
			continue
		}

		playURL := decodeEscapedURL(m[1])
		if strings.HasPrefix(playURL, "//") {
			playURL = "https:" + playURL
		}

		info := &model.VideoInfo{
			URL: strings.Replace(playURL, watermarkMarker, unwatermarkedPath, 1),
		}

		if cm := mobileCoverPattern.FindStringSubmatch(page); len(cm) == 2 {
			info.Cover = decodeEscapedURL(cm[1])
		}
		if dm := mobileDescPattern.FindStringSubmatch(page); len(dm) == 2 {
			info.Desc = dm[1]
		}

		return info, nil
	}

	// Last resort: any mp4 URL anywhere in the raw page body.
	if m := anyMP4Pattern.FindString(page); m != "" {
		return &model.VideoInfo{URL: decodeEscapedURL(m)}, nil
	}

	return nil, nil
}

// decodeEscapedURL undoes the slash escaping found inside inline script
// string literals.
func decodeEscapedURL(s string) string {
	s = strings.ReplaceAll(s, `\/`, "/")
	s = strings.ReplaceAll(s, `\u002F`, "/")
	s = strings.ReplaceAll(s, `\u002f`, "/")
	s = strings.ReplaceAll(s, `\u0026`, "&")

	return s
}
