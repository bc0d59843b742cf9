package douyin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

// The desktop page inlines its server-rendered state either in a dedicated
// URL-encoded element or, in newer builds, in plain script assignments.
const embeddedDataSelector = "#RENDER_DATA"

var scriptDataMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\._ROUTER_DATA\s*=\s*(\{.+\})`),
	regexp.MustCompile(`(?s)window\.__INIT_PROPS__\s*=\s*(\{.+\})`),
}

// DesktopPageStrategy scrapes the canonical desktop page for its embedded
// data block and deep-searches the decoded JSON.
type DesktopPageStrategy struct {
	client  *http.Client
	baseURL string
}

func NewDesktopPageStrategy(client *http.Client) *DesktopPageStrategy {
	return &DesktopPageStrategy{
		client:  client,
		baseURL: "https://www.douyin.com",
	}
}

func (s *DesktopPageStrategy) Name() string {
	return "desktop-page"
}

func (s *DesktopPageStrategy) Attempt(ctx context.Context, target Target) (*model.VideoInfo, error) {
	pageURL := fmt.Sprintf("%s/video/%s", s.baseURL, target.ID)

	body, err := fetch(ctx, s.client, pageURL, desktopUserAgent, sessionCookie())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse desktop page")
	}

	if info := searchEmbeddedElement(doc); info != nil {
		return info, nil
	}

	return searchInlineScripts(doc), nil
}

// searchEmbeddedElement decodes the URL-encoded JSON carried by the embedded
// data element.
func searchEmbeddedElement(doc *goquery.Document) *model.VideoInfo {
	encoded := doc.Find(embeddedDataSelector).Text()
	if encoded == "" {
		return nil
	}

	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return nil
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(decoded), &payload); err != nil {
		return nil
	}

	return searchVideoInfo(payload)
}

// searchInlineScripts scans every inline script body for the alternate
// embedded-JSON markers and deep-searches each parseable match.
func searchInlineScripts(doc *goquery.Document) *model.VideoInfo {
	var found *model.VideoInfo

	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()

		for _, marker := range scriptDataMarkers {
			m := marker.FindStringSubmatch(text)
			if len(m) != 2 {
				continue
			}

			var payload interface{}
			if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
				continue
			}

			if info := searchVideoInfo(payload); info != nil {
				found = info
				return false
			}
		}

		return true
	})

	return found
}
