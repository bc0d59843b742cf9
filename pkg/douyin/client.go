// Package douyin implements the video link resolution pipeline: redirect
// chasing, a fixed order of extraction strategies against undocumented
// upstream formats, and media host normalization.
package douyin

import (
	"context"
	"net/http"
	"time"
)

const (
	// metadataTimeout bounds every single metadata fetch (redirect hop,
	// strategy attempt, existence probe).
	metadataTimeout = 30 * time.Second

	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	mobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"

	refererURL = "https://www.douyin.com/"
)

// newClient returns the shared metadata client. Redirects are followed
// automatically; the resolver uses its own manual-hop client.
func newClient() *http.Client {
	return &http.Client{
		Timeout: metadataTimeout,
	}
}

// newManualRedirectClient returns a client that never follows redirects, so
// each Location can be inspected for a video id before the next hop.
func newManualRedirectClient() *http.Client {
	return &http.Client{
		Timeout: metadataTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func newRequest(ctx context.Context, method, url, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", refererURL)

	return req, nil
}
