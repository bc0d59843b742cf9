// Package proxy relays media bytes from the origin CDN to the caller, so
// clients never fetch from the CDN directly.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lovezhqj/douyin-down/pkg/douyin"
)

const (
	// StreamTimeout bounds a full media relay.
	StreamTimeout = 2 * time.Minute

	defaultContentType = "video/mp4"
	downloadFilename   = "douyin.mp4"

	mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"
	refererURL      = "https://www.douyin.com/"
)

type Proxy struct {
	client *http.Client
}

func New() *Proxy {
	return &Proxy{
		client: &http.Client{Timeout: StreamTimeout},
	}
}

// Stream normalizes the media URL's host, fetches it with platform headers and
// relays the body to w incrementally. Upstream Content-Type and Content-Length
// are mirrored when present; the download filename is fixed. If the relay
// faults after headers were written, the connection is simply terminated.
func (p *Proxy) Stream(ctx context.Context, mediaURL string, w http.ResponseWriter, forceDownload bool) error {
	mediaURL = douyin.NormalizeURL(mediaURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create upstream request")
	}

	req.Header.Set("User-Agent", mobileUserAgent)
	req.Header.Set("Referer", refererURL)

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "upstream request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("unexpected upstream status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)

	if length := resp.Header.Get("Content-Length"); length != "" {
		w.Header().Set("Content-Length", length)
	}

	disposition := "inline"
	if forceDownload {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, downloadFilename))

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are out already, there is nothing useful to send; log and
		// let the connection drop.
		log.WithError(err).WithField("url", mediaURL).Error("media relay interrupted")
		return errors.Wrap(err, "media relay interrupted")
	}

	return nil
}
