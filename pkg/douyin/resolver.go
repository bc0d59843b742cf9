package douyin

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/lovezhqj/douyin-down/pkg/link"
)

// maxRedirectHops bounds the manual redirect chase. Real short link chains
// vary in length; anything longer is handed to the auto-follow fallback.
const maxRedirectHops = 10

// Resolution is the outcome of following a share link: the last URL reached
// and the video id, if one was found. An empty ID is a valid terminal state.
type Resolution struct {
	FinalURL string
	ID       string
}

// Resolver follows short link redirects until a video id shows up. It chases
// hops manually first, so the id can be extracted as early as possible without
// fetching pages that are not needed.
type Resolver struct {
	manual *http.Client
	auto   *http.Client
}

func NewResolver() *Resolver {
	return &Resolver{
		manual: newManualRedirectClient(),
		auto:   newClient(),
	}
}

// Resolve finds the video id behind input. No network request is made when the
// input already carries an id.
func (r *Resolver) Resolve(ctx context.Context, input string) Resolution {
	if id, ok := link.ExtractID(input); ok {
		return Resolution{FinalURL: input, ID: id}
	}

	if res, ok := r.chase(ctx, input); ok {
		return res
	}

	return r.autoFollow(ctx, input)
}

// chase walks the redirect chain one hop at a time, testing each Location for
// a video id. It reports ok=false when the chain ends, faults or exceeds the
// hop bound without producing an id.
func (r *Resolver) chase(ctx context.Context, input string) (Resolution, bool) {
	current := input

	for hop := 0; hop < maxRedirectHops; hop++ {
		req, err := newRequest(ctx, http.MethodGet, current, mobileUserAgent)
		if err != nil {
			return Resolution{}, false
		}

		resp, err := r.manual.Do(req)
		if err != nil {
			log.WithError(err).WithField("url", current).Debug("redirect hop failed")
			return Resolution{}, false
		}

		location := resp.Header.Get("Location")
		resp.Body.Close()

		if resp.StatusCode >= 300 && resp.StatusCode < 400 && location != "" {
			next, err := resolveLocation(current, location)
			if err != nil {
				log.WithError(err).WithField("location", location).Debug("bad redirect location")
				return Resolution{}, false
			}

			if id, ok := link.ExtractID(next); ok {
				return Resolution{FinalURL: next, ID: id}, true
			}

			current = next
			continue
		}

		// Terminal response. Some chains stop at a page that embeds the data
		// without advertising the id in its own URL, so a miss here is not an
		// error, it just hands control to the auto-follow fallback.
		if id, ok := link.ExtractID(current); ok {
			return Resolution{FinalURL: current, ID: id}, true
		}

		if effective := resp.Request.URL.String(); effective != current {
			if id, ok := link.ExtractID(effective); ok {
				return Resolution{FinalURL: effective, ID: id}, true
			}
		}

		return Resolution{FinalURL: current}, false
	}

	log.WithField("url", input).Debug("redirect hop bound exceeded")
	return Resolution{}, false
}

// autoFollow issues a single request that follows all redirects internally and
// extracts the id from the effective URL, or from the URL reported by a
// transport fault.
func (r *Resolver) autoFollow(ctx context.Context, input string) Resolution {
	res := Resolution{FinalURL: input}

	req, err := newRequest(ctx, http.MethodGet, input, mobileUserAgent)
	if err != nil {
		return res
	}

	resp, err := r.auto.Do(req)
	if err != nil {
		var uerr *url.Error
		if stderrors.As(err, &uerr) && uerr.URL != "" {
			res.FinalURL = uerr.URL
			res.ID, _ = link.ExtractID(uerr.URL)
		}

		log.WithError(err).WithField("url", input).Debug("auto-follow request failed")
		return res
	}

	resp.Body.Close()

	res.FinalURL = resp.Request.URL.String()
	res.ID, _ = link.ExtractID(res.FinalURL)

	return res
}

// resolveLocation resolves a Location header value, absolute or relative,
// against the URL of the response that carried it.
func resolveLocation(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	next, err := baseURL.Parse(location)
	if err != nil {
		return "", err
	}

	return next.String(), nil
}
