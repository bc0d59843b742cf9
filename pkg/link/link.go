// Package link provides pure helpers for pulling share URLs and video
// identifiers out of user supplied text. No network access happens here.
package link

import (
	"regexp"

	"github.com/pkg/errors"
)

// Share pages expose the video id in a handful of historical URL layouts.
// Patterns are tried in priority order and the first hit wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/video/(\d+)`),
	regexp.MustCompile(`/note/(\d+)`),
	regexp.MustCompile(`modal_id=(\d+)`),
}

var urlPattern = regexp.MustCompile(`https?://[^\s'"<>]+`)

// ExtractID returns the video id embedded in url, if any. The id is a run of
// digits and is not validated beyond that.
func ExtractID(url string) (string, bool) {
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(url); len(m) == 2 {
			return m[1], true
		}
	}

	return "", false
}

// ExtractURL returns the first URL-looking substring of text. Share links are
// commonly pasted surrounded by promotional text, emoji and whitespace.
func ExtractURL(text string) (string, error) {
	if m := urlPattern.FindString(text); m != "" {
		return m, nil
	}

	return "", errors.Errorf("no URL found in input: %q", text)
}
