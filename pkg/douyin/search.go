package douyin

import (
	"strings"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

// Embedded page data is untrusted and can be arbitrarily nested, so the
// traversal carries an explicit depth counter instead of recursing unbounded.
const maxSearchDepth = 64

// The CDN serves two path variants of the same media; the "playwm" one embeds
// a visible watermark overlay.
const (
	watermarkMarker   = "playwm"
	unwatermarkedPath = "play"
)

// searchVideoInfo walks a decoded JSON tree depth-first looking for a video
// info record under the key-naming schemes the platform has used over time.
// The first shape match wins; siblings of a matching branch are not visited.
// Returns nil if no node matches.
func searchVideoInfo(node interface{}) *model.VideoInfo {
	return searchNode(node, 0)
}

func searchNode(node interface{}, depth int) *model.VideoInfo {
	if depth > maxSearchDepth {
		return nil
	}

	switch v := node.(type) {
	case map[string]interface{}:
		if info := matchShapes(v); info != nil {
			return info
		}

		for _, child := range v {
			if info := searchNode(child, depth+1); info != nil {
				return info
			}
		}
	case []interface{}:
		for _, child := range v {
			if info := searchNode(child, depth+1); info != nil {
				return info
			}
		}
	}

	return nil
}

// matchShapes checks the three historical video-info shapes, in order:
// a modern play-API string, a legacy play-address url list (watermarked),
// and a download-address url list used as-is.
func matchShapes(obj map[string]interface{}) *model.VideoInfo {
	if api := stringField(obj, "playApi", "play_api"); api != "" {
		if strings.HasPrefix(api, "//") {
			api = "https:" + api
		}

		return &model.VideoInfo{
			URL:   api,
			Cover: firstOfList(obj, "coverUrlList", "cover_url_list"),
			Desc:  stringField(obj, "desc"),
		}
	}

	if addr := urlListEntry(obj, "playAddr", "play_addr"); addr != "" {
		return &model.VideoInfo{
			URL:   strings.Replace(addr, watermarkMarker, unwatermarkedPath, 1),
			Cover: coverOf(obj),
			Desc:  stringField(obj, "desc"),
		}
	}

	if addr := urlListEntry(obj, "downloadAddr", "download_addr"); addr != "" {
		return &model.VideoInfo{
			URL:   addr,
			Cover: coverOf(obj),
			Desc:  stringField(obj, "desc"),
		}
	}

	return nil
}

func stringField(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}

	return ""
}

// urlListEntry reads the first entry of an address object's url list, e.g.
// {"play_addr": {"url_list": ["..."]}}. Bare string addresses are accepted too.
func urlListEntry(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch addr := obj[key].(type) {
		case string:
			if addr != "" {
				return addr
			}
		case map[string]interface{}:
			if s := firstOfList(addr, "url_list", "urlList"); s != "" {
				return s
			}
		}
	}

	return ""
}

func coverOf(obj map[string]interface{}) string {
	if cover, ok := obj["cover"].(map[string]interface{}); ok {
		return firstOfList(cover, "url_list", "urlList")
	}

	return firstOfList(obj, "coverUrlList", "cover_url_list")
}

func firstOfList(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		list, ok := obj[key].([]interface{})
		if !ok || len(list) == 0 {
			continue
		}

		if s, ok := list[0].(string); ok && s != "" {
			return s
		}
	}

	return ""
}
