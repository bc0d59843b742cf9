package douyin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailAPIStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/aweme/v1/web/aweme/detail/", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("aweme_id"))

		cookie, err := r.Cookie("msToken")
		require.NoError(t, err)
		assert.Len(t, cookie.Value, msTokenLength)

		fmt.Fprint(w, `{"aweme_detail": {"video": {
			"play_addr": {"url_list": ["https://cdn.example.com/playwm/42.mp4"]},
			"cover": {"url_list": ["https://cdn.example.com/c.jpeg"]}
		}, "desc": "hello"}}`)
	}))
	defer srv.Close()

	s := &DetailAPIStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://cdn.example.com/play/42.mp4", info.URL)
	assert.Equal(t, "https://cdn.example.com/c.jpeg", info.Cover)
}

func TestDetailAPIStrategyFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := &DetailAPIStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.Error(t, err)
	assert.Nil(t, info)
}

func TestDesktopPageStrategyEmbeddedElement(t *testing.T) {
	data := url.QueryEscape(`{"app": {"video": {"playApi": "//play.example.com/v?id=42", "coverUrlList": ["https://p.example.com/c.jpeg"]}}}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/video/42", r.URL.Path)
		fmt.Fprintf(w, `<html><body><script id="RENDER_DATA" type="application/json">%s</script></body></html>`, data)
	}))
	defer srv.Close()

	s := &DesktopPageStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://play.example.com/v?id=42", info.URL)
	assert.Equal(t, "https://p.example.com/c.jpeg", info.Cover)
}

func TestDesktopPageStrategyInlineScriptFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<script>var noise = 1;</script>
			<script>window._ROUTER_DATA = {"loaderData": {"video": {"playApi": "https://play.example.com/router"}}}</script>
		</head></html>`)
	}))
	defer srv.Close()

	s := &DesktopPageStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://play.example.com/router", info.URL)
}

func TestDesktopPageStrategyNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	}))
	defer srv.Close()

	s := &DesktopPageStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestMobilePageStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/share/video/42/", r.URL.Path)
		fmt.Fprint(w, `<script>var data = {"playAddr": "https:\/\/cdn.example.com\/playwm\/42.mp4",`+
			`"cover": "https:\/\/cdn.example.com\/c.jpeg", "desc": "mobile video"};</script>`)
	}))
	defer srv.Close()

	s := &MobilePageStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://cdn.example.com/play/42.mp4", info.URL, "escaped slashes decoded and watermark marker rewritten")
	assert.Equal(t, "https://cdn.example.com/c.jpeg", info.Cover)
	assert.Equal(t, "mobile video", info.Desc)
}

func TestMobilePageStrategyUnicodeEscapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>{"playApi": "https:\u002F\u002Fcdn.example.com\u002Fplay\u002F42.mp4?a=1\u0026b=2"}</script>`)
	}))
	defer srv.Close()

	s := &MobilePageStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://cdn.example.com/play/42.mp4?a=1&b=2", info.URL)
}

func TestMobilePageStrategyMP4Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<video src="https://cdn.example.com/raw/42.mp4?ratio=720p"></video>`)
	}))
	defer srv.Close()

	s := &MobilePageStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://cdn.example.com/raw/42.mp4?ratio=720p", info.URL)
}

func TestLegacyAPIStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/web/api/v2/aweme/iteminfo/", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("item_ids"))

		fmt.Fprint(w, `{"item_list": [{"desc": "legacy video", "video": {
			"play_addr": {"url_list": ["https://aweme.snssdk.com/aweme/v1/playwm/?video_id=v42"]},
			"cover": {"url_list": ["https://p9.douyinpic.com/c.jpeg"]}
		}}]}`)
	}))
	defer srv.Close()

	s := &LegacyAPIStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://aweme.snssdk.com/aweme/v1/play/?video_id=v42", info.URL)
	assert.Equal(t, "https://p9.douyinpic.com/c.jpeg", info.Cover)
	assert.Equal(t, "legacy video", info.Desc)
}

func TestLegacyAPIStrategyEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"item_list": []}`)
	}))
	defer srv.Close()

	s := &LegacyAPIStrategy{client: srv.Client(), baseURL: srv.URL}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestDirectURLStrategy(t *testing.T) {
	var probed string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		probed = r.URL.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := &DirectURLStrategy{client: srv.Client(), urlTemplate: srv.URL + "/aweme/v1/play/?video_id=%s"}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Contains(t, info.URL, "video_id=42")
	assert.Contains(t, probed, "video_id=42")
}

func TestDirectURLStrategyProbeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := &DirectURLStrategy{client: srv.Client(), urlTemplate: srv.URL + "/aweme/v1/play/?video_id=%s"}

	info, err := s.Attempt(context.Background(), Target{ID: "42"})
	require.NoError(t, err)
	assert.Nil(t, info)
}
