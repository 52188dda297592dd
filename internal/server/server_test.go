package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidgrab/vidgrab/internal/downloader"
	"github.com/vidgrab/vidgrab/internal/extractor"
	"github.com/vidgrab/vidgrab/internal/ytdlp"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeDriver scripts the external tool for handler tests.
type fakeDriver struct {
	versionErr error
	info       map[string]*ytdlp.RawInfo

	extractions      int
	materializations int
}

func (f *fakeDriver) Version(context.Context) (string, error) {
	return "2025.08.01", f.versionErr
}

func (f *fakeDriver) ExtractMetadata(ctx context.Context, url string) (*ytdlp.RawInfo, error) {
	f.extractions++
	if info, ok := f.info[url]; ok {
		return info, nil
	}
	return nil, &ytdlp.RunError{Op: "dump-json", Stderr: "ERROR: unsupported URL"}
}

func (f *fakeDriver) Materialize(ctx context.Context, url, selector, outputPath string) error {
	f.materializations++
	if _, ok := f.info[url]; !ok {
		return &ytdlp.RunError{Op: "download", Stderr: "ERROR: unsupported URL"}
	}
	return os.WriteFile(outputPath, []byte("media bytes"), 0o644)
}

type testServer struct {
	*Server
	driver  *fakeDriver
	scratch *downloader.Scratch
}

func newTestServer(t *testing.T, d *fakeDriver) *testServer {
	t.Helper()

	probe := ytdlp.NewProbe(d, 0)
	scratch, err := downloader.NewScratch(filepath.Join(t.TempDir(), "downloads"))
	require.NoError(t, err)

	history, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })

	srv := New(
		extractor.New(d, probe),
		downloader.New(d, probe, scratch),
		history,
		StaticTokens{"alice-token": "alice", "bob-token": "bob"},
	)
	return &testServer{Server: srv, driver: d, scratch: scratch}
}

func (ts *testServer) request(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})

	w := ts.request(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = ts.request(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["history"])
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})
	w := ts.request(t, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInfoMissingURL(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})

	w := ts.request(t, http.MethodPost, "/api/download/info", map[string]string{"url": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "URL is required", decode(t, w)["message"])
	assert.Zero(t, ts.driver.extractions, "tool must not run for a missing url")
}

func TestInfoSuccess(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc"
	ts := newTestServer(t, &fakeDriver{info: map[string]*ytdlp.RawInfo{
		url: {
			Title:     "A Video",
			Thumbnail: "https://img/t.jpg",
			Duration:  42,
			Formats: []ytdlp.Format{
				{FormatID: "22", Ext: "mp4", Height: 720, Filesize: 10},
			},
		},
	}})

	w := ts.request(t, http.MethodPost, "/api/download/info", map[string]string{"url": url}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "A Video", body["title"])
	assert.Equal(t, "youtube", body["platform"])
	qualities := body["availableQualities"].([]any)
	require.Len(t, qualities, 3)
	assert.Equal(t, "best", qualities[0].(map[string]any)["quality"])
	assert.Equal(t, "720p", qualities[1].(map[string]any)["quality"])
	assert.Equal(t, "audio", qualities[2].(map[string]any)["quality"])
}

func TestInfoToolUnavailable(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{versionErr: errors.New("no binary")})

	w := ts.request(t, http.MethodPost, "/api/download/info", map[string]string{"url": "https://youtu.be/a"}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["message"], "yt-dlp is not installed")
	assert.Contains(t, body, "installInstructions")
}

func TestInfoExtractionFailure(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})

	w := ts.request(t, http.MethodPost, "/api/download/info", map[string]string{"url": "https://example.com/x"}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Failed to get video information", body["message"])
	assert.Contains(t, body["error"], "unsupported URL")
}

func TestVideoDownload(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc"
	ts := newTestServer(t, &fakeDriver{info: map[string]*ytdlp.RawInfo{url: {}}})

	w := ts.request(t, http.MethodPost, "/api/download/video",
		map[string]string{"url": url, "quality": "best", "format": "mp4"}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "media bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "video.mp4")

	entries, err := os.ReadDir(ts.scratch.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch file must be gone once the transfer finished")
}

func TestVideoMissingURL(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})

	w := ts.request(t, http.MethodPost, "/api/download/video", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, ts.driver.materializations)
}

func TestVideoDownloadFailure(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})

	w := ts.request(t, http.MethodPost, "/api/download/video",
		map[string]string{"url": "https://example.com/x"}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Failed to download video", body["message"])
	assert.Contains(t, body["error"], "unsupported URL")
}

func TestQR(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})

	w := ts.request(t, http.MethodPost, "/api/download/qr",
		map[string]string{"url": "https://youtu.be/abc"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["qrCode"], "data:image/png;base64,")
}

func TestBatch(t *testing.T) {
	good := "https://youtu.be/good"
	ts := newTestServer(t, &fakeDriver{info: map[string]*ytdlp.RawInfo{
		good: {Title: "Good", Thumbnail: "https://img/g.jpg"},
	}})

	w := ts.request(t, http.MethodPost, "/api/download/batch",
		map[string]any{"urls": []string{good, "https://example.com/bad"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	results := decode(t, w)["results"].([]any)
	require.Len(t, results, 2)

	first := results[0].(map[string]any)
	assert.Equal(t, good, first["url"])
	assert.Equal(t, true, first["success"])
	assert.Equal(t, "Good", first["title"])

	second := results[1].(map[string]any)
	assert.Equal(t, false, second["success"])
	assert.NotEmpty(t, second["error"])
}

func TestBatchMissingURLs(t *testing.T) {
	ts := newTestServer(t, &fakeDriver{})

	for _, body := range []any{
		map[string]any{},
		map[string]any{"urls": []string{}},
		map[string]any{"urls": "not-an-array"},
	} {
		w := ts.request(t, http.MethodPost, "/api/download/batch", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Zero(t, ts.driver.extractions)
}
