package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/manifest"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/mocks"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/pack"
)

type failingSaver struct{ err error }

func (f failingSaver) Save(*config.Config, *pack.Pack) (pack.SaveResult, error) {
	return pack.SaveResult{}, f.err
}

func testConfig() *config.Config {
	cfg := &config.Config{OutputDir: "/packs", Defaults: config.DefaultPackDefaults()}
	cfg.Server.MaxBodyBytes = 1 << 20
	return cfg
}

func newTestServer(cfg *config.Config) (*Server, *mocks.MockFileSystem, *mocks.MockArchiver) {
	fs := mocks.NewMockFileSystem()
	archiver := mocks.NewMockArchiver()
	return New(cfg, pack.NewExporter(fs, archiver), fs), fs, archiver
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/export/pack", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(content)
	}
	return files
}

func TestExportPack(t *testing.T) {
	srv, _, archiver := newTestServer(testConfig())

	rec := post(t, srv.Handler(), `{"title":"Test Pack","tags":["a","b"],"srt":"1\n00:00:00,000 --> 00:00:01,000\nMerhaba"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="test-pack.zip"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
	assert.Equal(t, manifest.Compute(rec.Body.Bytes()).String(), rec.Header().Get(DigestHeader))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	files := readZip(t, rec.Body.Bytes())
	assert.Len(t, files, 6)
	assert.Equal(t, "a, b", files["tags.txt"])
	assert.Equal(t, "Ornek senaryo metni burada.", files["script.txt"])
	assert.Equal(t, files["script.txt"], files["tts.txt"])
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,000\nMerhaba", files["subtitles.srt"])

	assert.Empty(t, archiver.WriteCalls, "exports are not archived by default")
}

func TestExportPackDefaults(t *testing.T) {
	srv, _, _ := newTestServer(testConfig())
	expected := pack.Build(pack.Request{}, config.DefaultPackDefaults()).Data

	for name, body := range map[string]string{
		"empty":     "",
		"malformed": "{not json",
		"wrongType": `{"title":42}`,
		"null":      "null",
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, srv.Handler(), body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, `attachment; filename="autotube-pack.zip"`, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, expected, rec.Body.Bytes())
		})
	}
}

func TestExportPackBodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 16
	srv, _, _ := newTestServer(cfg)

	rec := post(t, srv.Handler(), `{"title":"this body is longer than sixteen bytes"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "request body too large", rec.Body.String())
}

func TestExportPackMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(testConfig())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/pack", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExportPackArchives(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ArchiveExports = true
	srv, fs, archiver := newTestServer(cfg)

	rec := post(t, srv.Handler(), `{"title":"Kayit"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, archiver.WriteCalls, 1)
	assert.True(t, strings.HasPrefix(archiver.WriteCalls[0].DestPath, "/packs/kayit/"))

	m, err := manifest.Load(fs, "/packs", "kayit")
	require.NoError(t, err)
	require.Len(t, m.Packs, 1)
	assert.Equal(t, rec.Header().Get(DigestHeader), m.Packs[0].Digest.String())
}

func TestExportPackArchiveFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ArchiveExports = true
	srv := New(cfg, failingSaver{err: errors.New("disk full")}, mocks.NewMockFileSystem())

	rec := post(t, srv.Handler(), `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "saving pack", rec.Body.String())
}

func TestRequestIDPropagates(t *testing.T) {
	srv, _, _ := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(testConfig())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"storage":"up"}`, rec.Body.String())
}

func TestHealthStorageDown(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ArchiveExports = true
	srv, fs, _ := newTestServer(cfg)
	fs.Errors["/packs"] = errors.New("read-only file system")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"ok":false,"storage":"down"}`, rec.Body.String())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ShutdownTimeout = "2s"
	srv, _, _ := newTestServer(cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/export/pack", "application/json", strings.NewReader(`{"title":"Canli"}`))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, readZip(t, body), 6)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
