package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/manifest"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/mocks"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/pack"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/unpack"
)

// ============================================================================
// Mock implementations for testing
// ============================================================================

// mockConfigService implements ConfigService for testing.
type mockConfigService struct {
	config        *config.Config
	loadErr       error
	saveErr       error
	configPath    string
	defaultCfgErr error
}

func newMockConfigService() *mockConfigService {
	return &mockConfigService{
		config: &config.Config{
			OutputDir: "/test/packs",
			Server:    config.ServerConfig{Addr: ":8080"},
			Defaults:  config.DefaultPackDefaults(),
		},
		configPath: "/test/.autotube/config.yaml",
	}
}

func (m *mockConfigService) Load() (*config.Config, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.config, nil
}

func (m *mockConfigService) Save(cfg *config.Config) error { return m.saveErr }

func (m *mockConfigService) ConfigPath() (string, error) { return m.configPath, nil }

func (m *mockConfigService) DefaultConfig() (*config.Config, error) {
	if m.defaultCfgErr != nil {
		return nil, m.defaultCfgErr
	}
	return m.config, nil
}

// mockExportService implements ExportService for testing.
type mockExportService struct {
	saved    []*pack.Pack
	result   pack.SaveResult
	saveErr  error
	slugs    []string
	slugsErr error
}

func (m *mockExportService) Save(cfg *config.Config, p *pack.Pack) (pack.SaveResult, error) {
	m.saved = append(m.saved, p)
	if m.saveErr != nil {
		return pack.SaveResult{}, m.saveErr
	}
	return m.result, nil
}

func (m *mockExportService) ListSlugs(cfg *config.Config) ([]string, error) {
	return m.slugs, m.slugsErr
}

// mockUnpackService implements UnpackService for testing.
type mockUnpackService struct {
	verifyErr       error
	lastVerify      string
	extractErr      error
	lastExtractOpts unpack.ExtractOptions
	versions        []manifest.PackEntry
	versionsErr     error
	entries         []ports.FileInfo
	entriesErr      error
	manifests       map[string]*manifest.Manifest
}

func (m *mockUnpackService) Verify(cfg *config.Config, slug, version string) error {
	m.lastVerify = slug + "@" + version
	return m.verifyErr
}

func (m *mockUnpackService) Extract(cfg *config.Config, opts unpack.ExtractOptions) (string, error) {
	m.lastExtractOpts = opts
	if m.extractErr != nil {
		return "", m.extractErr
	}
	return "20261018-090000.zip", nil
}

func (m *mockUnpackService) ListVersions(cfg *config.Config, slug string) ([]manifest.PackEntry, error) {
	return m.versions, m.versionsErr
}

func (m *mockUnpackService) ListEntries(cfg *config.Config, slug, version string) ([]ports.FileInfo, error) {
	return m.entries, m.entriesErr
}

func (m *mockUnpackService) Manifest(cfg *config.Config, slug string) (*manifest.Manifest, error) {
	if mf, ok := m.manifests[slug]; ok {
		return mf, nil
	}
	return nil, errors.New("parsing manifest")
}

// mockServerRunner implements ServerRunner for testing.
type mockServerRunner struct {
	cfg    *config.Config
	runErr error
}

func (m *mockServerRunner) Run(ctx context.Context, cfg *config.Config) error {
	m.cfg = cfg
	return m.runErr
}

type testCLI struct {
	*CLI
	out, errOut *bytes.Buffer
	exitCode    int
	cfgSvc      *mockConfigService
	exportSvc   *mockExportService
	unpackSvc   *mockUnpackService
	serverSvc   *mockServerRunner
	fs          *mocks.MockFileSystem
}

func newTestCLI(args ...string) *testCLI {
	tc := &testCLI{
		out:       &bytes.Buffer{},
		errOut:    &bytes.Buffer{},
		exitCode:  -1,
		cfgSvc:    newMockConfigService(),
		exportSvc: &mockExportService{},
		unpackSvc: &mockUnpackService{},
		serverSvc: &mockServerRunner{},
		fs:        mocks.NewMockFileSystem(),
	}
	tc.CLI = NewForTesting(tc.out, tc.errOut, append([]string{"autotube"}, args...))
	tc.Exit = func(code int) { tc.exitCode = code }
	tc.ConfigSvc = tc.cfgSvc
	tc.ExportSvc = tc.exportSvc
	tc.UnpackSvc = tc.unpackSvc
	tc.ServerSvc = tc.serverSvc
	tc.FS = tc.fs
	return tc
}

// ============================================================================
// Tests
// ============================================================================

func TestVersion(t *testing.T) {
	for _, arg := range []string{"version", "-v", "--version"} {
		tc := newTestCLI(arg)
		tc.Run()
		if got := tc.out.String(); got != "autotube vtest\n" {
			t.Errorf("%s: output = %q", arg, got)
		}
	}
}

func TestHelp(t *testing.T) {
	for _, arg := range []string{"help", "-h", "--help"} {
		tc := newTestCLI(arg)
		tc.Run()
		for _, want := range []string{"autotube serve", "autotube pack", "autotube extract", "~/.autotube/config.yaml"} {
			if !strings.Contains(tc.out.String(), want) {
				t.Errorf("%s: usage missing %q", arg, want)
			}
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	tc := newTestCLI("bogus")
	tc.Run()

	if tc.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", tc.exitCode)
	}
	if !strings.Contains(tc.errOut.String(), "Unknown command: bogus") {
		t.Errorf("stderr = %q", tc.errOut.String())
	}
}

func TestNoCommand(t *testing.T) {
	tc := newTestCLI()
	tc.Run()
	if !strings.Contains(tc.out.String(), "No command specified") {
		t.Errorf("output = %q", tc.out.String())
	}
}

func TestMissingArguments(t *testing.T) {
	tests := map[string][]string{
		"verify":  {"verify"},
		"list":    {"list"},
		"entries": {"entries"},
		"extract": {"extract", "demo"},
	}
	for name, args := range tests {
		tc := newTestCLI(args...)
		tc.Run()
		if tc.exitCode != 1 {
			t.Errorf("%s: exit code = %d, expected 1", name, tc.exitCode)
		}
		if !strings.Contains(tc.out.String(), "Usage: autotube "+name) {
			t.Errorf("%s: output = %q", name, tc.out.String())
		}
	}
}

func TestConfigLoadError(t *testing.T) {
	for _, args := range [][]string{
		{"serve"}, {"pack"}, {"packs"}, {"list", "demo"}, {"verify", "demo"},
		{"extract", "demo", "/tmp/out"}, {"entries", "demo"},
	} {
		tc := newTestCLI(args...)
		tc.cfgSvc.loadErr = errors.New("bad yaml")
		tc.Run()
		if tc.exitCode != 1 {
			t.Errorf("%v: exit code = %d, expected 1", args, tc.exitCode)
		}
		if !strings.Contains(tc.errOut.String(), "Error loading config: bad yaml") {
			t.Errorf("%v: stderr = %q", args, tc.errOut.String())
		}
	}
}

func TestInitConfig(t *testing.T) {
	tc := newTestCLI("init")
	tc.Run()
	if !strings.Contains(tc.out.String(), "Created config at /test/.autotube/config.yaml") {
		t.Errorf("output = %q", tc.out.String())
	}

	tc = newTestCLI("init")
	tc.cfgSvc.saveErr = errors.New("read-only")
	tc.Run()
	if tc.exitCode != 1 || !strings.Contains(tc.errOut.String(), "Error saving config: read-only") {
		t.Errorf("exit = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
}

func TestServe(t *testing.T) {
	tc := newTestCLI("serve", "--addr=127.0.0.1:9090", "--archive")
	tc.Run()

	if tc.exitCode != -1 {
		t.Fatalf("unexpected exit %d: %s", tc.exitCode, tc.errOut.String())
	}
	if tc.serverSvc.cfg == nil {
		t.Fatal("server was not run")
	}
	if tc.serverSvc.cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Addr = %q", tc.serverSvc.cfg.Server.Addr)
	}
	if !tc.serverSvc.cfg.Server.ArchiveExports {
		t.Error("--archive should enable ArchiveExports")
	}
	if !strings.Contains(tc.out.String(), "Serving on 127.0.0.1:9090") {
		t.Errorf("output = %q", tc.out.String())
	}
}

func TestServeError(t *testing.T) {
	tc := newTestCLI("serve")
	tc.serverSvc.runErr = errors.New("address already in use")
	tc.Run()

	if tc.exitCode != 1 || !strings.Contains(tc.errOut.String(), "Server error: address already in use") {
		t.Errorf("exit = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
}

func TestPackSavesToHistory(t *testing.T) {
	tc := newTestCLI("pack", "--title=Uzay Belgeseli", "--tags=bilim, uzay,", "--script=Evren")
	tc.exportSvc.result = pack.SaveResult{
		Slug:   "uzay-belgeseli",
		File:   "20261018-090000.zip",
		Path:   "/test/packs/uzay-belgeseli/20261018-090000.zip",
		Size:   2048,
		Pruned: []string{"old.zip"},
	}
	tc.Run()

	if tc.exitCode != -1 {
		t.Fatalf("unexpected exit %d: %s", tc.exitCode, tc.errOut.String())
	}
	if len(tc.exportSvc.saved) != 1 {
		t.Fatalf("saved %d packs, expected 1", len(tc.exportSvc.saved))
	}

	p := tc.exportSvc.saved[0]
	if p.Slug != "uzay-belgeseli" {
		t.Errorf("Slug = %q", p.Slug)
	}
	if p.Entries[0].Content != "Evren" || p.Entries[4].Content != "Evren" {
		t.Errorf("script/tts = %q/%q", p.Entries[0].Content, p.Entries[4].Content)
	}
	if p.Entries[2].Content != "bilim, uzay" {
		t.Errorf("tags = %q", p.Entries[2].Content)
	}

	out := tc.out.String()
	for _, want := range []string{"uzay-belgeseli 20261018-090000 2.0 KB", "pruned 1 old version(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestPackEmptyTagsFlag(t *testing.T) {
	tc := newTestCLI("pack", "--tags=")
	tc.Run()

	if got := tc.exportSvc.saved[0].Entries[2].Content; got != "" {
		t.Errorf("tags = %q, expected empty", got)
	}
}

func TestPackFromFileWithOverride(t *testing.T) {
	tc := newTestCLI("pack", "--title=Override", "--from=/req.json", "--out=/out/pack.zip")
	tc.fs.Files["/req.json"] = []byte(`{"title":"From File","description":"Dosyadan"}`)
	tc.Run()

	if tc.exitCode != -1 {
		t.Fatalf("unexpected exit %d: %s", tc.exitCode, tc.errOut.String())
	}
	if len(tc.exportSvc.saved) != 0 {
		t.Error("--out should not save to history")
	}

	data, ok := tc.fs.Files["/out/pack.zip"]
	if !ok {
		t.Fatal("pack not written to --out")
	}
	expected := pack.Build(pack.Request{Title: "Override", Description: "Dosyadan"}, config.DefaultPackDefaults())
	if !bytes.Equal(data, expected.Data) {
		t.Error("written pack does not match expected build")
	}
	if !strings.Contains(tc.out.String(), expected.Digest.String()) {
		t.Errorf("output = %q", tc.out.String())
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		setup  func(tc *testCLI)
		stderr string
	}{
		{"unknown flag", []string{"pack", "--colour=red"}, nil, "unknown flag: --colour"},
		{"bare arg", []string{"pack", "title"}, nil, "unknown flag: title"},
		{"missing from", []string{"pack", "--from=/nope.json"}, nil, "reading /nope.json"},
		{"bad from", []string{"pack", "--from=/bad.json"}, func(tc *testCLI) {
			tc.fs.Files["/bad.json"] = []byte("{")
		}, "parsing /bad.json"},
		{"save", []string{"pack"}, func(tc *testCLI) {
			tc.exportSvc.saveErr = errors.New("disk full")
		}, "Error saving pack: disk full"},
		{"out", []string{"pack", "--out=/ro/p.zip"}, func(tc *testCLI) {
			tc.fs.Errors["/ro/p.zip"] = errors.New("read-only")
		}, "Error writing pack: read-only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(tt.args...)
			if tt.setup != nil {
				tt.setup(tc)
			}
			tc.Run()
			if tc.exitCode != 1 {
				t.Errorf("exit code = %d, expected 1", tc.exitCode)
			}
			if !strings.Contains(tc.errOut.String(), tt.stderr) {
				t.Errorf("stderr = %q, expected %q", tc.errOut.String(), tt.stderr)
			}
		})
	}
}

func TestListPacks(t *testing.T) {
	tc := newTestCLI("packs")
	tc.exportSvc.slugs = []string{"broken", "demo", "empty"}
	tc.unpackSvc.manifests = map[string]*manifest.Manifest{
		"demo": {Slug: "demo", Title: "Demo Pack", Packs: []manifest.PackEntry{
			{File: "20261017-080000.zip"}, {File: "20261018-090000.zip"},
		}},
		"empty": {Slug: "empty"},
	}
	tc.Run()

	out := tc.out.String()
	for _, want := range []string{"SLUG", "20261018-090000", "Demo Pack", "parsing manifest"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestListPacksEmpty(t *testing.T) {
	tc := newTestCLI("packs")
	tc.Run()
	if !strings.Contains(tc.out.String(), "No packs found in /test/packs") {
		t.Errorf("output = %q", tc.out.String())
	}
}

func TestListVersions(t *testing.T) {
	tc := newTestCLI("list", "demo")
	tc.unpackSvc.versions = []manifest.PackEntry{{
		File:       "20261018-090000.zip",
		SizeBytes:  1536,
		EntryCount: 6,
		Digest:     manifest.Compute([]byte("x")),
		CreatedAt:  time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}, {
		File:   "20261018-100000.zip",
		Digest: "bogus",
	}}
	tc.Run()

	out := tc.out.String()
	hex := manifest.Compute([]byte("x")).Encoded()[:12]
	for _, want := range []string{"Versions of demo", "20261018-090000", "1.5 KB", hex} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, manifest.Compute([]byte("x")).Encoded()) {
		t.Error("digest should be shortened")
	}
}

func TestListVersionsEmptyAndError(t *testing.T) {
	tc := newTestCLI("list", "demo")
	tc.Run()
	if !strings.Contains(tc.out.String(), "No versions found for demo") {
		t.Errorf("output = %q", tc.out.String())
	}

	tc = newTestCLI("list", "demo")
	tc.unpackSvc.versionsErr = errors.New("corrupt manifest")
	tc.Run()
	if tc.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", tc.exitCode)
	}
}

func TestRunVerify(t *testing.T) {
	tc := newTestCLI("verify", "demo", "20261018-090000")
	tc.Run()
	if tc.unpackSvc.lastVerify != "demo@20261018-090000" {
		t.Errorf("Verify called with %q", tc.unpackSvc.lastVerify)
	}
	if !strings.Contains(tc.out.String(), "verified for demo") {
		t.Errorf("output = %q", tc.out.String())
	}

	tc = newTestCLI("verify", "demo")
	tc.unpackSvc.verifyErr = unpack.ErrChecksumMismatch
	tc.Run()
	if tc.exitCode != 1 || !strings.Contains(tc.errOut.String(), "Verification failed: checksum mismatch") {
		t.Errorf("exit = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
}

func TestRunExtract(t *testing.T) {
	tc := newTestCLI("extract", "demo", "/tmp/out", "--version=20261018-090000", "--overwrite")
	tc.Run()

	want := unpack.ExtractOptions{Slug: "demo", Dest: "/tmp/out", Version: "20261018-090000", Overwrite: true}
	if tc.unpackSvc.lastExtractOpts != want {
		t.Errorf("opts = %+v, expected %+v", tc.unpackSvc.lastExtractOpts, want)
	}
	if !strings.Contains(tc.out.String(), "Extracted demo 20261018-090000 to /tmp/out") {
		t.Errorf("output = %q", tc.out.String())
	}

	tc = newTestCLI("extract", "demo", "/tmp/out")
	tc.unpackSvc.extractErr = unpack.ErrDestExists
	tc.Run()
	if tc.exitCode != 1 || !strings.Contains(tc.errOut.String(), "Extract failed") {
		t.Errorf("exit = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
}

func TestListEntries(t *testing.T) {
	tc := newTestCLI("entries", "demo")
	tc.unpackSvc.entries = []ports.FileInfo{
		{Name: "script.txt", Size: 5, CRC32: 0x3610a686},
	}
	tc.Run()

	if !strings.Contains(tc.out.String(), "3610a686") {
		t.Errorf("output = %q", tc.out.String())
	}

	tc = newTestCLI("entries", "demo", "v1")
	tc.unpackSvc.entriesErr = manifest.ErrVersionNotFound
	tc.Run()
	if tc.exitCode != 1 || !strings.Contains(tc.errOut.String(), "version not found") {
		t.Errorf("exit = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
}

func TestSplitTags(t *testing.T) {
	if got := splitTags(" a , ,b,"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitTags = %#v", got)
	}
	if got := splitTags(""); got == nil || len(got) != 0 {
		t.Errorf("splitTags(\"\") = %#v, expected empty non-nil", got)
	}
}

func TestDefaultServiceFallbacks(t *testing.T) {
	c := NewForTesting(&bytes.Buffer{}, &bytes.Buffer{}, nil)

	if _, ok := c.configSvc().(*defaultConfigService); !ok {
		t.Error("configSvc should fall back to defaultConfigService")
	}
	if _, ok := c.exportSvc().(*pack.Exporter); !ok {
		t.Error("exportSvc should fall back to pack.Exporter")
	}
	if _, ok := c.unpackSvc().(*unpack.Service); !ok {
		t.Error("unpackSvc should fall back to unpack.Service")
	}
	if _, ok := c.serverSvc().(*defaultServerRunner); !ok {
		t.Error("serverSvc should fall back to defaultServerRunner")
	}
}

func TestMockServicesImplementInterfaces(t *testing.T) {
	var _ ConfigService = (*mockConfigService)(nil)
	var _ ExportService = (*mockExportService)(nil)
	var _ UnpackService = (*mockUnpackService)(nil)
	var _ ServerRunner = (*mockServerRunner)(nil)
	var _ ExportService = (*pack.Exporter)(nil)
	var _ UnpackService = (*unpack.Service)(nil)
}
