package pack

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/osfs"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/ziparchiver"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/manifest"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

// versionLayout names stored versions.
const versionLayout = "20060102-150405"

type SaveResult struct {
	Slug   string
	File   string
	Path   string
	Size   int64
	Digest digest.Digest
	Pruned []string
}

// Exporter stores built packs under the configured output directory and
// keeps each pack's manifest up to date.
type Exporter struct {
	fs       ports.FileSystem
	archiver ports.Archiver
	now      func() time.Time
}

// NewExporter creates an exporter with the given dependencies.
func NewExporter(fs ports.FileSystem, archiver ports.Archiver) *Exporter {
	return &Exporter{fs: fs, archiver: archiver, now: time.Now}
}

// NewDefaultExporter creates an exporter with real production dependencies.
func NewDefaultExporter() *Exporter {
	fs := osfs.New()
	return NewExporter(fs, ziparchiver.NewWithFileSystem(fs))
}

// WithClock replaces the time source used to name versions.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// Save writes p as a new version of its pack and records it in the manifest.
// Versions beyond cfg.Retention.KeepLast are pruned; a prune failure is
// logged and does not fail the save.
func (e *Exporter) Save(cfg *config.Config, p *Pack) (SaveResult, error) {
	outputDir, err := config.ExpandPath(cfg.OutputDir)
	if err != nil {
		return SaveResult{}, err
	}

	m, err := manifest.Load(e.fs, outputDir, p.Slug)
	if err != nil {
		return SaveResult{}, fmt.Errorf("loading manifest: %w", err)
	}
	m.Title = p.Title

	packDir := filepath.Join(outputDir, p.Slug)
	if err := e.fs.MkdirAll(packDir, 0755); err != nil {
		return SaveResult{}, fmt.Errorf("creating pack dir: %w", err)
	}

	createdAt := e.now()
	file := e.uniqueFile(m, createdAt)
	zipPath := filepath.Join(packDir, file)

	size, err := e.archiver.Write(zipPath, p.Entries)
	if err != nil {
		return SaveResult{}, fmt.Errorf("writing pack: %w", err)
	}

	m.Add(manifest.PackEntry{
		File:       file,
		Digest:     p.Digest,
		SizeBytes:  size,
		CreatedAt:  createdAt,
		EntryCount: len(p.Entries),
		Entries:    p.Names(),
	})

	result := SaveResult{
		Slug:   p.Slug,
		File:   file,
		Path:   zipPath,
		Size:   size,
		Digest: p.Digest,
	}

	if keep := cfg.Retention.KeepLast; keep > 0 {
		pruned, err := m.Prune(e.fs, outputDir, keep)
		if err != nil {
			slog.Warn("pruning old pack versions", "slug", p.Slug, "error", err)
		}
		result.Pruned = pruned
	}

	if err := m.Save(e.fs, outputDir); err != nil {
		return SaveResult{}, fmt.Errorf("saving manifest: %w", err)
	}

	return result, nil
}

// uniqueFile names a version after t, adding a counter when a version
// with the same second already exists.
func (e *Exporter) uniqueFile(m *manifest.Manifest, t time.Time) string {
	base := t.Format(versionLayout)
	file := base + ".zip"
	for n := 2; ; n++ {
		if _, err := m.Find(file); errors.Is(err, manifest.ErrVersionNotFound) {
			return file
		}
		file = fmt.Sprintf("%s-%d.zip", base, n)
	}
}

// ListSlugs returns the stored pack slugs, sorted. A missing output
// directory has no packs.
func (e *Exporter) ListSlugs(cfg *config.Config) ([]string, error) {
	outputDir, err := config.ExpandPath(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	entries, err := e.fs.ReadDir(outputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var slugs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			slugs = append(slugs, entry.Name())
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// FormatSize formats bytes as human-readable
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
