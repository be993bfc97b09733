// Package manifest keeps the per-pack history of exported archives.
package manifest

import (
	_ "crypto/sha256" // registers digest.SHA256
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

// FileName is the manifest file stored in every pack directory.
const FileName = "manifest.json"

var (
	ErrNoPacks         = errors.New("no stored versions")
	ErrVersionNotFound = errors.New("version not found")
)

type PackEntry struct {
	File       string        `json:"file"`
	Digest     digest.Digest `json:"digest"`
	SizeBytes  int64         `json:"size_bytes"`
	CreatedAt  time.Time     `json:"created_at"`
	EntryCount int           `json:"entry_count"`
	Entries    []string      `json:"entries"`
}

// Version is the file name without the .zip extension.
func (e PackEntry) Version() string {
	return strings.TrimSuffix(e.File, ".zip")
}

type Manifest struct {
	Slug  string      `json:"slug"`
	Title string      `json:"title"`
	Packs []PackEntry `json:"packs"`
}

func ManifestPath(outputDir, slug string) string {
	return filepath.Join(outputDir, slug, FileName)
}

// Load reads the manifest of slug, returning an empty one if none exists yet.
func Load(fs ports.FileSystem, outputDir, slug string) (*Manifest, error) {
	data, err := fs.ReadFile(ManifestPath(outputDir, slug))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Manifest{
				Slug:  slug,
				Packs: []PackEntry{},
			}, nil
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest for %s: %w", slug, err)
	}

	return &m, nil
}

func (m *Manifest) Save(fs ports.FileSystem, outputDir string) error {
	path := ManifestPath(outputDir, m.Slug)

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	return fs.WriteFile(path, data, 0644)
}

func (m *Manifest) Add(entry PackEntry) {
	m.Packs = append(m.Packs, entry)
}

func (m *Manifest) Latest() *PackEntry {
	if len(m.Packs) == 0 {
		return nil
	}
	return &m.Packs[len(m.Packs)-1]
}

// Find returns the entry for version (with or without .zip), or the latest
// entry when version is empty.
func (m *Manifest) Find(version string) (*PackEntry, error) {
	if version == "" {
		if latest := m.Latest(); latest != nil {
			return latest, nil
		}
		return nil, fmt.Errorf("%w for pack: %s", ErrNoPacks, m.Slug)
	}

	file := version
	if !strings.HasSuffix(file, ".zip") {
		file += ".zip"
	}
	for i := range m.Packs {
		if m.Packs[i].File == file {
			return &m.Packs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, version)
}

// Prune removes the oldest versions exceeding keepLast.
// Returns the removed file names; files that fail to delete stay listed.
func (m *Manifest) Prune(fs ports.FileSystem, outputDir string, keepLast int) ([]string, error) {
	if keepLast <= 0 || len(m.Packs) <= keepLast {
		return nil, nil
	}

	// Packs are ordered oldest to newest
	toRemove := len(m.Packs) - keepLast
	var deleted []string
	var kept []PackEntry
	var errs []error

	for i := 0; i < toRemove; i++ {
		entry := m.Packs[i]
		zipPath := filepath.Join(outputDir, m.Slug, entry.File)

		if err := fs.Remove(zipPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			kept = append(kept, entry)
			errs = append(errs, fmt.Errorf("removing %s: %w", entry.File, err))
			continue
		}
		deleted = append(deleted, entry.File)
	}

	m.Packs = append(kept, m.Packs[toRemove:]...)

	return deleted, errors.Join(errs...)
}

// Compute returns the sha256 digest of data.
func Compute(data []byte) digest.Digest {
	return digest.FromBytes(data)
}

// VerifyFile checks the stored archive for entry against its recorded digest.
func VerifyFile(fs ports.FileSystem, path string, entry *PackEntry) error {
	if err := entry.Digest.Validate(); err != nil {
		return fmt.Errorf("invalid digest in manifest: %w", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", entry.File, err)
	}

	actual := entry.Digest.Algorithm().FromBytes(data)
	if actual != entry.Digest {
		return fmt.Errorf("digest mismatch: expected %s, got %s", entry.Digest, actual)
	}
	return nil
}
