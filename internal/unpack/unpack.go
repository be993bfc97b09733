// Package unpack verifies, inspects and extracts stored pack versions.
package unpack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/osfs"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/ziparchiver"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/manifest"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ziparchive"
)

var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrPathTraversal    = ziparchiver.ErrPathTraversal
	ErrDestExists       = errors.New("destination already exists")
)

// ExtractOptions configures an extract operation.
type ExtractOptions struct {
	Slug      string
	Version   string // YYYYMMDD-HHMMSS, empty for latest
	Dest      string
	Overwrite bool // Replace Dest if it exists
}

// Service provides unpack operations with injected dependencies.
type Service struct {
	fs       ports.FileSystem
	archiver ports.Archiver
}

// NewService creates a new unpack service with the given dependencies.
func NewService(fs ports.FileSystem, archiver ports.Archiver) *Service {
	return &Service{
		fs:       fs,
		archiver: archiver,
	}
}

// NewDefaultService creates an unpack service with real production dependencies.
func NewDefaultService() *Service {
	fs := osfs.New()
	return NewService(fs, ziparchiver.NewWithFileSystem(fs))
}

func (s *Service) locate(cfg *config.Config, slug, version string) (string, *manifest.PackEntry, error) {
	outputDir, err := config.ExpandPath(cfg.OutputDir)
	if err != nil {
		return "", nil, err
	}

	m, err := manifest.Load(s.fs, outputDir, slug)
	if err != nil {
		return "", nil, fmt.Errorf("loading manifest: %w", err)
	}

	entry, err := m.Find(version)
	if err != nil {
		return "", nil, err
	}
	return filepath.Join(outputDir, slug, entry.File), entry, nil
}

// Verify checks a stored version against its manifest digest, then checks
// every member's content against the CRC-32 recorded in the archive.
func (s *Service) Verify(cfg *config.Config, slug, version string) error {
	zipPath, entry, err := s.locate(cfg, slug, version)
	if err != nil {
		return err
	}

	if err := manifest.VerifyFile(s.fs, zipPath, entry); err != nil {
		return fmt.Errorf("%w: %v", ErrChecksumMismatch, err)
	}

	files, err := s.archiver.List(zipPath)
	if err != nil {
		return fmt.Errorf("listing %s: %w", entry.File, err)
	}
	if len(files) != entry.EntryCount {
		return fmt.Errorf("%w: manifest lists %d entries, archive has %d",
			ErrChecksumMismatch, entry.EntryCount, len(files))
	}

	for _, f := range files {
		content, err := s.archiver.ReadFile(zipPath, f.Name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrChecksumMismatch, f.Name, err)
		}
		if got := ziparchive.Checksum([]byte(content)); got != f.CRC32 {
			return fmt.Errorf("%w: %s: expected %08x, got %08x", ErrChecksumMismatch, f.Name, f.CRC32, got)
		}
	}

	return nil
}

// Extract unpacks a stored version into opts.Dest after verifying it.
func (s *Service) Extract(cfg *config.Config, opts ExtractOptions) (string, error) {
	zipPath, entry, err := s.locate(cfg, opts.Slug, opts.Version)
	if err != nil {
		return "", err
	}

	if err := s.Verify(cfg, opts.Slug, entry.Version()); err != nil {
		return "", fmt.Errorf("verification failed: %w", err)
	}

	dest, err := config.ExpandPath(opts.Dest)
	if err != nil {
		return "", err
	}

	if _, err := s.fs.Stat(dest); err == nil {
		if !opts.Overwrite {
			return "", fmt.Errorf("%w: %s (use --overwrite)", ErrDestExists, dest)
		}
		if err := s.fs.RemoveAll(dest); err != nil {
			return "", fmt.Errorf("removing %s: %w", dest, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := s.archiver.Extract(zipPath, dest); err != nil {
		return "", fmt.Errorf("extracting pack: %w", err)
	}

	return entry.File, nil
}

// ListVersions returns all stored versions of a pack, oldest first.
func (s *Service) ListVersions(cfg *config.Config, slug string) ([]manifest.PackEntry, error) {
	outputDir, err := config.ExpandPath(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(s.fs, outputDir, slug)
	if err != nil {
		return nil, err
	}

	return m.Packs, nil
}

// Manifest returns the manifest of a pack.
func (s *Service) Manifest(cfg *config.Config, slug string) (*manifest.Manifest, error) {
	outputDir, err := config.ExpandPath(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return manifest.Load(s.fs, outputDir, slug)
}

// ListEntries returns the members of a stored version.
func (s *Service) ListEntries(cfg *config.Config, slug, version string) ([]ports.FileInfo, error) {
	zipPath, _, err := s.locate(cfg, slug, version)
	if err != nil {
		return nil, err
	}
	return s.archiver.List(zipPath)
}

// ReadEntry returns the content of one member of a stored version.
func (s *Service) ReadEntry(cfg *config.Config, slug, version, name string) (string, error) {
	zipPath, _, err := s.locate(cfg, slug, version)
	if err != nil {
		return "", err
	}
	return s.archiver.ReadFile(zipPath, name)
}
