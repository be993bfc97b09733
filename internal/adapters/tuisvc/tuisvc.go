// Package tuisvc provides the real implementation of ports.TUIService.
package tuisvc

import (
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/pack"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/unpack"
)

// Service implements ports.TUIService on top of the pack history.
type Service struct {
	exporter *pack.Exporter
	unpacker *unpack.Service
}

// New creates a TUI service with production dependencies.
func New() *Service {
	return NewWithServices(pack.NewDefaultExporter(), unpack.NewDefaultService())
}

// NewWithServices creates a TUI service over the given exporter and unpacker.
func NewWithServices(exporter *pack.Exporter, unpacker *unpack.Service) *Service {
	return &Service{exporter: exporter, unpacker: unpacker}
}

// LoadConfig loads the application configuration.
func (s *Service) LoadConfig() (*config.Config, error) {
	return config.Load()
}

// ListPacks returns all stored packs. Packs whose manifest cannot be read
// are listed without history.
func (s *Service) ListPacks(cfg *config.Config) ([]ports.TUIPackInfo, error) {
	slugs, err := s.exporter.ListSlugs(cfg)
	if err != nil {
		return nil, err
	}

	result := make([]ports.TUIPackInfo, 0, len(slugs))
	for _, slug := range slugs {
		item := ports.TUIPackInfo{Slug: slug}

		mf, err := s.unpacker.Manifest(cfg, slug)
		if err == nil {
			item.Title = mf.Title
			item.Versions = len(mf.Packs)
			if latest := mf.Latest(); latest != nil {
				item.LastExport = latest.CreatedAt
			}
			for _, p := range mf.Packs {
				item.TotalSize += p.SizeBytes
			}
		}

		result = append(result, item)
	}

	return result, nil
}

// ListVersions returns all versions of a pack, newest first.
func (s *Service) ListVersions(cfg *config.Config, slug string) ([]ports.TUIVersionInfo, error) {
	versions, err := s.unpacker.ListVersions(cfg, slug)
	if err != nil {
		return nil, err
	}

	result := make([]ports.TUIVersionInfo, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		result = append(result, ports.TUIVersionInfo{
			File:       v.File,
			Size:       v.SizeBytes,
			EntryCount: v.EntryCount,
			Digest:     v.Digest.String(),
			CreatedAt:  v.CreatedAt,
		})
	}

	return result, nil
}

// ListEntries returns the members of a stored version.
func (s *Service) ListEntries(cfg *config.Config, slug, file string) ([]ports.FileInfo, error) {
	return s.unpacker.ListEntries(cfg, slug, file)
}

// ReadEntry returns the content of one member of a stored version.
func (s *Service) ReadEntry(cfg *config.Config, slug, file, name string) (string, error) {
	return s.unpacker.ReadEntry(cfg, slug, file, name)
}

// VerifyPack verifies the latest version of a pack.
func (s *Service) VerifyPack(cfg *config.Config, slug string) error {
	return s.unpacker.Verify(cfg, slug, "")
}

// Compile-time check that Service implements ports.TUIService.
var _ ports.TUIService = (*Service)(nil)
