package mocks

import (
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

// MockTUIService implements ports.TUIService for testing.
type MockTUIService struct {
	// ConfigResult is the config to return from LoadConfig
	ConfigResult *config.Config
	// ConfigError is the error to return from LoadConfig
	ConfigError error

	// Packs is the list of packs to return
	Packs []ports.TUIPackInfo
	// PacksError is the error to return from ListPacks
	PacksError error

	// Versions maps slugs to their versions
	Versions map[string][]ports.TUIVersionInfo
	// VersionsError is the error to return from ListVersions
	VersionsError error

	// Entries maps "slug/file" to archive members
	Entries map[string][]ports.FileInfo
	// EntriesError is the error to return from ListEntries
	EntriesError error
	// Contents maps "slug/file/name" to member content
	Contents map[string]string
	// ReadErrors maps "slug/file/name" to read errors
	ReadErrors map[string]error

	// VerifyErrors maps slugs to verify errors
	VerifyErrors map[string]error

	// Call tracking
	LoadConfigCalls   int
	ListPacksCalls    int
	ListVersionsCalls []string
	ListEntriesCalls  []string
	VerifyPackCalls   []string
}

// NewMockTUIService creates a new mock TUI service.
func NewMockTUIService() *MockTUIService {
	return &MockTUIService{
		ConfigResult: &config.Config{},
		Versions:     make(map[string][]ports.TUIVersionInfo),
		Entries:      make(map[string][]ports.FileInfo),
		Contents:     make(map[string]string),
		ReadErrors:   make(map[string]error),
		VerifyErrors: make(map[string]error),
	}
}

// LoadConfig loads the application configuration.
func (m *MockTUIService) LoadConfig() (*config.Config, error) {
	m.LoadConfigCalls++
	if m.ConfigError != nil {
		return nil, m.ConfigError
	}
	return m.ConfigResult, nil
}

// ListPacks returns all stored packs.
func (m *MockTUIService) ListPacks(cfg *config.Config) ([]ports.TUIPackInfo, error) {
	m.ListPacksCalls++
	if m.PacksError != nil {
		return nil, m.PacksError
	}
	return m.Packs, nil
}

// ListVersions returns all versions of a pack.
func (m *MockTUIService) ListVersions(cfg *config.Config, slug string) ([]ports.TUIVersionInfo, error) {
	m.ListVersionsCalls = append(m.ListVersionsCalls, slug)
	if m.VersionsError != nil {
		return nil, m.VersionsError
	}
	return m.Versions[slug], nil
}

// ListEntries returns the members of a stored version.
func (m *MockTUIService) ListEntries(cfg *config.Config, slug, file string) ([]ports.FileInfo, error) {
	key := slug + "/" + file
	m.ListEntriesCalls = append(m.ListEntriesCalls, key)
	if m.EntriesError != nil {
		return nil, m.EntriesError
	}
	return m.Entries[key], nil
}

// ReadEntry returns the content of one member.
func (m *MockTUIService) ReadEntry(cfg *config.Config, slug, file, name string) (string, error) {
	key := slug + "/" + file + "/" + name
	if err, ok := m.ReadErrors[key]; ok {
		return "", err
	}
	return m.Contents[key], nil
}

// VerifyPack verifies the latest version of a pack.
func (m *MockTUIService) VerifyPack(cfg *config.Config, slug string) error {
	m.VerifyPackCalls = append(m.VerifyPackCalls, slug)
	if err, ok := m.VerifyErrors[slug]; ok {
		return err
	}
	return nil
}

// Compile-time check that MockTUIService implements ports.TUIService.
var _ ports.TUIService = (*MockTUIService)(nil)
