package ports

import (
	"time"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
)

// TUIPackInfo contains pack metadata for display.
type TUIPackInfo struct {
	Slug       string
	Title      string
	Versions   int
	LastExport time.Time
	TotalSize  int64
}

// TUIVersionInfo contains stored pack version metadata for display.
type TUIVersionInfo struct {
	File       string
	Size       int64
	EntryCount int
	Digest     string
	CreatedAt  time.Time
}

// TUIService provides operations needed by the TUI.
// This abstraction allows the TUI to be tested without real filesystem operations.
type TUIService interface {
	// LoadConfig loads the application configuration.
	LoadConfig() (*config.Config, error)

	// ListPacks returns all stored packs with their metadata.
	ListPacks(cfg *config.Config) ([]TUIPackInfo, error)

	// ListVersions returns all stored versions of a pack, newest first.
	ListVersions(cfg *config.Config, slug string) ([]TUIVersionInfo, error)

	// ListEntries returns the members of one stored version.
	ListEntries(cfg *config.Config, slug, file string) ([]FileInfo, error)

	// ReadEntry returns the content of one member of a stored version.
	ReadEntry(cfg *config.Config, slug, file, name string) (string, error)

	// VerifyPack verifies the latest version of a pack.
	// Returns nil if verified successfully, error otherwise.
	VerifyPack(cfg *config.Config, slug string) error
}
