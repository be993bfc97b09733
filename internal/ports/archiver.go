package ports

import "github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ziparchive"

// Archiver abstracts pack archive operations for testability.
// Production code uses ZipArchiver adapter; tests use MockArchiver.
type Archiver interface {
	// Write encodes entries as a ZIP archive at destPath.
	// Returns the number of bytes written.
	Write(destPath string, entries []ziparchive.Entry) (size int64, err error)

	// Extract extracts a zip archive to destDir.
	Extract(zipPath, destDir string) error

	// List returns the members of the archive in directory order.
	List(zipPath string) ([]FileInfo, error)

	// ReadFile reads the contents of a member from inside a zip archive.
	ReadFile(zipPath, name string) (string, error)
}

// FileInfo contains metadata about a file in an archive.
type FileInfo struct {
	Name  string
	Size  int64
	CRC32 uint32
}
