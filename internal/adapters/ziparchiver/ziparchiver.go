// Package ziparchiver provides the pack archiver adapter. Archives are
// encoded with the ziparchive builder and read back with klauspost/compress/zip.
package ziparchiver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/osfs"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ziparchive"
)

// ErrEntryNotFound is returned by ReadFile when the archive has no member
// with the requested name.
var ErrEntryNotFound = errors.New("entry not found in archive")

// ErrPathTraversal is returned by Extract for members that would land
// outside the destination directory.
var ErrPathTraversal = errors.New("path traversal detected")

// MaxEntrySize is the largest member Extract will write (256MB).
const MaxEntrySize = 256 * 1024 * 1024

// ZipArchiver implements ports.Archiver.
type ZipArchiver struct {
	fs ports.FileSystem
}

// New creates a ZipArchiver writing through the OS filesystem.
func New() *ZipArchiver {
	return NewWithFileSystem(osfs.New())
}

// NewWithFileSystem creates a ZipArchiver writing through fs.
func NewWithFileSystem(fs ports.FileSystem) *ZipArchiver {
	return &ZipArchiver{fs: fs}
}

// Write encodes entries and stores the archive at destPath.
func (a *ZipArchiver) Write(destPath string, entries []ziparchive.Entry) (int64, error) {
	data := ziparchive.Create(entries)
	if err := a.fs.WriteFile(destPath, data, 0644); err != nil {
		return 0, fmt.Errorf("writing archive: %w", err)
	}
	return int64(len(data)), nil
}

// Extract extracts a zip archive to destDir.
func (a *ZipArchiver) Extract(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	absDestDir, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolving destination path: %w", err)
	}
	absDestDir = filepath.Clean(absDestDir)

	if err := a.fs.MkdirAll(absDestDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", absDestDir, err)
	}

	for _, f := range r.File {
		if f.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("symlinks not supported in packs: %s", f.Name)
		}

		fpath := filepath.Join(absDestDir, f.Name)
		if !isWithinDir(absDestDir, fpath) || fpath == absDestDir {
			return fmt.Errorf("invalid file path: %w: %q", ErrPathTraversal, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := a.fs.MkdirAll(fpath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", fpath, err)
			}
			continue
		}

		if err := a.fs.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return fmt.Errorf("creating parent directory for %s: %w", fpath, err)
		}

		data, err := readMember(f, MaxEntrySize)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		if err := a.fs.WriteFile(fpath, data, 0644); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

// readMember reads one member, refusing anything declared or found to be
// larger than limit. The reader verifies the CRC-32 at EOF.
func readMember(f *zip.File, limit uint64) ([]byte, error) {
	declared := f.UncompressedSize64
	if declared > limit {
		return nil, fmt.Errorf("file too large: %d bytes exceeds limit of %d bytes", declared, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	// One extra byte detects content longer than declared
	data, err := io.ReadAll(io.LimitReader(rc, int64(declared)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > declared {
		return nil, fmt.Errorf("content exceeds declared size")
	}
	return data, nil
}

// isWithinDir checks if the target path is within the base directory.
func isWithinDir(absBaseDir, targetPath string) bool {
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return false
	}
	absTarget = filepath.Clean(absTarget)

	return strings.HasPrefix(absTarget, absBaseDir+string(filepath.Separator)) ||
		absTarget == absBaseDir
}

// List returns the archive members in central directory order.
func (a *ZipArchiver) List(zipPath string) ([]ports.FileInfo, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	files := make([]ports.FileInfo, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		size := int64(0)
		if f.UncompressedSize64 <= math.MaxInt64 {
			size = int64(f.UncompressedSize64)
		}
		files = append(files, ports.FileInfo{
			Name:  f.Name,
			Size:  size,
			CRC32: f.CRC32,
		})
	}

	return files, nil
}

// ReadFile reads the first member called name.
func (a *ZipArchiver) ReadFile(zipPath, name string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		data, err := readMember(f, MaxEntrySize)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", name, err)
		}
		return string(data), nil
	}

	return "", fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}

// Compile-time check that ZipArchiver implements ports.Archiver.
var _ ports.Archiver = (*ZipArchiver)(nil)
