package mocks

import (
	"fmt"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ziparchive"
)

// MockArchiver implements ports.Archiver for testing.
// Written archives are kept in memory and served back by List and ReadFile.
type MockArchiver struct {
	// Archives maps archive paths to their entries
	Archives map[string][]ziparchive.Entry
	// WriteCalls records calls to Write
	WriteCalls []WriteCall
	// ExtractCalls records calls to Extract
	ExtractCalls []ExtractCall
	// Errors maps method names to errors
	Errors map[string]error
}

// WriteCall records parameters of a Write call.
type WriteCall struct {
	DestPath string
	Entries  []ziparchive.Entry
}

// ExtractCall records parameters of an Extract call.
type ExtractCall struct {
	ZipPath string
	DestDir string
}

// NewMockArchiver creates a new mock archiver.
func NewMockArchiver() *MockArchiver {
	return &MockArchiver{
		Archives: make(map[string][]ziparchive.Entry),
		Errors:   make(map[string]error),
	}
}

// Write records the entries under destPath.
// The returned size is what the real encoder would produce.
func (m *MockArchiver) Write(destPath string, entries []ziparchive.Entry) (int64, error) {
	m.WriteCalls = append(m.WriteCalls, WriteCall{DestPath: destPath, Entries: entries})
	if err, ok := m.Errors["Write"]; ok {
		return 0, err
	}
	m.Archives[destPath] = entries
	return int64(ziparchive.Size(entries)), nil
}

// Extract records the call.
func (m *MockArchiver) Extract(zipPath, destDir string) error {
	m.ExtractCalls = append(m.ExtractCalls, ExtractCall{
		ZipPath: zipPath,
		DestDir: destDir,
	})
	if err, ok := m.Errors["Extract"]; ok {
		return err
	}
	return nil
}

// List returns the members of a previously written archive.
func (m *MockArchiver) List(zipPath string) ([]ports.FileInfo, error) {
	if err, ok := m.Errors["List"]; ok {
		return nil, err
	}
	entries, ok := m.Archives[zipPath]
	if !ok {
		return nil, fmt.Errorf("open %s: file does not exist", zipPath)
	}
	files := make([]ports.FileInfo, 0, len(entries))
	for _, e := range entries {
		files = append(files, ports.FileInfo{
			Name:  e.Name,
			Size:  int64(len(e.Content)),
			CRC32: ziparchive.Checksum([]byte(e.Content)),
		})
	}
	return files, nil
}

// ReadFile returns the content of a member of a previously written archive.
func (m *MockArchiver) ReadFile(zipPath, name string) (string, error) {
	if err, ok := m.Errors["ReadFile"]; ok {
		return "", err
	}
	for _, e := range m.Archives[zipPath] {
		if e.Name == name {
			return e.Content, nil
		}
	}
	return "", fmt.Errorf("entry not found in archive: %s", name)
}

// Compile-time check that MockArchiver implements ports.Archiver.
var _ ports.Archiver = (*MockArchiver)(nil)
