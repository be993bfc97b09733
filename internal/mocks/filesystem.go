// Package mocks provides mock implementations for testing.
package mocks

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

// MockFileSystem implements ports.FileSystem for testing.
// Directory listings are derived from Files and Stats unless Dirs has an
// explicit entry for the path.
type MockFileSystem struct {
	// Files maps paths to file contents for ReadFile/WriteFile
	Files map[string][]byte
	// Dirs maps paths to directory entries for ReadDir
	Dirs map[string][]os.DirEntry
	// Stats maps paths to FileInfo for Stat
	Stats map[string]os.FileInfo
	// Errors maps paths to errors (for simulating failures)
	Errors map[string]error

	// Removed records paths passed to Remove and RemoveAll
	Removed []string
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:  make(map[string][]byte),
		Dirs:   make(map[string][]os.DirEntry),
		Stats:  make(map[string]os.FileInfo),
		Errors: make(map[string]error),
	}
}

// ReadDir reads the named directory and returns directory entries.
func (m *MockFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if entries, ok := m.Dirs[name]; ok {
		return entries, nil
	}

	seen := make(map[string]bool)
	var entries []os.DirEntry
	add := func(p string, isDir bool) {
		rel, err := filepath.Rel(name, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			return
		}
		first, rest, nested := strings.Cut(rel, string(filepath.Separator))
		if seen[first] {
			return
		}
		seen[first] = true
		entries = append(entries, NewDirEntry(first, isDir || nested && rest != ""))
	}
	for p := range m.Files {
		add(p, false)
	}
	for p, info := range m.Stats {
		add(p, info.IsDir())
	}

	if len(entries) == 0 {
		if info, ok := m.Stats[name]; !ok || !info.IsDir() {
			return nil, os.ErrNotExist
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if info, ok := m.Stats[name]; ok {
		return info, nil
	}
	// Check if we have file content (implies file exists)
	if content, ok := m.Files[name]; ok {
		return &mockFileInfo{name: filepath.Base(name), size: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

// MkdirAll creates a directory along with any necessary parents.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	m.Stats[path] = &mockFileInfo{name: filepath.Base(path), isDir: true, mode: fs.ModeDir | perm}
	return nil
}

// WriteFile writes data to the named file, creating it if necessary.
func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err, ok := m.Errors[name]; ok {
		return err
	}
	m.Files[name] = append([]byte(nil), data...)
	return nil
}

// ReadFile reads the named file and returns the contents.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if content, ok := m.Files[name]; ok {
		return content, nil
	}
	return nil, os.ErrNotExist
}

// Remove removes the named file or empty directory.
func (m *MockFileSystem) Remove(name string) error {
	if err, ok := m.Errors[name]; ok {
		return err
	}
	_, isFile := m.Files[name]
	_, isStat := m.Stats[name]
	if !isFile && !isStat {
		return os.ErrNotExist
	}
	m.Removed = append(m.Removed, name)
	delete(m.Files, name)
	delete(m.Stats, name)
	return nil
}

// RemoveAll removes path and any children it contains.
func (m *MockFileSystem) RemoveAll(path string) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	m.Removed = append(m.Removed, path)
	prefix := path + string(filepath.Separator)
	for k := range m.Files {
		if k == path || strings.HasPrefix(k, prefix) {
			delete(m.Files, k)
		}
	}
	for k := range m.Stats {
		if k == path || strings.HasPrefix(k, prefix) {
			delete(m.Stats, k)
		}
	}
	return nil
}

// Rename renames (moves) oldpath to newpath.
func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if err, ok := m.Errors[oldpath]; ok {
		return err
	}
	if content, ok := m.Files[oldpath]; ok {
		m.Files[newpath] = content
		delete(m.Files, oldpath)
	}
	if info, ok := m.Stats[oldpath]; ok {
		m.Stats[newpath] = info
		delete(m.Stats, oldpath)
	}
	return nil
}

// NewDirEntry returns an os.DirEntry for use in Dirs.
func NewDirEntry(name string, isDir bool) os.DirEntry {
	return &mockDirEntry{name: name, isDir: isDir}
}

type mockDirEntry struct {
	name  string
	isDir bool
}

func (d *mockDirEntry) Name() string { return d.name }
func (d *mockDirEntry) IsDir() bool  { return d.isDir }
func (d *mockDirEntry) Type() fs.FileMode {
	if d.isDir {
		return fs.ModeDir
	}
	return 0
}
func (d *mockDirEntry) Info() (fs.FileInfo, error) {
	return &mockFileInfo{name: d.name, isDir: d.isDir}, nil
}

// mockFileInfo implements os.FileInfo for testing.
type mockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// Compile-time check that MockFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*MockFileSystem)(nil)
