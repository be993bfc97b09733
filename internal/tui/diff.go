package tui

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

// EntryChange is an archive member that differs between two versions.
type EntryChange struct {
	Name   string
	Status rune // 'M' modified, 'A' added, 'D' deleted
	Size1  int64
	Size2  int64
}

// DiffResult compares the members of two stored versions of a pack.
type DiffResult struct {
	File1    string
	File2    string
	Version1 string
	Version2 string
	Changes  []EntryChange
	Added    int
	Modified int
	Deleted  int
}

// ComputeDiff compares two stored versions by member CRC-32 and size.
func ComputeDiff(svc ports.TUIService, cfg *config.Config, slug, file1, file2 string) (*DiffResult, error) {
	entries1, err := listEntries(svc, cfg, slug, file1)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file1, err)
	}
	entries2, err := listEntries(svc, cfg, slug, file2)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file2, err)
	}

	result := &DiffResult{
		File1:    file1,
		File2:    file2,
		Version1: strings.TrimSuffix(file1, ".zip"),
		Version2: strings.TrimSuffix(file2, ".zip"),
	}

	names := make(map[string]bool)
	for name := range entries1 {
		names[name] = true
	}
	for name := range entries2 {
		names[name] = true
	}

	for name := range names {
		info1, in1 := entries1[name]
		info2, in2 := entries2[name]

		change := EntryChange{Name: name}
		switch {
		case in1 && !in2:
			change.Status = 'D'
			change.Size1 = info1.Size
			result.Deleted++
		case !in1 && in2:
			change.Status = 'A'
			change.Size2 = info2.Size
			result.Added++
		case info1.CRC32 != info2.CRC32 || info1.Size != info2.Size:
			change.Status = 'M'
			change.Size1 = info1.Size
			change.Size2 = info2.Size
			result.Modified++
		default:
			continue
		}

		result.Changes = append(result.Changes, change)
	}

	// M, A, D then by name
	order := map[rune]int{'M': 0, 'A': 1, 'D': 2}
	sort.Slice(result.Changes, func(i, j int) bool {
		ci, cj := result.Changes[i], result.Changes[j]
		if ci.Status != cj.Status {
			return order[ci.Status] < order[cj.Status]
		}
		return ci.Name < cj.Name
	})

	return result, nil
}

// listEntries indexes the members of a version by name. Duplicate names
// keep the first occurrence, matching how members are read back.
func listEntries(svc ports.TUIService, cfg *config.Config, slug, file string) (map[string]ports.FileInfo, error) {
	files, err := svc.ListEntries(cfg, slug, file)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]ports.FileInfo, len(files))
	for _, f := range files {
		if _, ok := entries[f.Name]; !ok {
			entries[f.Name] = f
		}
	}
	return entries, nil
}

// DiffLine is one line of a line-by-line diff.
type DiffLine struct {
	LineNum1 int    // Line number in version 1 (0 if added)
	LineNum2 int    // Line number in version 2 (0 if deleted)
	Type     rune   // '+' added, '-' deleted, ' ' unchanged
	Content  string // Line content
}

// EntryDiffResult is the line diff of one member between two versions.
type EntryDiffResult struct {
	Name     string
	Version1 string
	Version2 string
	Lines    []DiffLine
	IsBinary bool
	Error    string
}

// IsBinaryContent checks if content appears to be binary
func IsBinaryContent(content string) bool {
	if len(content) == 0 {
		return false
	}
	checkLen := len(content)
	if checkLen > 8000 {
		checkLen = 8000
	}
	sample := content[:checkLen]

	if strings.Contains(sample, "\x00") {
		return true
	}
	return !utf8.ValidString(sample)
}

// ComputeEntryDiff diffs one member between the two versions of d.
// Read failures are reported in the result rather than as an error.
func ComputeEntryDiff(svc ports.TUIService, cfg *config.Config, slug string, d *DiffResult, change EntryChange) (*EntryDiffResult, error) {
	result := &EntryDiffResult{
		Name:     change.Name,
		Version1: d.Version1,
		Version2: d.Version2,
	}

	var content1, content2 string
	var err error

	if change.Status != 'A' {
		content1, err = svc.ReadEntry(cfg, slug, d.File1, change.Name)
		if err != nil {
			result.Error = fmt.Sprintf("Error reading %s: %v", d.Version1, err)
			return result, nil
		}
	}
	if change.Status != 'D' {
		content2, err = svc.ReadEntry(cfg, slug, d.File2, change.Name)
		if err != nil {
			result.Error = fmt.Sprintf("Error reading %s: %v", d.Version2, err)
			return result, nil
		}
	}

	if IsBinaryContent(content1) || IsBinaryContent(content2) {
		result.IsBinary = true
		return result, nil
	}

	result.Lines = LineDiff(content1, content2)
	return result, nil
}

// LineDiff returns a line-level diff of a and b.
func LineDiff(a, b string) []DiffLine {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var lines []DiffLine
	n1, n2 := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				n1++
				n2++
				lines = append(lines, DiffLine{LineNum1: n1, LineNum2: n2, Type: ' ', Content: text})
			case diffmatchpatch.DiffDelete:
				n1++
				lines = append(lines, DiffLine{LineNum1: n1, Type: '-', Content: text})
			case diffmatchpatch.DiffInsert:
				n2++
				lines = append(lines, DiffLine{LineNum2: n2, Type: '+', Content: text})
			}
		}
	}
	return lines
}

// splitLines splits text into lines without their terminators. A trailing
// newline does not start another line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
