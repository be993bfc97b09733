package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/tuisvc"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/pack"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

// View represents the current view state
type View int

const (
	PacksView View = iota
	VersionsView
	EntriesView    // Members of one version
	PreviewView    // Content of one member
	DiffSelectView // Selecting versions to compare
	DiffResultView // Changed members between two versions
	EntryDiffView  // Line diff of one member
)

// Model is the main TUI model
type Model struct {
	svc      ports.TUIService
	config   *config.Config
	view     View
	width    int
	height   int
	quitting bool

	// Packs view
	packs        []ports.TUIPackInfo
	packCursor   int
	selectedPack string

	// Versions view
	versions      []ports.TUIVersionInfo
	versionCursor int

	// Entries and preview views
	selectedFile  string
	entries       []ports.FileInfo
	entryCursor   int
	previewName   string
	previewLines  []string
	previewScroll int

	// Diff views
	diffSelections  []int
	diffResult      *DiffResult
	diffCursor      int
	entryDiff       *EntryDiffResult
	entryDiffScroll int
	diffSwapped     bool

	// Status message
	statusMsg string
	statusErr bool
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Verify  key.Binding
	Diff    key.Binding
	Select  key.Binding
	Swap    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Verify: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "verify"),
	),
	Diff: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "diff"),
	),
	Select: key.NewBinding(
		key.WithKeys(" ", "tab"),
		key.WithHelp("space", "select"),
	),
	Swap: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "swap"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModelWithService loads the config and pack list through svc.
func NewModelWithService(svc ports.TUIService) (*Model, error) {
	cfg, err := svc.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	m := NewModelWithConfig(cfg, svc)
	if err := m.loadPacks(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewModelWithConfig creates a model without loading any data.
func NewModelWithConfig(cfg *config.Config, svc ports.TUIService) *Model {
	return &Model{
		svc:    svc,
		config: cfg,
		view:   PacksView,
	}
}

func (m *Model) loadPacks() error {
	packs, err := m.svc.ListPacks(m.config)
	if err != nil {
		return err
	}
	m.packs = packs
	if m.packCursor >= len(m.packs) {
		m.packCursor = max(len(m.packs)-1, 0)
	}
	return nil
}

func (m *Model) loadVersions() error {
	versions, err := m.svc.ListVersions(m.config, m.selectedPack)
	if err != nil {
		return err
	}
	m.versions = versions
	return nil
}

func (m *Model) loadEntries() error {
	entries, err := m.svc.ListEntries(m.config, m.selectedPack, m.selectedFile)
	if err != nil {
		return err
	}
	m.entries = entries
	return nil
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

type statusMsg struct {
	msg string
	err bool
}

type diffMsg struct {
	result *DiffResult
	err    error
}

type entryDiffMsg struct {
	result *EntryDiffResult
	err    error
}

func (m *Model) setError(format string, err error) {
	m.statusMsg = fmt.Sprintf(format, err)
	m.statusErr = true
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		m.statusMsg = msg.msg
		m.statusErr = msg.err
		return m, nil

	case diffMsg:
		if msg.err != nil {
			m.setError("Diff failed: %v", msg.err)
			m.view = VersionsView
			m.diffSelections = nil
		} else {
			m.diffResult = msg.result
			m.diffCursor = 0
			m.view = DiffResultView
			m.statusMsg = ""
		}
		return m, nil

	case entryDiffMsg:
		if msg.err != nil {
			m.setError("Entry diff failed: %v", msg.err)
		} else {
			m.entryDiff = msg.result
			m.entryDiffScroll = 0
			m.view = EntryDiffView
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		// Clear status on any key
		m.statusMsg = ""
		m.statusErr = false

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)

		case key.Matches(msg, keys.Down):
			m.moveCursor(1)

		case key.Matches(msg, keys.Enter):
			return m, m.enter()

		case key.Matches(msg, keys.Back):
			m.back()

		case key.Matches(msg, keys.Verify):
			if m.view == PacksView || m.view == VersionsView {
				return m, m.runVerify()
			}

		case key.Matches(msg, keys.Refresh):
			m.refresh()

		case key.Matches(msg, keys.Diff):
			if m.view == VersionsView && len(m.versions) >= 2 {
				m.view = DiffSelectView
				m.diffSelections = nil
				m.statusMsg = "Select 2 versions to compare (space to select)"
			}

		case key.Matches(msg, keys.Select):
			if m.view == DiffSelectView {
				return m, m.toggleDiffSelection()
			}

		case key.Matches(msg, keys.Swap):
			if m.view == EntryDiffView && m.entryDiff != nil {
				m.diffSwapped = !m.diffSwapped
			}
		}
	}

	return m, nil
}

func (m *Model) enter() tea.Cmd {
	switch m.view {
	case PacksView:
		if len(m.packs) == 0 {
			return nil
		}
		m.selectedPack = m.packs[m.packCursor].Slug
		if err := m.loadVersions(); err != nil {
			m.setError("Error: %v", err)
			return nil
		}
		m.view = VersionsView
		m.versionCursor = 0

	case VersionsView:
		if len(m.versions) == 0 {
			return nil
		}
		m.selectedFile = m.versions[m.versionCursor].File
		if err := m.loadEntries(); err != nil {
			m.setError("Error: %v", err)
			return nil
		}
		m.view = EntriesView
		m.entryCursor = 0

	case EntriesView:
		if len(m.entries) == 0 {
			return nil
		}
		name := m.entries[m.entryCursor].Name
		content, err := m.svc.ReadEntry(m.config, m.selectedPack, m.selectedFile, name)
		if err != nil {
			m.setError("Error: %v", err)
			return nil
		}
		m.previewName = name
		m.previewLines = splitLines(content)
		m.previewScroll = 0
		m.view = PreviewView

	case DiffResultView:
		if m.diffResult != nil && len(m.diffResult.Changes) > 0 {
			return m.computeEntryDiff(m.diffResult.Changes[m.diffCursor])
		}
	}
	return nil
}

func (m *Model) back() {
	switch m.view {
	case VersionsView:
		m.view = PacksView
		m.versions = nil
	case EntriesView:
		m.view = VersionsView
		m.entries = nil
	case PreviewView:
		m.view = EntriesView
		m.previewLines = nil
	case DiffSelectView:
		m.view = VersionsView
		m.diffSelections = nil
	case DiffResultView:
		m.view = VersionsView
		m.diffResult = nil
		m.diffSelections = nil
		m.diffCursor = 0
	case EntryDiffView:
		m.view = DiffResultView
		m.entryDiff = nil
		m.entryDiffScroll = 0
	}
}

func (m *Model) refresh() {
	if err := m.loadPacks(); err != nil {
		m.setError("Error: %v", err)
		return
	}
	if m.view == VersionsView {
		if err := m.loadVersions(); err != nil {
			m.setError("Error: %v", err)
			return
		}
		m.versionCursor = clamp(m.versionCursor, len(m.versions))
	}
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (m *Model) visibleHeight(reserved int) int {
	return max(m.height-reserved, 5)
}

func (m *Model) moveCursor(delta int) {
	switch m.view {
	case PacksView:
		m.packCursor = clamp(m.packCursor+delta, len(m.packs))
	case VersionsView, DiffSelectView:
		m.versionCursor = clamp(m.versionCursor+delta, len(m.versions))
	case EntriesView:
		m.entryCursor = clamp(m.entryCursor+delta, len(m.entries))
	case PreviewView:
		maxScroll := max(len(m.previewLines)-m.visibleHeight(10), 0)
		m.previewScroll = min(max(m.previewScroll+delta, 0), maxScroll)
	case DiffResultView:
		if m.diffResult != nil {
			m.diffCursor = clamp(m.diffCursor+delta, len(m.diffResult.Changes))
		}
	case EntryDiffView:
		if m.entryDiff != nil {
			maxScroll := max(len(m.entryDiff.Lines)-m.visibleHeight(12), 0)
			m.entryDiffScroll = min(max(m.entryDiffScroll+delta, 0), maxScroll)
		}
	}
}

func (m *Model) runVerify() tea.Cmd {
	var slug string
	if m.view == PacksView && len(m.packs) > 0 {
		slug = m.packs[m.packCursor].Slug
	} else if m.view == VersionsView {
		slug = m.selectedPack
	}

	svc, cfg := m.svc, m.config
	return func() tea.Msg {
		if slug == "" {
			return statusMsg{err: true, msg: "No pack selected"}
		}
		if err := svc.VerifyPack(cfg, slug); err != nil {
			return statusMsg{err: true, msg: fmt.Sprintf("✗ Verify failed: %v", err)}
		}
		return statusMsg{msg: fmt.Sprintf("✓ %s verified", slug)}
	}
}

func (m *Model) toggleDiffSelection() tea.Cmd {
	idx := m.versionCursor
	found := -1
	for i, sel := range m.diffSelections {
		if sel == idx {
			found = i
			break
		}
	}

	if found >= 0 {
		m.diffSelections = append(m.diffSelections[:found], m.diffSelections[found+1:]...)
	} else if len(m.diffSelections) < 2 {
		m.diffSelections = append(m.diffSelections, idx)
	}

	if len(m.diffSelections) != 2 {
		return nil
	}

	// Versions are listed newest first; compare older against newer.
	sel := append([]int(nil), m.diffSelections...)
	sort.Sort(sort.Reverse(sort.IntSlice(sel)))
	file1 := m.versions[sel[0]].File
	file2 := m.versions[sel[1]].File

	svc, cfg, slug := m.svc, m.config, m.selectedPack
	return func() tea.Msg {
		result, err := ComputeDiff(svc, cfg, slug, file1, file2)
		return diffMsg{result: result, err: err}
	}
}

func (m *Model) computeEntryDiff(change EntryChange) tea.Cmd {
	svc, cfg, slug, d := m.svc, m.config, m.selectedPack, m.diffResult
	return func() tea.Msg {
		result, err := ComputeEntryDiff(svc, cfg, slug, d, change)
		return entryDiffMsg{result: result, err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.view {
	case PacksView:
		content = m.renderPacksView()
	case VersionsView:
		content = m.renderVersionsView()
	case EntriesView:
		content = m.renderEntriesView()
	case PreviewView:
		content = m.renderPreviewView()
	case DiffSelectView:
		content = m.renderDiffSelectView()
	case DiffResultView:
		content = m.renderDiffResultView()
	case EntryDiffView:
		content = m.renderEntryDiffView()
	}

	return appStyle.Render(content)
}

// writeFooter pads the list to height rows and writes the status line and help.
func (m *Model) writeFooter(b *strings.Builder, rows, height int, help string) {
	for i := rows; i < height; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		if m.statusErr {
			b.WriteString(errorBadge.Render(m.statusMsg))
		} else {
			b.WriteString(successBadge.Render(m.statusMsg))
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))
}

// window returns the first visible row for a list scrolled to cursor.
func window(cursor, height int) int {
	if cursor >= height {
		return cursor - height + 1
	}
	return 0
}

func (m *Model) renderPacksView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" 🎬 autotube packs "))
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %-28s %8s %12s %s", "PACK", "VERSIONS", "SIZE", "LAST EXPORT")
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 70)))
	b.WriteString("\n")

	height := m.visibleHeight(10)
	if len(m.packs) == 0 {
		b.WriteString(dimStyle.Render("  No packs exported yet"))
		b.WriteString("\n")
	}

	start := window(m.packCursor, height)
	for i := start; i < len(m.packs) && i < start+height; i++ {
		p := m.packs[i]
		cursor, style := "  ", normalStyle
		if i == m.packCursor {
			cursor, style = "▸ ", selectedStyle
		}

		versions := "-"
		if p.Versions > 0 {
			versions = fmt.Sprintf("%d", p.Versions)
		}
		size := "-"
		if p.TotalSize > 0 {
			size = pack.FormatSize(p.TotalSize)
		}
		last := "-"
		if !p.LastExport.IsZero() {
			last = relativeTime(p.LastExport)
		}

		line := fmt.Sprintf("%s%-28s %8s %12s %s", cursor, truncate(p.Slug, 28), versions, size, last)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	m.writeFooter(&b, len(m.packs), height, "[↑/↓] navigate  [enter] versions  [v] verify  [r] refresh  [q] quit")
	return b.String()
}

func (m *Model) renderVersionsView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" 🎬 %s ", m.selectedPack)))
	b.WriteString("\n\n")

	height := m.visibleHeight(10)
	if len(m.versions) == 0 {
		b.WriteString(dimStyle.Render("  No versions found"))
		b.WriteString("\n\n")
	} else {
		header := fmt.Sprintf("  %-18s %10s %8s %s", "VERSION", "SIZE", "ENTRIES", "DIGEST")
		b.WriteString(dimStyle.Render(header))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(strings.Repeat("─", 60)))
		b.WriteString("\n")

		start := window(m.versionCursor, height)
		for i := start; i < len(m.versions) && i < start+height; i++ {
			v := m.versions[i]
			cursor, style := "  ", normalStyle
			if i == m.versionCursor {
				cursor, style = "▸ ", selectedStyle
			}

			line := fmt.Sprintf("%s%-18s %10s %8d %s",
				cursor, strings.TrimSuffix(v.File, ".zip"), pack.FormatSize(v.Size), v.EntryCount, shortDigest(v.Digest))
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}

	m.writeFooter(&b, len(m.versions), height, "[↑/↓] navigate  [enter] entries  [d] diff  [v] verify  [esc] back  [q] quit")
	return b.String()
}

func (m *Model) renderEntriesView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" 🎬 %s / %s ", m.selectedPack, strings.TrimSuffix(m.selectedFile, ".zip"))))
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %-24s %10s %s", "NAME", "SIZE", "CRC32")
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n")

	height := m.visibleHeight(10)
	start := window(m.entryCursor, height)
	for i := start; i < len(m.entries) && i < start+height; i++ {
		e := m.entries[i]
		cursor, style := "  ", normalStyle
		if i == m.entryCursor {
			cursor, style = "▸ ", selectedStyle
		}
		line := fmt.Sprintf("%s%-24s %10s %08x", cursor, truncate(e.Name, 24), pack.FormatSize(e.Size), e.CRC32)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	m.writeFooter(&b, len(m.entries), height, "[↑/↓] navigate  [enter] preview  [esc] back  [q] quit")
	return b.String()
}

func (m *Model) renderPreviewView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" 📄 %s ", m.previewName)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 70)))
	b.WriteString("\n")

	height := m.visibleHeight(10)
	end := min(m.previewScroll+height, len(m.previewLines))
	if len(m.previewLines) == 0 {
		b.WriteString(dimStyle.Render("  (empty)"))
		b.WriteString("\n")
	}
	for i := m.previewScroll; i < end; i++ {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%3d ", i+1)))
		b.WriteString(previewStyle.Render(truncate(m.previewLines[i], 70)))
		b.WriteString("\n")
	}
	if len(m.previewLines) > height {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  Lines %d-%d of %d", m.previewScroll+1, end, len(m.previewLines))))
		b.WriteString("\n")
	}

	m.writeFooter(&b, 0, 0, "[↑/↓] scroll  [esc] back  [q] quit")
	return b.String()
}

func (m *Model) renderDiffSelectView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" 🔍 %s - Select versions to compare ", m.selectedPack)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("     %-18s %10s %8s", "VERSION", "SIZE", "ENTRIES")
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 60)))
	b.WriteString("\n")

	isSelected := func(idx int) bool {
		for _, sel := range m.diffSelections {
			if sel == idx {
				return true
			}
		}
		return false
	}

	height := m.visibleHeight(10)
	start := window(m.versionCursor, height)
	for i := start; i < len(m.versions) && i < start+height; i++ {
		v := m.versions[i]
		cursor, style, checkbox := "  ", normalStyle, "[ ]"
		if i == m.versionCursor {
			cursor, style = "▸ ", selectedStyle
		}
		if isSelected(i) {
			checkbox = "[✓]"
		}

		line := fmt.Sprintf("%s%s %-18s %10s %8d",
			cursor, checkbox, strings.TrimSuffix(v.File, ".zip"), pack.FormatSize(v.Size), v.EntryCount)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	for i := len(m.versions); i < height; i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch len(m.diffSelections) {
	case 0:
		b.WriteString(dimStyle.Render("Select first version..."))
	case 1:
		b.WriteString(dimStyle.Render("Select second version..."))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[↑/↓] navigate  [space] select  [esc] cancel"))

	return b.String()
}

func (m *Model) renderDiffResultView() string {
	if m.diffResult == nil {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" 📊 Diff: %s vs %s ", m.diffResult.Version1, m.diffResult.Version2)))
	b.WriteString("\n\n")

	summary := fmt.Sprintf("  Modified: %d   Added: %d   Deleted: %d",
		m.diffResult.Modified, m.diffResult.Added, m.diffResult.Deleted)
	b.WriteString(dimStyle.Render(summary))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 70)))
	b.WriteString("\n")

	height := m.visibleHeight(10)
	if len(m.diffResult.Changes) == 0 {
		b.WriteString(dimStyle.Render("  No differences found"))
		b.WriteString("\n")
	}

	start := window(m.diffCursor, height)
	for i := start; i < len(m.diffResult.Changes) && i < start+height; i++ {
		c := m.diffResult.Changes[i]
		cursor, style := "  ", normalStyle
		if i == m.diffCursor {
			cursor, style = "▸ ", selectedStyle
		}
		line := fmt.Sprintf("%s%c %-24s %10s → %s",
			cursor, c.Status, c.Name, pack.FormatSize(c.Size1), pack.FormatSize(c.Size2))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	m.writeFooter(&b, len(m.diffResult.Changes), height, "[↑/↓] navigate  [enter] view diff  [esc] back  [q] quit")
	return b.String()
}

func (m *Model) renderEntryDiffView() string {
	if m.entryDiff == nil {
		return "Loading..."
	}

	var b strings.Builder

	v1, v2 := m.entryDiff.Version1, m.entryDiff.Version2
	if m.diffSwapped {
		v1, v2 = v2, v1
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf(" 📄 %s ", m.entryDiff.Name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-35s │ %-35s", v1, v2)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 75)))
	b.WriteString("\n")

	switch {
	case m.entryDiff.Error != "":
		b.WriteString(errorBadge.Render(m.entryDiff.Error))
		b.WriteString("\n")
	case m.entryDiff.IsBinary:
		b.WriteString(dimStyle.Render("  Binary content - diff not available"))
		b.WriteString("\n")
	case len(m.entryDiff.Lines) == 0:
		b.WriteString(dimStyle.Render("  No differences"))
		b.WriteString("\n")
	default:
		height := m.visibleHeight(12)
		end := min(m.entryDiffScroll+height, len(m.entryDiff.Lines))

		for i := m.entryDiffScroll; i < end; i++ {
			line := m.entryDiff.Lines[i]

			ln1, ln2 := "   ", "   "
			if line.LineNum1 > 0 {
				ln1 = fmt.Sprintf("%3d", line.LineNum1)
			}
			if line.LineNum2 > 0 {
				ln2 = fmt.Sprintf("%3d", line.LineNum2)
			}
			if m.diffSwapped {
				ln1, ln2 = ln2, ln1
			}

			content := truncate(line.Content, 60)
			switch line.Type {
			case '+':
				b.WriteString(addedStyle.Render(fmt.Sprintf("%s  + │ %s  + %s", ln1, ln2, content)))
			case '-':
				b.WriteString(deletedStyle.Render(fmt.Sprintf("%s  - │ %s  - %s", ln1, ln2, content)))
			default:
				b.WriteString(dimStyle.Render(fmt.Sprintf("%s    │ %s    %s", ln1, ln2, content)))
			}
			b.WriteString("\n")
		}

		if len(m.entryDiff.Lines) > height {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  Lines %d-%d of %d",
				m.entryDiffScroll+1, end, len(m.entryDiff.Lines))))
			b.WriteString("\n")
		}
	}

	m.writeFooter(&b, 0, 0, "[↑/↓] scroll  [s] swap sides  [esc] back  [q] quit")
	return b.String()
}

// Run starts the TUI
func Run() error {
	m, err := NewModelWithService(tuisvc.New())
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Helper functions
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// shortDigest drops the algorithm prefix and keeps 12 hex characters.
func shortDigest(d string) string {
	if _, hex, ok := strings.Cut(d, ":"); ok {
		d = hex
	}
	if len(d) > 12 {
		d = d[:12]
	}
	if d == "" {
		return "-"
	}
	return d
}

func relativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
