// Package tui provides the BubbleTea-based terminal user interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/aether/internal/engine"
	"github.com/jmylchreest/aether/internal/journal"
	"github.com/jmylchreest/aether/internal/preview"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/state"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModePreview
	ModeSearch
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	// Collaborators
	loader       *scheme.Loader
	engine       *engine.Engine
	clipboardCmd string

	// Current mode
	mode Mode

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	// State
	infos         []scheme.Info
	selected      *scheme.Info
	searchQuery   string
	variantFilter string
	userOnly      bool
	currentName   string
	width         int
	height        int
	ready         bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// schemeItem wraps a scheme info for the list component.
type schemeItem struct {
	info    scheme.Info
	index   int
	current bool
}

func (i schemeItem) Title() string {
	return i.info.Name
}

func (i schemeItem) Description() string {
	variant := i.info.Variant
	if variant == "" {
		variant = "-"
	}
	source := "bundled"
	if !i.info.IsBundled {
		source = "user"
	}
	desc := variant + " | " + source
	if i.info.Author != "" {
		desc += " | by " + i.info.Author
	}
	return desc
}

func (i schemeItem) FilterValue() string {
	return i.info.Name + " " + i.info.Author + " " + i.info.Variant
}

// schemeDelegate is a custom list delegate for styling scheme entries.
type schemeDelegate struct {
	list.DefaultDelegate
}

// newSchemeDelegate creates a new scheme delegate.
func newSchemeDelegate() schemeDelegate {
	d := list.NewDefaultDelegate()
	return schemeDelegate{DefaultDelegate: d}
}

// Render renders a list item, marking the currently applied scheme.
// All items are rendered consistently to avoid visual glitches.
func (d schemeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(schemeItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	// Check if this item is selected
	isSelected := index == m.Index()

	// Get item width from the list
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	// Styles
	var titleStyle, descStyle lipgloss.Style

	if si.current {
		// Applied scheme: green title
		if isSelected {
			titleStyle = d.DefaultDelegate.Styles.SelectedTitle.
				Foreground(lipgloss.Color("10"))
			descStyle = d.DefaultDelegate.Styles.SelectedDesc
		} else {
			titleStyle = d.DefaultDelegate.Styles.NormalTitle.
				Foreground(lipgloss.Color("10"))
			descStyle = d.DefaultDelegate.Styles.NormalDesc
		}
	} else {
		if isSelected {
			titleStyle = d.DefaultDelegate.Styles.SelectedTitle
			descStyle = d.DefaultDelegate.Styles.SelectedDesc
		} else {
			titleStyle = d.DefaultDelegate.Styles.NormalTitle
			descStyle = d.DefaultDelegate.Styles.NormalDesc
		}
	}

	// Build title with applied marker
	title := si.Title()
	if si.current {
		title = "* " + title
	}

	// Truncate if needed
	if itemWidth > 0 && len(title) > itemWidth {
		title = title[:itemWidth-1] + "…"
	}

	desc := si.Description()
	if itemWidth > 0 && len(desc) > itemWidth {
		desc = desc[:itemWidth-1] + "…"
	}

	// Render using the same structure as DefaultDelegate
	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// New creates a new TUI model.
func New(loader *scheme.Loader, eng *engine.Engine, clipboardCmd string) Model {
	// Initialize components with custom delegate for styling
	delegate := newSchemeDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Color Schemes"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	h := help.New()

	keys := DefaultKeyMap()

	return Model{
		loader:       loader,
		engine:       eng,
		clipboardCmd: clipboardCmd,
		mode:         ModeList,
		list:         l,
		searchInput:  searchInput,
		help:         h,
		keys:         keys,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.loadSchemes
}

// loadSchemes triggers a listing refresh.
func (m Model) loadSchemes() tea.Msg {
	return loadSchemesMsg{}
}

type loadSchemesMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Update component sizes
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2

		return m, nil

	case loadSchemesMsg:
		m.infos = m.loader.ListSchemes()
		m.currentName = appliedSchemeName()
		m.list.SetItems(m.buildListItems())
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Copied to clipboard", isErr: false}
		}

	case applyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Apply failed: " + msg.err.Error(), isErr: true}
			}
		}
		m.currentName = msg.name
		m.list.SetItems(m.buildListItems())
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Applied %s: %s", msg.name, msg.summary), isErr: false}
		}
	}

	// Update child components
	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModePreview:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case ModeSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

type applyResultMsg struct {
	name    string
	summary string
	err     error
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	// Mode-specific keys
	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModePreview:
		return m.handlePreviewKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Apply):
		if item, ok := m.list.SelectedItem().(schemeItem); ok {
			return m, m.applyScheme(item.info)
		}
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		if item, ok := m.list.SelectedItem().(schemeItem); ok {
			s, err := resolveScheme(item.info)
			if err != nil {
				return m, statusCmd("Preview failed: "+err.Error(), true)
			}
			rendered, err := preview.Render(s)
			if err != nil {
				return m, statusCmd("Preview failed: "+err.Error(), true)
			}
			info := item.info
			m.selected = &info
			m.mode = ModePreview
			m.viewport.SetContent(rendered)
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyName):
		if item, ok := m.list.SelectedItem().(schemeItem); ok {
			return m, m.copyToClipboard(item.info.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyTOML):
		if item, ok := m.list.SelectedItem().(schemeItem); ok {
			s, err := resolveScheme(item.info)
			if err != nil {
				return m, statusCmd("Copy failed: "+err.Error(), true)
			}
			data, err := s.Encode()
			if err != nil {
				return m, statusCmd("Copy failed: "+err.Error(), true)
			}
			return m, m.copyToClipboard(string(data))
		}
		return m, nil

	case key.Matches(msg, m.keys.Variant):
		m.variantFilter = cycleVariant(m.variantFilter)
		m.list.SetItems(m.buildListItems())
		return m, statusCmd("Variant filter: "+variantFilterLabel(m.variantFilter), false)

	case key.Matches(msg, m.keys.UserOnly):
		m.userOnly = !m.userOnly
		m.list.SetItems(m.buildListItems())
		if m.userOnly {
			return m, statusCmd("Showing user schemes only", false)
		}
		return m, statusCmd("Showing all schemes", false)

	case key.Matches(msg, m.keys.Search):
		// Reset search when entering search mode
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadSchemes
	}

	// Pass to list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handlePreviewKey handles keys in preview mode.
func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		if m.selected != nil {
			return m, m.applyScheme(*m.selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyName):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		// Go to search mode, reset search and show full list
		m.selected = nil
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	// Pass to viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in search mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Esc exits search mode and clears search
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		// Enter applies the selected scheme (the picker flow)
		if item, ok := m.list.SelectedItem().(schemeItem); ok {
			m.mode = ModeList
			m.searchInput.Blur()
			return m, m.applyScheme(item.info)
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		// Allow navigating the list while searching
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	// Pass to text input
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filtering: update search query and rebuild list on each keystroke
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())

	return m, cmd
}

// statusCmd produces a status bar message.
func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// appliedSchemeName reads the name of the last applied scheme, if any.
func appliedSchemeName() string {
	st, err := state.Load()
	if err != nil || !st.HasScheme() {
		return ""
	}
	return st.SchemeName
}

// resolveScheme loads full scheme content for an info entry without
// changing the loader's current scheme.
func resolveScheme(info scheme.Info) (*scheme.Scheme, error) {
	if info.Path != "" {
		return scheme.Load(info.Path)
	}
	if s, found := scheme.GetEmbeddedScheme(info.Name); found {
		return s, nil
	}
	return nil, fmt.Errorf("scheme %q not found", info.Name)
}

// applyScheme applies a scheme through the engine.
func (m Model) applyScheme(info scheme.Info) tea.Cmd {
	eng := m.engine
	loader := m.loader
	return func() tea.Msg {
		if eng == nil {
			return applyResultMsg{name: info.Name, err: fmt.Errorf("no apply engine configured")}
		}
		s, err := loader.LoadScheme(info.Name)
		if err != nil {
			return applyResultMsg{name: info.Name, err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, results, err := eng.Apply(ctx, s, engine.ApplyOptions{Trigger: journal.TriggerTUI})
		if err != nil {
			return applyResultMsg{name: info.Name, err: err}
		}
		return applyResultMsg{name: s.Name, summary: engine.Summarize(results)}
	}
}

// buildListItems creates list items from the current listing and filters.
func (m Model) buildListItems() []list.Item {
	infos := filterInfos(m.infos, m.variantFilter, m.userOnly, m.searchQuery)

	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = schemeItem{
			info:    info,
			index:   i,
			current: m.currentName != "" && info.Name == m.currentName,
		}
	}
	return items
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := copyText(text, m.clipboardCmd)
		return copyResultMsg{err: err}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModePreview:
		return m.viewPreview()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	var s string
	s += m.list.View()

	// Status bar
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, "list")
	}

	return s
}

func (m Model) viewPreview() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	title := "Scheme Preview"
	if m.selected != nil {
		title = "Preview: " + m.selected.Name
	}
	header := headerStyle.Render(title)

	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, "preview")
}

func (m Model) viewSearch() string {
	matchCount := len(m.list.Items())
	countStr := fmt.Sprintf("(%d matches)", matchCount)

	// Show search bar at top, then the filtered list, then keybinds
	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, "search")
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  g/G") + "          Go to top/bottom\n"
	s += keyStyle.Render("  pgup/pgdn") + "    Page up/down\n"
	s += "\n"

	s += sectionStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  enter") + "        Apply selected scheme\n"
	s += keyStyle.Render("  p/space") + "      Preview palette and highlighting\n"
	s += keyStyle.Render("  c") + "            Copy scheme name to clipboard\n"
	s += keyStyle.Render("  C") + "            Copy scheme as TOML\n"
	s += keyStyle.Render("  v") + "            Cycle variant filter (all/dark/light)\n"
	s += keyStyle.Render("  u") + "            Toggle user schemes only\n"
	s += keyStyle.Render("  /") + "            Search by name or author\n"
	s += keyStyle.Render("  r") + "            Refresh listing from disk\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  esc") + "          Back / Cancel\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

	return s
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "list", "preview", "search"
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind

	switch mode {
	case "list":
		// Priority order for list mode (most important first)
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "apply", 2},
			{"p", "preview", 3},
			{"?", "help", 4},
			{"/", "search", 5},
			{"v", "variant", 6},
			{"c", "copy", 7},
			{"C", "toml", 8},
			{"u", "user", 9},
			{"r", "refresh", 10},
		}
	case "preview":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"enter", "apply", 3},
			{"c", "copy name", 4},
			{"j/k", "scroll", 5},
		}
	case "search":
		binds = []keybind{
			{"enter", "apply", 1},
			{"esc", "close", 2},
			{"↑/↓", "navigate", 3},
		}
	}

	// Build the bar, adding keybinds until we run out of space
	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		plainItem := b.key + " " + b.desc
		testLen := len(result) + len(separator) + len(plainItem)
		if result != "" {
			testLen = len(stripANSI(result)) + len(separator) + len(plainItem)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// stripANSI removes ANSI escape codes for length calculation.
func stripANSI(s string) string {
	result := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Loader           *scheme.Loader
	Engine           *engine.Engine
	ClipboardCommand string
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	loader := opts.Loader
	if loader == nil {
		loader = scheme.NewLoader(nil)
	}

	m := New(loader, opts.Engine, opts.ClipboardCommand)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()
	return err
}
