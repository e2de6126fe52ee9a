// Package ui wires the windowed renderer into a Bubble Tea program for
// browsing conversation logs.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/user/windowlist/internal/components/style"
	"github.com/user/windowlist/internal/components/window"
	"github.com/user/windowlist/internal/core"
	"github.com/user/windowlist/internal/logstore"
	"github.com/user/windowlist/internal/ui/views"
)

// filterSettle is how long typing may pause before the filter is applied.
const filterSettle = 150 * time.Millisecond

// KeyMap defines the key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Filter   key.Binding
	Sort     key.Binding
	Yank     key.Binding
	Sync     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy top entry"),
		),
		Sync: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sync log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// repaintMsg asks for a redraw once a debounced render had time to land.
type repaintMsg struct{}

// filterSettledMsg fires when typing in the filter prompt has paused.
type filterSettledMsg struct {
	seq int
}

// syncDoneMsg reports the outcome of a background sync.
type syncDoneMsg struct {
	entries int
	err     error
}

// App is the main application model.
type App struct {
	state  *core.State
	config *core.Config
	keys   KeyMap
	styles *style.Manager

	list     *views.ListView
	renderer *window.Renderer[logstore.Entry]
	store    *logstore.Store
	syncer   *logstore.Syncer
	entries  []logstore.Entry

	filterInput textinput.Model
	filtering   bool
	filterSeq   int

	// UI state
	width     int
	height    int
	ready     bool
	showHelp  bool
	syncing   bool
	status    string
	statusErr bool
}

// NewApp creates the application around an opened log store.
func NewApp(state *core.State, config *core.Config, store *logstore.Store, syncer *logstore.Syncer) (*App, error) {
	styles := style.NewManagerWithScheme(config.ColorScheme)

	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "filter entries"
	input.CharLimit = 128

	a := &App{
		state:       state,
		config:      config,
		keys:        DefaultKeyMap(),
		styles:      styles,
		list:        views.NewListView(styles),
		store:       store,
		syncer:      syncer,
		filterInput: input,
	}

	opts := window.Options[logstore.Entry]{
		Viewport:   a.list,
		Surface:    a.list,
		ItemHeight: float64(config.ItemHeight),
		Buffer:     config.Buffer,
		Debounce:   time.Duration(config.DebounceMS) * time.Millisecond,
		RenderItem: a.renderEntry,
	}
	renderer, err := window.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create window renderer: %w", err)
	}
	a.renderer = renderer

	a.loadScenario(state.Scenario)
	return a, nil
}

// Renderer exposes the windowed renderer, mainly for tests.
func (a *App) Renderer() *window.Renderer[logstore.Entry] { return a.renderer }

// loadScenario points the list at a scenario's entries.
func (a *App) loadScenario(scenario string) {
	if scenario == "" {
		if names := a.store.Scenarios(); len(names) > 0 {
			scenario = names[0]
		}
	}
	a.state.Scenario = scenario
	a.entries = a.store.Entries(scenario)
	a.renderer.SetItems(a.entries)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return a, a.scroll(-3)
		case tea.MouseButtonWheelDown:
			return a, a.scroll(3)
		}
		return a, nil

	case tea.KeyMsg:
		if a.filtering {
			return a.updateFilterPrompt(msg)
		}
		return a.updateKeys(msg)

	case filterSettledMsg:
		if msg.seq == a.filterSeq {
			a.applyFilter(a.filterInput.Value())
		}
		return a, nil

	case syncDoneMsg:
		a.syncing = false
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("sync failed: %v", msg.err), true)
			a.state.SetSyncStatus("failed")
		} else {
			a.setStatus(fmt.Sprintf("synced %d entries", msg.entries), false)
			a.state.SetSyncStatus("ok")
		}
		return a, nil

	case repaintMsg:
		// Nothing to do: View picks up whatever the debounced render applied.
		return a, nil
	}

	return a, nil
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.renderer.Destroy()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Up):
		return a, a.scroll(-1)

	case key.Matches(msg, a.keys.Down):
		return a, a.scroll(1)

	case key.Matches(msg, a.keys.PageUp):
		return a, a.scrollPage(-1)

	case key.Matches(msg, a.keys.PageDown):
		return a, a.scrollPage(1)

	case key.Matches(msg, a.keys.Top):
		if a.list.GotoTop() {
			a.renderer.NotifyScroll()
			return a, a.repaintLater()
		}
		return a, nil

	case key.Matches(msg, a.keys.Bottom):
		if a.list.GotoBottom() {
			a.renderer.NotifyScroll()
			return a, a.repaintLater()
		}
		return a, nil

	case key.Matches(msg, a.keys.Filter):
		a.filtering = true
		a.filterInput.SetValue(a.state.GetFilterQuery())
		a.filterInput.CursorEnd()
		a.layout()
		return a, a.filterInput.Focus()

	case key.Matches(msg, a.keys.Sort):
		mode := a.state.CycleSortMode()
		a.renderer.SortItems(comparatorFor(mode))
		a.setStatus(fmt.Sprintf("sorted by %s", strings.ToLower(string(mode))), false)
		return a, nil

	case key.Matches(msg, a.keys.Yank):
		return a, a.yankTopEntry()

	case key.Matches(msg, a.keys.Sync):
		return a, a.startSync()

	case key.Matches(msg, a.keys.Help):
		a.showHelp = !a.showHelp
		return a, nil
	}

	return a, nil
}

func (a *App) updateFilterPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.filtering = false
		a.filterInput.Blur()
		a.layout()
		a.applyFilter("")
		return a, nil
	case "enter":
		a.filtering = false
		a.filterInput.Blur()
		a.layout()
		a.applyFilter(a.filterInput.Value())
		return a, nil
	}

	before := a.filterInput.Value()
	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	if a.filterInput.Value() == before {
		return a, cmd
	}

	// Re-filtering on every keystroke would churn; wait for typing to pause.
	a.filterSeq++
	seq := a.filterSeq
	settle := tea.Tick(filterSettle, func(time.Time) tea.Msg {
		return filterSettledMsg{seq: seq}
	})
	return a, tea.Batch(cmd, settle)
}

// scroll moves the list and notifies the renderer; the repaint tick lands
// after the debounced recomputation has had a chance to run.
func (a *App) scroll(delta float64) tea.Cmd {
	if !a.list.ScrollBy(delta) {
		return nil
	}
	a.renderer.NotifyScroll()
	return a.repaintLater()
}

func (a *App) scrollPage(direction int) tea.Cmd {
	moved := false
	if direction < 0 {
		moved = a.list.PageUp()
	} else {
		moved = a.list.PageDown()
	}
	if !moved {
		return nil
	}
	a.renderer.NotifyScroll()
	return a.repaintLater()
}

func (a *App) repaintLater() tea.Cmd {
	delay := time.Duration(a.config.DebounceMS)*time.Millisecond + 2*time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return repaintMsg{}
	})
}

// applyFilter narrows the visible entries with a fuzzy match over speaker and
// text. An empty query restores the full view.
func (a *App) applyFilter(query string) {
	query = strings.TrimSpace(query)
	a.state.SetFilterQuery(query)

	if query == "" {
		a.renderer.FilterItems(func(logstore.Entry) bool { return true })
		a.setStatus("", false)
		return
	}

	matches := fuzzy.FindFrom(query, entrySource(a.entries))
	matched := make(map[string]bool, len(matches))
	for _, m := range matches {
		matched[a.entries[m.Index].ID] = true
	}
	a.renderer.FilterItems(func(e logstore.Entry) bool { return matched[e.ID] })
	a.setStatus(fmt.Sprintf("%d/%d entries match %q", a.renderer.VisibleLen(), len(a.entries), query), false)
}

// entrySource adapts entries for fuzzy matching.
type entrySource []logstore.Entry

func (s entrySource) String(i int) string { return s[i].Speaker + " " + s[i].Text }
func (s entrySource) Len() int            { return len(s) }

func comparatorFor(mode core.SortMode) func(a, b logstore.Entry) int {
	switch mode {
	case core.SortBySpeaker:
		return func(a, b logstore.Entry) int { return strings.Compare(a.Speaker, b.Speaker) }
	case core.SortByLength:
		// Longest first.
		return func(a, b logstore.Entry) int { return len(b.Text) - len(a.Text) }
	default:
		return func(a, b logstore.Entry) int { return a.Time.Compare(b.Time) }
	}
}

func (a *App) yankTopEntry() tea.Cmd {
	el, ok := a.list.TopElement()
	if !ok {
		return nil
	}
	entry, ok := a.renderer.ItemAt(el.Index)
	if !ok {
		return nil
	}
	if err := clipboard.WriteAll(entry.Text); err != nil {
		a.setStatus(fmt.Sprintf("copy failed: %v", err), true)
		return nil
	}
	a.setStatus(fmt.Sprintf("copied entry %d", el.Index), false)
	return nil
}

func (a *App) startSync() tea.Cmd {
	if a.syncing {
		return nil
	}
	if !a.syncer.Enabled() {
		a.setStatus("no sync URL configured", true)
		return nil
	}
	a.syncing = true
	a.setStatus("syncing...", false)

	store := a.store
	syncer := a.syncer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := syncer.Sync(ctx, store)
		return syncDoneMsg{entries: store.Len(), err: err}
	}
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// layout sizes the list to the space left by the chrome and tells the
// renderer the content box changed.
func (a *App) layout() {
	if !a.ready {
		return
	}
	a.list.SetSize(a.width, a.height-a.chromeHeight())
	a.renderer.NotifyResize()
}

// chromeHeight is the number of rows used by header, status and the filter
// prompt when open.
func (a *App) chromeHeight() int {
	h := 3 // two header rows (title + border), one status row
	if a.filtering {
		h++
	}
	return h
}

// renderEntry produces the fixed-height body for one log entry.
func (a *App) renderEntry(e logstore.Entry, index int) string {
	width := a.list.Width() - 2
	if width < 8 {
		width = 8
	}

	head := fmt.Sprintf("%s  %s",
		a.styles.SpeakerCell(e.Speaker).Render(runewidth.FillRight(e.Speaker, 10)),
		e.Time.Format("2006-01-02 15:04:05"),
	)

	if a.config.ItemHeight == 1 {
		text := runewidth.Truncate(e.Text, width-12, "…")
		return fmt.Sprintf("%s %s", a.styles.SpeakerCell(e.Speaker).Render(runewidth.FillRight(e.Speaker, 10)), a.styles.RowText().Render(text))
	}

	lines := make([]string, 0, a.config.ItemHeight)
	lines = append(lines, head)
	body := runewidth.Truncate(strings.ReplaceAll(e.Text, "\n", " "), width-2, "…")
	lines = append(lines, "  "+a.styles.RowText().Render(body))
	for len(lines) < a.config.ItemHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines[:a.config.ItemHeight], "\n")
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(a.header())
	b.WriteByte('\n')

	if a.showHelp {
		b.WriteString(a.helpView())
	} else {
		b.WriteString(a.list.View())
	}
	b.WriteByte('\n')

	if a.filtering {
		b.WriteString(a.styles.FilterBar(a.width).Render(a.filterInput.View()))
		b.WriteByte('\n')
	}
	b.WriteString(a.statusLine())
	return b.String()
}

func (a *App) header() string {
	scenario := a.state.Scenario
	if scenario == "" {
		scenario = "(none)"
	}
	title := fmt.Sprintf("windowlist · %s  %d/%d entries  sort:%s  %3.0f%%",
		scenario,
		a.renderer.VisibleLen(),
		len(a.entries),
		strings.ToLower(string(a.state.SortMode)),
		a.list.ScrollPercent()*100,
	)
	return a.styles.HeaderBar(a.width).Render(title)
}

func (a *App) statusLine() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.StatusError().Render(a.status)
		}
		return a.styles.StatusSuccess().Render(a.status)
	}
	return a.styles.StatusInfo().Render("j/k scroll · / filter · s sort · y copy · S sync · ? help · q quit")
}

func (a *App) helpView() string {
	keys := []key.Binding{
		a.keys.Up, a.keys.Down, a.keys.PageUp, a.keys.PageDown,
		a.keys.Top, a.keys.Bottom, a.keys.Filter, a.keys.Sort,
		a.keys.Yank, a.keys.Sync, a.keys.Help, a.keys.Quit,
	}
	rows := a.height - a.chromeHeight()
	if rows <= 0 {
		return ""
	}
	lines := make([]string, 0, len(keys)+2)
	lines = append(lines, "", "  Keyboard shortcuts")
	for _, k := range keys {
		h := k.Help()
		lines = append(lines, fmt.Sprintf("  %-10s %s", h.Key, h.Desc))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines[:rows], "\n")
}
