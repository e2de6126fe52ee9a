package ui

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/windowlist/internal/core"
	"github.com/user/windowlist/internal/logstore"
)

// newTestApp builds an app over a seeded store. Entries alternate between an
// "alpha" and a "beta" topic so fuzzy filter tests have a clean split.
func newTestApp(t *testing.T, entries int) *App {
	t.Helper()

	cfg, err := core.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	cfg.LogPath = filepath.Join(t.TempDir(), "conversations.json")
	cfg.Scenario = "demo"

	store, err := logstore.Open(cfg.LogPath)
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < entries; i++ {
		speaker, topic := "user", "alpha"
		if i%2 == 1 {
			speaker, topic = "assistant", "beta"
		}
		require.NoError(t, store.Append(logstore.Entry{
			Scenario: "demo",
			Speaker:  speaker,
			Text:     fmt.Sprintf("%s message %03d", topic, i),
			Time:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	app, err := NewApp(core.NewState(cfg), cfg, store, logstore.NewSyncer(""))
	require.NoError(t, err)
	return app
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// resize drives the usual first message a program receives.
func resize(app *App, width, height int) {
	app.Update(tea.WindowSizeMsg{Width: width, Height: height})
}

func TestAppInitialWindow(t *testing.T) {
	app := newTestApp(t, 100)
	resize(app, 80, 27) // 24 list rows after chrome

	// ItemHeight 2, viewport 24 rows, buffer 5: the window covers the first
	// 17 entries before any scrolling.
	r := app.Renderer().LastRange()
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 17, r.End)
	assert.Contains(t, app.View(), "alpha message 000")
	assert.Contains(t, app.View(), "windowlist · demo")
}

func TestAppScrollRecomputesWindow(t *testing.T) {
	app := newTestApp(t, 100)
	resize(app, 80, 27)

	_, cmd := app.Update(keyMsg("G"))
	assert.NotNil(t, cmd, "jump to bottom schedules a repaint")

	// The recomputation is debounced on the renderer's own clock.
	time.Sleep(60 * time.Millisecond)

	// Extent 200 rows, viewport 24: bottom offset is 176, so the window
	// starts at floor(176/2)-5 and runs to the end of the list.
	r := app.Renderer().LastRange()
	assert.Equal(t, 83, r.Start)
	assert.Equal(t, 100, r.End)
}

func TestAppArrowScrollCollapses(t *testing.T) {
	app := newTestApp(t, 100)
	resize(app, 80, 27)

	for i := 0; i < 20; i++ {
		app.Update(keyMsg("j"))
	}
	time.Sleep(60 * time.Millisecond)

	// 20 rows down with ItemHeight 2: start = floor(20/2) - 5.
	r := app.Renderer().LastRange()
	assert.Equal(t, 5, r.Start)
}

func TestAppFilterFlow(t *testing.T) {
	app := newTestApp(t, 100)
	resize(app, 80, 27)

	app.Update(keyMsg("/"))
	assert.True(t, app.filtering)

	for _, r := range "alpha" {
		app.Update(keyMsg(string(r)))
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, app.filtering)
	assert.Equal(t, 50, app.Renderer().VisibleLen())
	assert.Equal(t, "alpha", app.state.GetFilterQuery())

	// Esc from a fresh prompt clears the filter entirely.
	app.Update(keyMsg("/"))
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 100, app.Renderer().VisibleLen())
	assert.Equal(t, "", app.state.GetFilterQuery())
}

func TestAppSortCycle(t *testing.T) {
	app := newTestApp(t, 10)
	resize(app, 80, 27)

	app.Update(keyMsg("s"))
	assert.Equal(t, core.SortBySpeaker, app.state.SortMode)

	first, ok := app.Renderer().ItemAt(0)
	require.True(t, ok)
	assert.Equal(t, "assistant", first.Speaker)

	// Length sort puts the longer alpha texts first.
	app.Update(keyMsg("s"))
	assert.Equal(t, core.SortByLength, app.state.SortMode)
	first, ok = app.Renderer().ItemAt(0)
	require.True(t, ok)
	assert.Contains(t, first.Text, "alpha")

	// Back to chronological.
	app.Update(keyMsg("s"))
	assert.Equal(t, core.SortChronological, app.state.SortMode)
	first, ok = app.Renderer().ItemAt(0)
	require.True(t, ok)
	assert.Contains(t, first.Text, "000")
}

func TestAppSyncDisabled(t *testing.T) {
	app := newTestApp(t, 5)
	resize(app, 80, 27)

	_, cmd := app.Update(keyMsg("S"))
	assert.Nil(t, cmd)
	assert.Contains(t, app.View(), "no sync URL configured")
}

func TestAppSyncReportsOutcome(t *testing.T) {
	app := newTestApp(t, 5)
	resize(app, 80, 27)

	app.Update(syncDoneMsg{entries: 5})
	assert.Contains(t, app.View(), "synced 5 entries")
	assert.Equal(t, "ok", app.state.GetSyncStatus())

	app.Update(syncDoneMsg{err: fmt.Errorf("connection refused")})
	assert.Contains(t, app.View(), "sync failed")
	assert.Equal(t, "failed", app.state.GetSyncStatus())
}

func TestAppHelpToggle(t *testing.T) {
	app := newTestApp(t, 5)
	resize(app, 80, 27)

	app.Update(keyMsg("?"))
	assert.Contains(t, app.View(), "Keyboard shortcuts")

	app.Update(keyMsg("?"))
	assert.NotContains(t, app.View(), "Keyboard shortcuts")
}

func TestAppQuitDestroysRenderer(t *testing.T) {
	app := newTestApp(t, 5)
	resize(app, 80, 27)

	_, cmd := app.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// The renderer is torn down; further notifications are no-ops.
	before := app.Renderer().LastRange()
	app.Renderer().NotifyResize()
	assert.Equal(t, before, app.Renderer().LastRange())
}

func TestAppEmptyScenario(t *testing.T) {
	app := newTestApp(t, 0)
	resize(app, 80, 27)

	assert.Equal(t, 0, app.Renderer().VisibleLen())
	assert.NotEmpty(t, app.View())
}
