// Package style handles theming for the list UI.
package style

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Manager hands out cached lipgloss styles for the current theme.
type Manager struct {
	theme *Theme
	cache map[string]lipgloss.Style
	mu    sync.RWMutex
}

// Theme defines a named color scheme.
type Theme struct {
	Name        string
	Description string
	Colors      *ColorScheme
}

// ColorScheme defines the color palette.
type ColorScheme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color

	Selection *SelectionColors
	Speaker   *SpeakerColors
	UI        *UIColors
}

// SelectionColors for highlighted rows.
type SelectionColors struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
}

// SpeakerColors distinguish conversation participants in the list.
type SpeakerColors struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	System    lipgloss.Color
	Unknown   lipgloss.Color
}

// UIColors for chrome elements.
type UIColors struct {
	Border    lipgloss.Color
	Header    lipgloss.Color
	Info      lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Scrollbar lipgloss.Color
	Filler    lipgloss.Color
}

// NewManager creates a style manager with the default theme.
func NewManager() *Manager {
	return &Manager{
		theme: getDefaultTheme(),
		cache: make(map[string]lipgloss.Style),
	}
}

// NewManagerWithScheme creates a manager for the named color scheme, falling
// back to the default theme for unknown names.
func NewManagerWithScheme(scheme string) *Manager {
	m := NewManager()
	switch strings.ToLower(scheme) {
	case "light":
		m.SetTheme(GetLightTheme())
	}
	return m
}

// SetTheme sets the current theme and drops cached styles.
func (m *Manager) SetTheme(theme *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.theme = theme
	m.cache = make(map[string]lipgloss.Style)
}

// GetTheme returns the current theme.
func (m *Manager) GetTheme() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// SpeakerCell returns the style for a row attributed to the given speaker.
func (m *Manager) SpeakerCell(speaker string) lipgloss.Style {
	m.mu.Lock()
	defer m.mu.Unlock()

	cacheKey := fmt.Sprintf("speaker_%s", speaker)
	if style, ok := m.cache[cacheKey]; ok {
		return style
	}

	style := lipgloss.NewStyle().Foreground(m.getSpeakerColor(speaker)).Bold(true)
	m.cache[cacheKey] = style
	return style
}

// RowText returns the style for row body text.
func (m *Manager) RowText() lipgloss.Style {
	m.mu.Lock()
	defer m.mu.Unlock()

	if style, ok := m.cache["row_text"]; ok {
		return style
	}
	style := lipgloss.NewStyle().Foreground(m.theme.Colors.Foreground)
	m.cache["row_text"] = style
	return style
}

// HeaderBar returns the style for the top status bar at the given width.
func (m *Manager) HeaderBar(width int) lipgloss.Style {
	m.mu.Lock()
	defer m.mu.Unlock()

	cacheKey := fmt.Sprintf("header_%d", width)
	if style, ok := m.cache[cacheKey]; ok {
		return style
	}

	style := lipgloss.NewStyle().
		Width(width).
		Bold(true).
		Foreground(m.theme.Colors.UI.Header).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.Colors.UI.Border)

	m.cache[cacheKey] = style
	return style
}

// FilterBar returns the style for the filter input line.
func (m *Manager) FilterBar(width int) lipgloss.Style {
	m.mu.Lock()
	defer m.mu.Unlock()

	cacheKey := fmt.Sprintf("filter_%d", width)
	if style, ok := m.cache[cacheKey]; ok {
		return style
	}

	style := lipgloss.NewStyle().
		Width(width).
		Foreground(m.theme.Colors.UI.Info)

	m.cache[cacheKey] = style
	return style
}

// StatusInfo returns the style for informational status text.
func (m *Manager) StatusInfo() lipgloss.Style {
	return m.uiStyle("status_info", func(ui *UIColors) lipgloss.Color { return ui.Info })
}

// StatusError returns the style for error status text.
func (m *Manager) StatusError() lipgloss.Style {
	return m.uiStyle("status_error", func(ui *UIColors) lipgloss.Color { return ui.Error })
}

// StatusSuccess returns the style for success status text.
func (m *Manager) StatusSuccess() lipgloss.Style {
	return m.uiStyle("status_success", func(ui *UIColors) lipgloss.Color { return ui.Success })
}

// Scrollbar returns the style for the scrollbar thumb.
func (m *Manager) Scrollbar() lipgloss.Style {
	return m.uiStyle("scrollbar", func(ui *UIColors) lipgloss.Color { return ui.Scrollbar })
}

// Filler returns the style for rows beyond the materialized window.
func (m *Manager) Filler() lipgloss.Style {
	return m.uiStyle("filler", func(ui *UIColors) lipgloss.Color { return ui.Filler })
}

func (m *Manager) uiStyle(key string, pick func(*UIColors) lipgloss.Color) lipgloss.Style {
	m.mu.Lock()
	defer m.mu.Unlock()

	if style, ok := m.cache[key]; ok {
		return style
	}
	style := lipgloss.NewStyle().Foreground(pick(m.theme.Colors.UI))
	m.cache[key] = style
	return style
}

// ClearCache clears the style cache.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]lipgloss.Style)
}

func (m *Manager) getSpeakerColor(speaker string) lipgloss.Color {
	switch strings.ToLower(speaker) {
	case "user":
		return m.theme.Colors.Speaker.User
	case "assistant":
		return m.theme.Colors.Speaker.Assistant
	case "system":
		return m.theme.Colors.Speaker.System
	default:
		return m.theme.Colors.Speaker.Unknown
	}
}

// getDefaultTheme returns the default dark theme.
func getDefaultTheme() *Theme {
	return &Theme{
		Name:        "default",
		Description: "Default dark theme",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#1e1e1e"),
			Foreground: lipgloss.Color("#d4d4d4"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#264f78"),
				Foreground: lipgloss.Color("#ffffff"),
			},
			Speaker: &SpeakerColors{
				User:      lipgloss.Color("#569cd6"),
				Assistant: lipgloss.Color("#4ec9b0"),
				System:    lipgloss.Color("#c586c0"),
				Unknown:   lipgloss.Color("#808080"),
			},
			UI: &UIColors{
				Border:    lipgloss.Color("#3c3c3c"),
				Header:    lipgloss.Color("#cccccc"),
				Info:      lipgloss.Color("#569cd6"),
				Warning:   lipgloss.Color("#dcdcaa"),
				Error:     lipgloss.Color("#f44747"),
				Success:   lipgloss.Color("#4ec9b0"),
				Scrollbar: lipgloss.Color("#5a5a5a"),
				Filler:    lipgloss.Color("#3c3c3c"),
			},
		},
	}
}

// GetLightTheme returns a light theme.
func GetLightTheme() *Theme {
	return &Theme{
		Name:        "light",
		Description: "Light theme",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#ffffff"),
			Foreground: lipgloss.Color("#000000"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#0078d4"),
				Foreground: lipgloss.Color("#ffffff"),
			},
			Speaker: &SpeakerColors{
				User:      lipgloss.Color("#0078d4"),
				Assistant: lipgloss.Color("#107c10"),
				System:    lipgloss.Color("#881798"),
				Unknown:   lipgloss.Color("#605e5c"),
			},
			UI: &UIColors{
				Border:    lipgloss.Color("#d1d1d1"),
				Header:    lipgloss.Color("#323130"),
				Info:      lipgloss.Color("#0078d4"),
				Warning:   lipgloss.Color("#ffb900"),
				Error:     lipgloss.Color("#d13438"),
				Success:   lipgloss.Color("#107c10"),
				Scrollbar: lipgloss.Color("#8a8886"),
				Filler:    lipgloss.Color("#d1d1d1"),
			},
		},
	}
}
