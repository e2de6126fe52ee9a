package core

import "sync"

// SortMode selects how the visible entries are ordered.
type SortMode string

const (
	SortChronological SortMode = "Time"
	SortBySpeaker     SortMode = "Speaker"
	SortByLength      SortMode = "Length"
)

// NextSortMode cycles through the available orderings.
func NextSortMode(m SortMode) SortMode {
	switch m {
	case SortChronological:
		return SortBySpeaker
	case SortBySpeaker:
		return SortByLength
	default:
		return SortChronological
	}
}

// State holds the application state shared between the UI and its views.
type State struct {
	mu sync.RWMutex

	// Current view state
	Scenario    string
	FilterQuery string
	SortMode    SortMode

	// UI state
	ShowHelp   bool
	SyncStatus string

	config *Config
}

// NewState creates a new application state.
func NewState(config *Config) *State {
	return &State{
		Scenario: config.Scenario,
		SortMode: SortChronological,
		config:   config,
	}
}

// Config returns the configuration the state was created with.
func (s *State) Config() *Config {
	return s.config
}

// SetFilterQuery records the active filter text.
func (s *State) SetFilterQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FilterQuery = q
}

// GetFilterQuery returns the active filter text.
func (s *State) GetFilterQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FilterQuery
}

// CycleSortMode advances to the next ordering and returns it.
func (s *State) CycleSortMode() SortMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SortMode = NextSortMode(s.SortMode)
	return s.SortMode
}

// SetSyncStatus records the outcome of the last sync attempt.
func (s *State) SetSyncStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SyncStatus = status
}

// GetSyncStatus returns the outcome of the last sync attempt.
func (s *State) GetSyncStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SyncStatus
}
