package logstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "conversations.json")
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Scenarios())
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestAppendAndReload(t *testing.T) {
	path := tempStorePath(t)
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Append(Entry{Scenario: "intro", Speaker: "user", Text: "hello"}))
	require.NoError(t, s.Append(Entry{Scenario: "intro", Speaker: "assistant", Text: "hi there"}))
	require.NoError(t, s.Append(Entry{Scenario: "followup", Speaker: "user", Text: "next"}))

	entries := s.Entries("intro")
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Text)
	assert.NotEmpty(t, entries[0].ID, "missing IDs are filled in")
	assert.False(t, entries[0].Time.IsZero(), "missing timestamps are filled in")

	// A fresh open sees the same data.
	reloaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Len())
	assert.Equal(t, []string{"followup", "intro"}, reloaded.Scenarios())
	assert.Equal(t, "hi there", reloaded.Entries("intro")[1].Text)
}

func TestAppendRequiresScenario(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)
	assert.Error(t, s.Append(Entry{Text: "orphan"}))
}

func TestAppendKeepsExplicitFields(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)

	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(Entry{
		ID:       "fixed-id",
		Scenario: "s1",
		Speaker:  "system",
		Text:     "boot",
		Time:     when,
	}))

	got := s.Entries("s1")[0]
	assert.Equal(t, "fixed-id", got.ID)
	assert.Equal(t, when, got.Time)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)
	require.NoError(t, s.Append(Entry{Scenario: "s1", Text: "a"}))

	snap := s.Snapshot()
	snap["s1"][0].Text = "mutated"
	assert.Equal(t, "a", s.Entries("s1")[0].Text)
}

func TestOpenCorruptFile(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}
