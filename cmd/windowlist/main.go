package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/user/windowlist/internal/core"
	"github.com/user/windowlist/internal/logstore"
	"github.com/user/windowlist/internal/ui"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// CLIFlags holds all command-line flags
type CLIFlags struct {
	// Configuration flags
	configPath string
	logPath    string
	syncURL    string
	scenario   string

	// Window geometry flags
	itemHeight int
	buffer     int
	debounceMS int

	// UI flags
	colorScheme string

	// Other flags
	demo     int
	version  bool
	help     bool
	logLevel string
}

func parseFlags() *CLIFlags {
	flags := &CLIFlags{}

	flag.StringVar(&flags.configPath, "config", "", "Path to the TOML config file (default ~/.windowlist/config.toml)")
	flag.StringVar(&flags.logPath, "log-path", "", "Path to the conversation log store")
	flag.StringVar(&flags.syncURL, "sync-url", "", "URL to POST the log store to on sync")
	flag.StringVar(&flags.scenario, "scenario", "", "Scenario to open (default: first in the store)")

	// Window geometry flags
	flag.IntVar(&flags.itemHeight, "item-height", 0, "Rows each entry occupies in the list")
	flag.IntVar(&flags.buffer, "buffer", -1, "Extra entries rendered above and below the viewport")
	flag.IntVar(&flags.debounceMS, "debounce-ms", 0, "Scroll debounce interval in milliseconds")

	// UI flags
	flag.StringVar(&flags.colorScheme, "color-scheme", "", "Color scheme to use (default, light)")

	// Other flags
	flag.IntVar(&flags.demo, "demo", 0, "Seed N demo entries when the store is empty")
	flag.BoolVar(&flags.version, "version", false, "Print version information and quit")
	flag.BoolVar(&flags.version, "v", false, "Shorthand for --version")
	flag.BoolVar(&flags.help, "help", false, "Show help message")
	flag.BoolVar(&flags.help, "h", false, "Shorthand for --help")
	flag.StringVar(&flags.logLevel, "log-level", "info", "Log level when WINDOWLIST_DEBUG_LOG is set (debug, info, warn, error)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Windowlist - Windowed Conversation Log Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  windowlist [flags] [scenario]\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  # Open the default store\n")
		fmt.Fprintf(os.Stderr, "  windowlist\n\n")
		fmt.Fprintf(os.Stderr, "  # Open a specific scenario\n")
		fmt.Fprintf(os.Stderr, "  windowlist onboarding\n\n")
		fmt.Fprintf(os.Stderr, "  # Try it out with generated entries\n")
		fmt.Fprintf(os.Stderr, "  windowlist --log-path=/tmp/demo.json --demo=5000\n\n")
		fmt.Fprintf(os.Stderr, "  # Sync the store to a collector\n")
		fmt.Fprintf(os.Stderr, "  windowlist --sync-url=http://localhost:9000/logs\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeyboard Shortcuts:\n")
		fmt.Fprintf(os.Stderr, "  j/k        - Scroll up/down\n")
		fmt.Fprintf(os.Stderr, "  g/G        - Go to top/bottom\n")
		fmt.Fprintf(os.Stderr, "  PgUp/PgDn  - Page up/down\n")
		fmt.Fprintf(os.Stderr, "  /          - Filter entries\n")
		fmt.Fprintf(os.Stderr, "  s          - Cycle sort order\n")
		fmt.Fprintf(os.Stderr, "  y          - Copy top entry to clipboard\n")
		fmt.Fprintf(os.Stderr, "  S          - Sync the log store\n")
		fmt.Fprintf(os.Stderr, "  ?          - Show help\n")
		fmt.Fprintf(os.Stderr, "  q/Ctrl+C   - Quit\n")
	}

	flag.Parse()

	// First positional argument is the scenario
	if args := flag.Args(); len(args) > 0 && flags.scenario == "" {
		flags.scenario = args[0]
	}

	return flags
}

func main() {
	flags := parseFlags()

	if flags.version {
		fmt.Printf("windowlist version %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		os.Exit(0)
	}
	if flags.help {
		flag.Usage()
		os.Exit(0)
	}

	setupLogging(flags.logLevel)

	config, err := loadConfigWithFlags(flags)
	if err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := logstore.Open(config.LogPath)
	if err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Fatalf("Failed to open log store: %v", err)
	}

	if flags.demo > 0 && store.Len() == 0 {
		if err := seedDemo(store, flags.demo); err != nil {
			logrus.SetOutput(os.Stderr)
			logrus.Fatalf("Failed to seed demo entries: %v", err)
		}
		if config.Scenario == "" {
			config.Scenario = "demo"
		}
	}

	state := core.NewState(config)
	syncer := logstore.NewSyncer(config.SyncURL)

	app, err := ui.NewApp(state, config, store, syncer)
	if err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Fatalf("Failed to create application: %v", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Fatalf("Error running application: %v", err)
	}
}

// setupLogging keeps logrus off the terminal the TUI owns. Diagnostics go to
// the file named by WINDOWLIST_DEBUG_LOG, or nowhere.
func setupLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	path := os.Getenv("WINDOWLIST_DEBUG_LOG")
	if path == "" {
		logrus.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Warnf("cannot open debug log %s: %v", path, err)
		return
	}
	logrus.SetOutput(f)
}

// loadConfigWithFlags loads configuration with CLI flag overrides
func loadConfigWithFlags(flags *CLIFlags) (*core.Config, error) {
	config, err := core.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	// Override with CLI flags
	if flags.logPath != "" {
		config.LogPath = flags.logPath
	}
	if flags.syncURL != "" {
		config.SyncURL = flags.syncURL
	}
	if flags.scenario != "" {
		config.Scenario = flags.scenario
	}
	if flags.itemHeight > 0 {
		config.ItemHeight = flags.itemHeight
	}
	if flags.buffer >= 0 {
		config.Buffer = flags.buffer
	}
	if flags.debounceMS > 0 {
		config.DebounceMS = flags.debounceMS
	}
	if flags.colorScheme != "" {
		config.ColorScheme = flags.colorScheme
	}

	return config, config.Validate()
}

// seedDemo fills an empty store with a synthetic conversation so the viewer
// has something to scroll.
func seedDemo(store *logstore.Store, n int) error {
	speakers := []string{"user", "assistant", "system"}
	topics := []string{
		"checking the deployment status",
		"reviewing the incident timeline",
		"walking through the rollout plan",
		"comparing cache hit rates",
		"summarizing the postmortem",
	}
	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)

	for i := 0; i < n; i++ {
		entry := logstore.Entry{
			Scenario: "demo",
			Speaker:  speakers[i%len(speakers)],
			Text:     fmt.Sprintf("Entry %d: %s.", i, topics[i%len(topics)]),
			Time:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Append(entry); err != nil {
			return err
		}
	}
	return nil
}
