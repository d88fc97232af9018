package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HamStudy/scrollwin/internal/components/vlist"
	"github.com/HamStudy/scrollwin/internal/config"
	"github.com/HamStudy/scrollwin/internal/source"
	"github.com/HamStudy/scrollwin/internal/ui"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// unset marks numeric flags that were not given
const unset = -1

// CLIFlags holds all command-line flags
type CLIFlags struct {
	configFile string

	// List flags
	rowHeight      int
	overscan       int
	viewportHeight int
	theme          string

	// Source flags
	generate int
	file     string

	// Other flags
	noMouse bool
	logFile string
	version bool
	help    bool
}

func parseFlags(name string, args []string, output io.Writer) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&flags.configFile, "config", "", "Path to a config file (default $XDG_CONFIG_HOME/scrollwin/config.yaml)")

	fs.IntVar(&flags.rowHeight, "row-height", unset, "Height of every row in terminal lines")
	fs.IntVar(&flags.overscan, "overscan", unset, "Extra rows mounted above and below the viewport")
	fs.IntVar(&flags.viewportHeight, "viewport-height", unset, "Viewport height in lines (0 fills the terminal)")
	fs.StringVar(&flags.theme, "theme", "", "Color theme (default, light, high-contrast)")

	fs.IntVar(&flags.generate, "generate", unset, "Number of records to generate when no file is given")

	fs.BoolVar(&flags.noMouse, "no-mouse", false, "Disable mouse wheel scrolling")
	fs.StringVar(&flags.logFile, "log-file", "", "Write diagnostics to this file")
	fs.BoolVar(&flags.version, "version", false, "Print version information and quit")
	fs.BoolVar(&flags.version, "v", false, "Shorthand for --version")
	fs.BoolVar(&flags.help, "help", false, "Show help message")
	fs.BoolVar(&flags.help, "h", false, "Shorthand for --help")

	fs.Usage = func() {
		fmt.Fprintf(output, "Scrollwin - windowed list viewer for the terminal\n\n")
		fmt.Fprintf(output, "Usage:\n")
		fmt.Fprintf(output, "  %s [flags] [file]\n\n", name)
		fmt.Fprintf(output, "Only the rows inside the viewport, plus the overscan margin, are rendered.\n")
		fmt.Fprintf(output, "A file argument of - reads lines from stdin.\n\n")
		fmt.Fprintf(output, "Examples:\n")
		fmt.Fprintf(output, "  # Scroll through 100000 generated records\n")
		fmt.Fprintf(output, "  %s\n\n", name)
		fmt.Fprintf(output, "  # View a log file with single-line rows\n")
		fmt.Fprintf(output, "  %s --row-height=1 /var/log/syslog\n\n", name)
		fmt.Fprintf(output, "  # Pipe command output in\n")
		fmt.Fprintf(output, "  journalctl | %s --overscan=10 -\n\n", name)
		fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nKeyboard Shortcuts:\n")
		fmt.Fprintf(output, "  j/k        - Move up/down\n")
		fmt.Fprintf(output, "  f/b        - Page down/up\n")
		fmt.Fprintf(output, "  d/u        - Half page down/up\n")
		fmt.Fprintf(output, "  g/G        - Go to top/bottom\n")
		fmt.Fprintf(output, "  +/-        - Change row height\n")
		fmt.Fprintf(output, "  o/O        - Change overscan\n")
		fmt.Fprintf(output, "  ?          - Show help\n")
		fmt.Fprintf(output, "  q/Ctrl+C   - Quit\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.help {
		fs.Usage()
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		flags.file = rest[0]
	default:
		return nil, fmt.Errorf("expected at most one file argument, got %d", len(rest))
	}

	return flags, nil
}

func main() {
	name := filepath.Base(os.Args[0])
	flags, err := parseFlags(name, os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	// Handle version flag
	if flags.version {
		fmt.Printf("scrollwin version %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		os.Exit(0)
	}

	// Handle help flag
	if flags.help {
		os.Exit(0)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown while loading
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cfg, err := loadConfigWithFlags(flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Settings.LogFile != "" {
		f, err := tea.LogToFile(cfg.Settings.LogFile, "scrollwin")
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	title, items, err := loadItems(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load items: %v", err)
	}
	signal.Stop(sigChan)
	log.Printf("loaded %d items from %s", len(items), title)

	app, err := ui.NewApp(cfg, title, items)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	p := tea.NewProgram(app, programOptions(cfg)...)

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running application: %v", err)
	}
}

func programOptions(cfg *config.Config) []tea.ProgramOption {
	var opts []tea.ProgramOption
	if cfg.Settings.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.Settings.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if cfg.Source.File == "-" {
		// stdin was consumed by the source, keys come from the terminal
		opts = append(opts, tea.WithInputTTY())
	}
	return opts
}

// loadConfigWithFlags loads configuration with CLI flag overrides
func loadConfigWithFlags(flags *CLIFlags) (*config.Config, error) {
	loader, err := config.NewLoader("")
	if err != nil {
		return nil, err
	}

	// Load base configuration
	if flags.configFile != "" {
		if _, err := loader.LoadFile(flags.configFile); err != nil {
			return nil, err
		}
	} else if err := loader.Load(); err != nil {
		return nil, err
	}

	return applyFlags(*loader.Get(), flags)
}

// applyFlags overrides cfg with every flag that was given
func applyFlags(cfg config.Config, flags *CLIFlags) (*config.Config, error) {
	if flags.rowHeight != unset {
		cfg.List.RowHeight = flags.rowHeight
	}
	if flags.overscan != unset {
		cfg.List.Overscan = flags.overscan
	}
	if flags.viewportHeight != unset {
		cfg.List.ViewportHeight = flags.viewportHeight
	}
	if flags.theme != "" {
		cfg.Theme = flags.theme
	}
	if flags.generate != unset {
		cfg.Source.Generate = flags.generate
	}
	if flags.file != "" {
		cfg.Source.File = flags.file
	}
	if flags.noMouse {
		cfg.Settings.Mouse = false
	}
	if flags.logFile != "" {
		cfg.Settings.LogFile = flags.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadItems returns the list title and its items
func loadItems(ctx context.Context, cfg *config.Config) (string, []vlist.Item, error) {
	switch cfg.Source.File {
	case "":
		return "generated", source.Generate(cfg.Source.Generate), nil
	case "-":
		items, err := source.ReadFile(ctx, "-")
		return "stdin", items, err
	default:
		items, err := source.ReadFile(ctx, cfg.Source.File)
		return filepath.Base(cfg.Source.File), items, err
	}
}
