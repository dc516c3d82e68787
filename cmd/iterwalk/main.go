package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	flag "github.com/spf13/pflag"

	"github.com/KevoDB/iterfacade/pkg/common/log"
	"github.com/KevoDB/iterfacade/pkg/config"
	"github.com/KevoDB/iterfacade/pkg/telemetry"
)

// Command completer for readline
var completer = readline.NewPrefixCompleter(
	readline.PcItem(".help"),
	readline.PcItem(".use",
		readline.PcItem(config.SourceMonths),
		readline.PcItem(config.SourceWrapped),
		readline.PcItem(config.SourceSlice),
		readline.PcItem(config.SourceBlock),
	),
	readline.PcItem(".traits"),
	readline.PcItem(".stats"),
	readline.PcItem(".exit"),
	readline.PcItem("mark"),
	readline.PcItem("diff"),
	readline.PcItem("cmp"),
	readline.PcItem("scan"),
	readline.PcItem("range"),
	readline.PcItem("grep"),
	readline.PcItem("merge"),
)

const helpText = `
iterwalk - walk iterator facades interactively.

Usage:
  iterwalk [options]

Commands:
  .help                   - Show this help message
  .use SOURCE             - Open months, wrapped, slice or block
  .traits                 - Show the derived traits of the current core
  .stats                  - Show operation statistics
  .exit                   - Exit the program

  *                       - Dereference the cursor
  ++                      - Advance the cursor by one
  --                      - Move the cursor back by one (bidirectional)
  += n                    - Advance the cursor by n (random access)
  -= n                    - Move the cursor back by n (random access)
  [n]                     - Element n positions from the cursor (random access)

  mark                    - Remember the cursor position
  diff                    - Distance from the mark to the cursor (random access)
  cmp                     - Order the cursor against the mark

  scan [n]                - Print up to n elements from the cursor on
  grep TEXT               - Print the elements containing TEXT
  range START END         - Print block entries with keys in [START, END)
  merge                   - Print the overlay block merged over the base block
`

// options holds the command line flags
type options struct {
	ConfigPath  string
	Source      string
	Codec       string
	LogLevel    string
	HistoryFile string
	Values      []int
	Entries     int
	Telemetry   []string
	Commands    []string
}

func main() {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %s\n", err)
		os.Exit(1)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.NewStandardLogger(log.WithLevel(level), log.WithOutput(os.Stderr))
	log.SetDefaultLogger(logger)

	// Telemetry exporters write to stderr so they never mix with command output
	tel, err := telemetry.New(cfg.Telemetry, telemetry.WithWriter(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing telemetry: %s\n", err)
		os.Exit(1)
	}

	os.Exit(runSession(cfg, opts, logger, tel))
}

// runSession executes the session and flushes telemetry, returning the exit code
func runSession(cfg *config.Config, opts options, logger log.Logger, tel telemetry.Telemetry) int {
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed: %v", err)
		}
	}()

	s := newSession(cfg, os.Stdout, logger, tel)
	if err := s.open(cfg.Source); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening source: %s\n", err)
		return 1
	}

	// Scripted mode runs the given commands and exits
	if len(opts.Commands) > 0 {
		for _, line := range opts.Commands {
			more, err := s.execute(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				return 1
			}
			if !more {
				break
			}
		}
		return 0
	}

	return runInteractive(s, cfg)
}

// parseFlags parses command line flags
func parseFlags() options {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "iterwalk - walk iterator facades interactively\n\n")
		fmt.Fprintf(os.Stderr, "Usage: iterwalk [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nFor the command list, start iterwalk and type .help\n")
	}

	var opts options
	flag.StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (.json, .yaml or .yml)")
	flag.StringVarP(&opts.Source, "source", "s", "", "Iterator source: months, wrapped, slice or block")
	flag.StringVar(&opts.Codec, "codec", "", "Block compression codec: none, snappy or zstd")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flag.StringVar(&opts.HistoryFile, "history", "", "REPL history file")
	flag.IntSliceVar(&opts.Values, "values", nil, "Values for the slice source")
	flag.IntVar(&opts.Entries, "entries", 0, "Number of entries in the block source")
	flag.StringSliceVar(&opts.Telemetry, "telemetry", nil, "Enable telemetry with these exporters: stdout, otlp, prometheus")
	flag.StringArrayVarP(&opts.Commands, "exec", "e", nil, "Run a command instead of starting the REPL (repeatable)")
	flag.Parse()

	return opts
}

// loadConfig reads the configuration file, if any, and applies flag overrides
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Update(func(c *config.Config) {
		c.Telemetry.LoadFromEnv()
	})

	cfg.Update(func(c *config.Config) {
		if opts.Source != "" {
			c.Source = strings.ToLower(opts.Source)
		}
		if opts.Codec != "" {
			c.Codec = opts.Codec
		}
		if opts.LogLevel != "" {
			c.LogLevel = opts.LogLevel
		}
		if opts.HistoryFile != "" {
			c.HistoryFile = opts.HistoryFile
		}
		if len(opts.Values) > 0 {
			c.SliceValues = opts.Values
		}
		if opts.Entries > 0 {
			c.BlockEntries = opts.Entries
		}
		if len(opts.Telemetry) > 0 {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporters = opts.Telemetry
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runInteractive starts the interactive CLI mode
func runInteractive(s *session, cfg *config.Config) int {
	fmt.Println("iterwalk version 1.0.0")
	fmt.Println("Enter .help for usage hints.")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %s\n", err)
		return 1
	}
	defer rl.Close()

	base := strings.TrimSuffix(cfg.Prompt, "> ")
	for {
		rl.SetPrompt(fmt.Sprintf("%s:%s> ", base, s.source))

		line, readErr := rl.Readline()
		if readErr != nil {
			if errors.Is(readErr, readline.ErrInterrupt) {
				if len(line) == 0 {
					break
				}
				continue
			} else if errors.Is(readErr, io.EOF) {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", readErr)
			continue
		}

		more, err := s.execute(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			continue
		}
		if !more {
			fmt.Println("Goodbye!")
			return 0
		}
	}
	return 0
}
