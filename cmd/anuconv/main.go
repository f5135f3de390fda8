// Command anuconv converts Telugu text between the Anu 6/7 legacy glyph
// encodings and Unicode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/kumarlokesh/anu-converter/internal/config"
	"github.com/kumarlokesh/anu-converter/internal/storage"
	"github.com/kumarlokesh/anu-converter/internal/tables"
)

const version = "0.1.0"

// app carries what every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *tables.Registry
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("anuconv", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	mapsDir := fs.String("maps", "", "Directory holding the mapping assets (overrides config)")
	help := fs.Bool("help", false, "Show help message")
	showVer := fs.Bool("version", false, "Show version information")
	fs.Usage = showHelp

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		showHelp()
		return 0
	}
	if *showVer {
		showVersion()
		return 0
	}
	if fs.NArg() == 0 {
		showHelp()
		return 2
	}

	a, err := newApp(*configPath, *mapsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "anuconv: %v\n", err)
		return 1
	}

	rest := fs.Args()
	subcommand, subcommandArgs := rest[0], rest[1:]
	ctx := context.Background()

	switch subcommand {
	case "convert":
		err = a.handleConvert(ctx, subcommandArgs, os.Stdin, os.Stdout)
	case "check":
		err = a.handleCheck(ctx, subcommandArgs, os.Stdout)
	case "tables":
		err = a.handleTables(ctx, os.Stdout)
	case "config":
		a.handleConfig(os.Stdout)
	case "version":
		showVersion()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", subcommand)
		showHelp()
		return 2
	}

	if errors.Is(err, errMismatches) {
		return 1
	}
	if err != nil {
		a.logger.Error().Err(err).Str("command", subcommand).Msg("Command failed")
		return 1
	}
	return 0
}

func newApp(configPath, mapsDir string) (*app, error) {
	if configPath == "" {
		if found, err := config.GetConfigPath(); err == nil {
			configPath = found
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if mapsDir != "" {
		cfg.Storage.Type = config.StorageFilesystem
		cfg.Storage.Dir = mapsDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.Log.NewLogger(os.Stderr)

	var store storage.Store
	switch cfg.Storage.Type {
	case config.StorageFilesystem:
		store, err = storage.NewFilesystemStore(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
	default:
		store = storage.NewMemoryStore()
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: tables.NewRegistry(store, logger),
	}, nil
}

func showHelp() {
	helpText := `anuconv - Anu <-> Unicode Telugu converter

Usage:
  anuconv [flags] <command> [arguments]

Flags:
  --config string   Path to config file
  --maps string     Directory holding the mapping assets
  --help            Show this help message
  --version         Show version information

Commands:
  convert [--version 6|7] [--direction a2u|u2a] [--swap] [file]
                    Convert a file (or stdin) to stdout
  check [--version 6|7]
                    Round-trip the Anu->Unicode table through Unicode->Anu
  tables            List the four mapping tables and their status
  config            Show current configuration
  version           Show version information
`
	fmt.Fprint(os.Stderr, helpText)
}

func showVersion() {
	fmt.Printf("anuconv v%s\n", version)
}
