package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/gopath/internal/config"
	"github.com/philipparndt/gopath/pkg/pathgeom"
	"github.com/philipparndt/gopath/version"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	deviation      float64
	showFirstRapid bool
	showNodes      bool
	logLevel       string
	logFormat      string

	settings *config.Resolved
	logger   = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "gopath",
	Short: "Turn CNC toolpaths into renderable geometry",
	Long: `gopath reads G-code toolpaths and computes the polyline a viewer draws for them.
Arcs are tessellated within a chordal deviation, drilling and probing cycles are
expanded into their individual moves, and every segment is classified as rapid,
feed or probe motion.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultFile, "Configuration file")
	flags.Float64Var(&deviation, "deviation", pathgeom.DefaultDeviation, "Maximum chordal deviation for arc tessellation")
	flags.BoolVar(&showFirstRapid, "show-first-rapid", true, "Draw the initial rapid move")
	flags.BoolVar(&showNodes, "show-nodes", false, "Add markers at arc ends, arc centers and drill points")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

// setup loads the configuration, applies flag overrides and installs the logger
func setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOptional(configPath)
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("deviation") {
		cfg.Render.Deviation = &deviation
	}
	if flags.Changed("show-first-rapid") {
		cfg.Render.ShowFirstRapid = &showFirstRapid
	}
	if flags.Changed("show-nodes") {
		cfg.Render.ShowNodes = showNodes
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	settings, err = cfg.Resolve()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	handlerOpts := &slog.HandlerOptions{Level: settings.LogLevel}
	if settings.LogFormat == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
	}
	pathgeom.SetLogger(logger)

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
