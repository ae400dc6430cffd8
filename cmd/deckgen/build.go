package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckgen/internal/adapters/secondary/config"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/export"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/logging"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/source"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/domain/services"
)

const (
	flagVerbose = "verbose"
	flagConfig  = "config"
	flagWatch   = "watch"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [source]",
		Short: "Build a presentation",
		Long: `Render a deck into a presentation file. The deck is read from the
source file when given (.yaml, .yml, .md, .markdown), otherwise the
configured built-in deck is used.

Example:
  deckgen build
  deckgen build talk.md -o talk.pptx
  deckgen build --builtin service-reliability --format markdown -o outline.md
  deckgen build talk.yaml --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}

	addBuildFlags(cmd)
	return cmd
}

// addBuildFlags registers the flags that override the configuration. Defaults are
// empty so that only flags the user set take effect.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(config.FlagOutput, "o", "", "Output file (overrides config)")
	cmd.Flags().StringP(config.FlagFormat, "f", "", "Output format: pptx or markdown (overrides config)")
	cmd.Flags().StringP(config.FlagBuiltin, "b", "", "Built-in deck to build (overrides config)")
	cmd.Flags().Bool(config.FlagNoOverwrite, false, "Fail instead of replacing an existing output file")
	cmd.Flags().String(config.FlagLanguage, "", "Language tag for decks without one, e.g. vi-VN (overrides config)")
	cmd.Flags().Int(config.FlagMaxTitleRunes, 0, "Reject slide titles longer than this many characters")
	cmd.Flags().BoolP(flagWatch, "w", false, "Rebuild whenever the source file changes")
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Load configuration with proper precedence: CLI flags > env > local config > global config > defaults
	finalConfig, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool(flagWatch)
	if watch && finalConfig.Deck.Source == "" {
		return errors.New("--watch needs a deck source file")
	}

	logger, err := logging.New(finalConfig.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	monitor := monitoring.NewBuildMonitor()

	if err := buildOnce(cmd, finalConfig, logger, monitor); err != nil {
		return err
	}

	if !watch {
		return nil
	}
	return watchAndRebuild(cmd, finalConfig, logger, monitor)
}

// buildOnce loads the deck and writes the presentation
func buildOnce(cmd *cobra.Command, cfg *entities.Config, logger *logging.Logger, monitor *monitoring.BuildMonitor) error {
	deck, err := loadDeck(cmd, cfg)
	if err != nil {
		return fmt.Errorf("loading deck: %w", err)
	}

	deckService := services.NewDeckService(export.NewService(nil, logger), logger, services.DeckOptions{
		Layouts: services.LayoutSelection{
			Title:   cfg.Deck.GetTitleLayout(),
			Content: cfg.Deck.GetContentLayout(),
		},
		Rules:    entities.ValidationRules{MaxTitleRunes: cfg.Deck.MaxTitleRunes},
		Recorder: monitor,
		Language: cfg.Deck.GetLanguage(),
		Author:   cfg.Metadata.Author,
		Company:  cfg.Metadata.Company,
	})

	result, err := deckService.Generate(cmd.Context(), deck, ports.ExportOptions{
		Format:     cfg.Output.GetFormat(),
		OutputPath: outputPath(cfg.Output),
		Overwrite:  cfg.Output.ShouldOverwrite(),
	})
	if err != nil {
		return err
	}

	logger.Debug("build metrics", monitor.Fields()...)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Presentation saved to %s\n", result.OutputPath)
	return nil
}

// watchAndRebuild rebuilds on every change of the source file until the command
// context is cancelled. Failed rebuilds are reported and watching continues.
func watchAndRebuild(cmd *cobra.Command, cfg *entities.Config, logger *logging.Logger, monitor *monitoring.BuildMonitor) error {
	sourceWatcher := watcher.NewPollingWatcher(nil, logger, cfg.Watch.GetInterval(), cfg.Watch.GetDebounce())
	defer func() { _ = sourceWatcher.Stop() }()

	events, err := sourceWatcher.Watch(cmd.Context(), cfg.Deck.Source)
	if err != nil {
		return fmt.Errorf("watching %s: %w", cfg.Deck.Source, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (press Ctrl+C to stop)\n", cfg.Deck.Source)

	for event := range events {
		if event.Type == ports.Deleted {
			logger.Warn("deck source removed", "path", event.Path)
			continue
		}

		logger.Info("deck source changed", "path", event.Path, "change", event.Type.String())
		if err := buildOnce(cmd, cfg, logger, monitor); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	return nil
}

// loadConfig resolves the configuration of one run
func loadConfig(cmd *cobra.Command, args []string) (*entities.Config, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	configFile, _ := cmd.Flags().GetString(flagConfig)

	configService := services.NewConfigService(config.NewTOMLLoader(), config.NewConfigMerger())
	finalConfig, err := configService.LoadConfig(cmd.Context(), ports.ConfigRequest{
		WorkingDir: workingDir,
		ConfigFile: configFile,
		Flags:      collectFlags(cmd, args),
	})
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return finalConfig, nil
}

// collectFlags gathers the flags the user set, plus the positional source
func collectFlags(cmd *cobra.Command, args []string) map[string]interface{} {
	flags := make(map[string]interface{})

	for _, name := range []string{config.FlagOutput, config.FlagFormat, config.FlagBuiltin, config.FlagLanguage} {
		if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
			continue
		}
		if value, err := cmd.Flags().GetString(name); err == nil {
			flags[name] = value
		}
	}

	for _, name := range []string{config.FlagNoOverwrite, flagVerbose} {
		if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
			continue
		}
		if value, err := cmd.Flags().GetBool(name); err == nil {
			flags[name] = value
		}
	}

	if cmd.Flags().Lookup(config.FlagMaxTitleRunes) != nil && cmd.Flags().Changed(config.FlagMaxTitleRunes) {
		if value, err := cmd.Flags().GetInt(config.FlagMaxTitleRunes); err == nil {
			flags[config.FlagMaxTitleRunes] = value
		}
	}

	if len(args) > 0 {
		flags[config.FlagSource] = args[0]
	}

	return flags
}

// loadDeck reads the source file when one is configured, otherwise the built-in deck
func loadDeck(cmd *cobra.Command, cfg *entities.Config) (*entities.Deck, error) {
	decks := source.NewSource(nil)

	if cfg.Deck.Source != "" {
		return decks.LoadFile(cmd.Context(), cfg.Deck.Source)
	}
	return decks.LoadBuiltin(cmd.Context(), cfg.Deck.Builtin)
}

// outputPath swaps the default file name's extension for outline exports
func outputPath(output entities.OutputConfig) string {
	if output.Path == entities.DefaultOutputPath && output.GetFormat() == entities.FormatMarkdown {
		return strings.TrimSuffix(output.Path, ".pptx") + ".md"
	}
	return output.Path
}
