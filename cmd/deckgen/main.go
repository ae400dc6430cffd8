package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

// newRootCmd builds the command tree. Running the root command builds the
// configured deck, so a bare `deckgen` reproduces the default presentation.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deckgen [source]",
		Short: "Generate PowerPoint presentations from slide outlines",
		Long: `deckgen renders a deck of title and bulleted content slides into a
PowerPoint file. Decks come from YAML or Markdown files or from the
built-in collection; without arguments the default built-in deck is
written to the configured output path.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runBuild,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	// Add global flags
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP(flagConfig, "c", "", "Config file (default: ./deckgen.toml and ~/.config/deckgen/config.toml)")

	addBuildFlags(rootCmd)

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func main() {
	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// Execute root command with context
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
