package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckgen/internal/adapters/secondary/source"
	"github.com/fredcamaral/deckgen/internal/decks"
)

func newDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List the built-in decks",
		Args:  cobra.NoArgs,
		RunE:  runDecks,
	}
}

func runDecks(cmd *cobra.Command, _ []string) error {
	src := source.NewSource(nil)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "NAME\tSLIDES\tTITLE\n")

	for _, name := range src.Builtins() {
		deck, err := src.LoadBuiltin(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("loading built-in deck %s: %w", name, err)
		}

		marker := ""
		if name == decks.Default {
			marker = " (default)"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%d\t%s\n", name, marker, deck.SlideCount(), deck.DisplayTitle())
	}

	return w.Flush()
}
