// Package decks holds the built-in decks shipped inside the binary
package decks

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// Default is the deck built when nothing else is selected
const Default = "service-reliability"

//go:embed *.yaml
var files embed.FS

const extension = ".yaml"

// Names returns the built-in deck names in sorted order
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != extension {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), extension))
	}
	sort.Strings(names)
	return names
}

// Raw returns the YAML source of a built-in deck
func Raw(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownDeck, name)
	}

	data, err := files.ReadFile(name + extension)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (available: %s)", entities.ErrUnknownDeck, name, strings.Join(Names(), ", "))
	}
	return data, nil
}
