// Package source loads decks from files and from the built-in collection
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fredcamaral/deckgen/internal/decks"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// Source implements ports.DeckSource
type Source struct {
	fs       ports.FileSystem
	decoders map[string]ports.DeckDecoder
	builtin  ports.DeckDecoder
}

// NewSource creates a deck source reading files through fs. Without decoders the
// YAML and Markdown decoders are registered.
func NewSource(fs ports.FileSystem, decoders ...ports.DeckDecoder) *Source {
	if fs == nil {
		fs = ports.NewRealFileSystem()
	}

	builtin := NewYAMLDecoder()
	if len(decoders) == 0 {
		decoders = []ports.DeckDecoder{builtin, NewMarkdownDecoder()}
	}

	s := &Source{
		fs:       fs,
		decoders: make(map[string]ports.DeckDecoder),
		builtin:  builtin,
	}
	for _, decoder := range decoders {
		s.RegisterDecoder(decoder)
	}
	return s
}

// RegisterDecoder registers a decoder for every extension it reports
func (s *Source) RegisterDecoder(decoder ports.DeckDecoder) {
	for _, ext := range decoder.Extensions() {
		s.decoders[strings.ToLower(ext)] = decoder
	}
}

// SupportedExtensions returns the registered file extensions in sorted order
func (s *Source) SupportedExtensions() []string {
	exts := make([]string, 0, len(s.decoders))
	for ext := range s.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// LoadFile reads and decodes a deck file, picking the decoder by extension
func (s *Source) LoadFile(ctx context.Context, path string) (*entities.Deck, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decoder, ok := s.decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported deck file %s (supported: %s)", path, strings.Join(s.SupportedExtensions(), ", "))
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck %s: %w", path, err)
	}

	deck, err := decoder.Decode(ctx, path, data)
	if err != nil {
		return nil, fmt.Errorf("decoding deck %s: %w", path, err)
	}

	if deck.Name == "" {
		deck.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return deck, nil
}

// LoadBuiltin decodes one of the decks shipped with the binary
func (s *Source) LoadBuiltin(ctx context.Context, name string) (*entities.Deck, error) {
	data, err := decks.Raw(name)
	if err != nil {
		return nil, err
	}

	deck, err := s.builtin.Decode(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("decoding built-in deck %s: %w", name, err)
	}

	if deck.Name == "" {
		deck.Name = name
	}
	return deck, nil
}

// Builtins returns the names of the built-in decks
func (s *Source) Builtins() []string {
	return decks.Names()
}
