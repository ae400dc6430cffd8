package ports

import (
	"context"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// DeckDecoder turns the bytes of a deck source into a deck
type DeckDecoder interface {
	// Decode parses content; name is used for error messages and the deck name
	Decode(ctx context.Context, name string, content []byte) (*entities.Deck, error)

	// Extensions returns the file extensions (with dot) the decoder handles
	Extensions() []string
}

// DeckSource loads decks from files or from the embedded collection
type DeckSource interface {
	LoadFile(ctx context.Context, path string) (*entities.Deck, error)
	LoadBuiltin(ctx context.Context, name string) (*entities.Deck, error)
	Builtins() []string
}
