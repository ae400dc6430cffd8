package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/services"
)

func buildDocument(t *testing.T, deck *entities.Deck) *entities.Document {
	t.Helper()

	service := services.NewDeckService(nil, nil, services.DeckOptions{
		Layouts: services.DefaultLayoutSelection(),
	})
	doc, err := service.Build(context.Background(), deck)
	require.NoError(t, err)
	return doc
}
