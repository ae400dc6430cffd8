package builders

import (
	"strconv"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// DeckBuilder helps build Deck entities for testing
type DeckBuilder struct {
	deck *entities.Deck
}

// NewDeckBuilder creates a new deck builder with sensible defaults
func NewDeckBuilder() *DeckBuilder {
	return &DeckBuilder{
		deck: &entities.Deck{
			ID:       "test-deck-id",
			Name:     "test-deck",
			Title:    "Test Deck",
			Author:   "Test Author",
			Language: "en-US",
			Slides:   []entities.SlideSpec{},
		},
	}
}

// WithID sets the deck ID
func (b *DeckBuilder) WithID(id string) *DeckBuilder {
	b.deck.ID = id
	return b
}

// WithTitle sets the deck title
func (b *DeckBuilder) WithTitle(title string) *DeckBuilder {
	b.deck.Title = title
	return b
}

// WithAuthor sets the deck author
func (b *DeckBuilder) WithAuthor(author string) *DeckBuilder {
	b.deck.Author = author
	return b
}

// WithLanguage sets the deck language
func (b *DeckBuilder) WithLanguage(language string) *DeckBuilder {
	b.deck.Language = language
	return b
}

// WithTitleSlide appends a title slide
func (b *DeckBuilder) WithTitleSlide(title, subtitle string) *DeckBuilder {
	b.deck.Slides = append(b.deck.Slides, entities.TitleSlide{Title: title, Subtitle: subtitle})
	return b
}

// WithContentSlide appends a content slide
func (b *DeckBuilder) WithContentSlide(title string, items ...entities.ContentItem) *DeckBuilder {
	b.deck.Slides = append(b.deck.Slides, entities.ContentSlide{
		Title: title,
		Items: append([]entities.ContentItem(nil), items...),
	})
	return b
}

// WithSlide appends any slide specification
func (b *DeckBuilder) WithSlide(slide entities.SlideSpec) *DeckBuilder {
	b.deck.Slides = append(b.deck.Slides, slide)
	return b
}

// WithSlideCount appends the specified number of single-bullet content slides
func (b *DeckBuilder) WithSlideCount(count int) *DeckBuilder {
	for i := 0; i < count; i++ {
		n := strconv.Itoa(len(b.deck.Slides) + 1)
		b.WithContentSlide("Slide "+n, entities.NewLeaf("Bullet "+n))
	}
	return b
}

// Build creates the final Deck entity
func (b *DeckBuilder) Build() *entities.Deck {
	// Copy the slice to prevent mutation through the builder
	return &entities.Deck{
		ID:       b.deck.ID,
		Name:     b.deck.Name,
		Title:    b.deck.Title,
		Author:   b.deck.Author,
		Company:  b.deck.Company,
		Language: b.deck.Language,
		Slides:   append([]entities.SlideSpec{}, b.deck.Slides...),
	}
}

// Common decks for testing

// MinimalDeck creates a single title slide deck
func MinimalDeck() *entities.Deck {
	return NewDeckBuilder().
		WithTitle("Minimal").
		WithTitleSlide("Minimal", "Subtitle").
		Build()
}

// ReliabilityOutlineDeck mirrors the opening, agenda and closing of the
// service reliability talk
func ReliabilityOutlineDeck() *entities.Deck {
	return NewDeckBuilder().
		WithTitle("Service Reliability").
		WithLanguage("vi-VN").
		WithTitleSlide("Service Reliability", "Xây dựng và Đo lường Dịch vụ Đáng Tin cậy").
		WithContentSlide("Nội dung chính", entities.NewLeaf("A"), entities.NewLeaf("B")).
		WithTitleSlide("Q & A", "Cảm ơn đã lắng nghe!").
		Build()
}

// NestedDeck creates a deck with interleaved leaves and groups
func NestedDeck() *entities.Deck {
	return NewDeckBuilder().
		WithTitle("Nested").
		WithContentSlide("Mixed",
			entities.NewLeaf("Leaf 1"),
			entities.NewGroup("Parent", "Child1", "Child2"),
			entities.NewLeaf("Leaf 2"),
			entities.NewGroup("Second parent", "Only child"),
		).
		Build()
}
