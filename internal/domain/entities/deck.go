package entities

import (
	"fmt"
	"unicode/utf8"
)

// Deck is an ordered sequence of slide specifications with metadata
type Deck struct {
	// ID identifies one build of the deck (set by the deck service when empty)
	ID string `json:"id,omitempty"`

	// Name is the short name of a built-in deck or the source file base name
	Name string `json:"name,omitempty"`

	// Title is the document title written to the document properties
	Title string `json:"title"`

	// Author is the presentation creator
	Author string `json:"author,omitempty"`

	// Company is written to the extended document properties
	Company string `json:"company,omitempty"`

	// Language is a BCP 47 tag applied to every text run
	Language string `json:"language,omitempty"`

	// Slides contains all slides in presentation order
	Slides []SlideSpec `json:"slides"`
}

// ValidationRules holds the input limits a deck is checked against
type ValidationRules struct {
	// MaxTitleRunes rejects longer titles when positive
	MaxTitleRunes int
}

// Validate ensures the deck can be rendered
func (d *Deck) Validate(rules ValidationRules) error {
	if len(d.Slides) == 0 {
		return ErrEmptyDeck
	}

	for i, spec := range d.Slides {
		slide := derefSlide(spec)
		if slide == nil {
			return fmt.Errorf("slide %d validation failed: slide is nil", i+1)
		}

		if rules.MaxTitleRunes > 0 {
			if n := utf8.RuneCountInString(slide.SlideTitle()); n > rules.MaxTitleRunes {
				return &TitleTooLongError{Slide: i + 1, Runes: n, Max: rules.MaxTitleRunes}
			}
		}

		content, ok := slide.(ContentSlide)
		if !ok {
			continue
		}
		for j, item := range content.Items {
			if isNilItem(item) {
				return &UnsupportedNestingError{Slide: i + 1, Item: j + 1, Reason: "item is nil"}
			}
		}
	}

	return nil
}

// GetSlideByIndex returns a slide by its index (0-based)
func (d *Deck) GetSlideByIndex(index int) (SlideSpec, error) {
	if index < 0 || index >= len(d.Slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(d.Slides)-1)
	}
	return d.Slides[index], nil
}

// SlideCount returns the total number of slides
func (d *Deck) SlideCount() int {
	return len(d.Slides)
}

// DisplayTitle returns the deck title, falling back to the first slide title
func (d *Deck) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	if len(d.Slides) > 0 {
		if first := derefSlide(d.Slides[0]); first != nil {
			return first.SlideTitle()
		}
	}
	return ""
}
