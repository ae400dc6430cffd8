package services

import (
	"fmt"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// bodyPlaceholderIndex is the placeholder idx that receives subtitles and bullets
const bodyPlaceholderIndex = 1

// DeckRenderer writes slide specifications into a document. It keeps no state
// between calls.
type DeckRenderer struct{}

// NewDeckRenderer creates a new deck renderer
func NewDeckRenderer() *DeckRenderer {
	return &DeckRenderer{}
}

// RenderContentSlide appends one slide built from the layout at layoutIndex, sets
// its title verbatim and fills the body with one paragraph per leaf, and a heading
// plus children for each group.
func (r *DeckRenderer) RenderContentSlide(doc *entities.Document, layoutIndex int, title string, items []entities.ContentItem) error {
	if err := checkItems(items); err != nil {
		return err
	}

	slide, err := r.addSlide(doc, layoutIndex)
	if err != nil {
		return err
	}

	slide.Title().TextFrame.SetText(title)

	frame := slide.Placeholder(bodyPlaceholderIndex).TextFrame
	frame.Clear()

	for _, item := range items {
		switch it := item.(type) {
		case entities.Leaf:
			frame.AddParagraph(it.Text, entities.LevelLeaf)
		case *entities.Leaf:
			frame.AddParagraph(it.Text, entities.LevelLeaf)
		case entities.Group:
			addGroup(frame, it)
		case *entities.Group:
			addGroup(frame, *it)
		}
	}

	return nil
}

// RenderTitleSlide appends one slide with a title and a single subtitle paragraph
func (r *DeckRenderer) RenderTitleSlide(doc *entities.Document, layoutIndex int, title, subtitle string) error {
	slide, err := r.addSlide(doc, layoutIndex)
	if err != nil {
		return err
	}

	slide.Title().TextFrame.SetText(title)
	slide.Placeholder(bodyPlaceholderIndex).TextFrame.SetText(subtitle)

	return nil
}

// addSlide checks the layout before appending so a mismatch never leaves a
// half-built slide behind
func (r *DeckRenderer) addSlide(doc *entities.Document, layoutIndex int) (*entities.Slide, error) {
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}

	layout, err := doc.Layout(layoutIndex)
	if err != nil {
		return nil, err
	}

	if _, ok := layout.TitlePlaceholder(); !ok {
		return nil, &entities.LayoutMismatchError{Layout: layout.Name, Index: layoutIndex, Missing: "title"}
	}

	ph, ok := layout.PlaceholderAt(bodyPlaceholderIndex)
	if !ok || ph.Type.IsTitle() {
		return nil, &entities.LayoutMismatchError{Layout: layout.Name, Index: layoutIndex, Missing: "body"}
	}

	return doc.AddSlide(layoutIndex)
}

func addGroup(frame *entities.TextFrame, group entities.Group) {
	frame.AddParagraph(group.Heading, entities.LevelGroupHeading)
	for _, child := range group.Children {
		frame.AddParagraph(child, entities.LevelGroupChild)
	}
}

// checkItems rejects anything that is not a leaf or a group before the document is
// touched
func checkItems(items []entities.ContentItem) error {
	for i, item := range items {
		switch it := item.(type) {
		case entities.Leaf, entities.Group:
		case *entities.Leaf:
			if it == nil {
				return &entities.UnsupportedNestingError{Item: i + 1, Reason: "item is nil"}
			}
		case *entities.Group:
			if it == nil {
				return &entities.UnsupportedNestingError{Item: i + 1, Reason: "item is nil"}
			}
		case nil:
			return &entities.UnsupportedNestingError{Item: i + 1, Reason: "item is nil"}
		default:
			return &entities.UnsupportedNestingError{Item: i + 1, Reason: fmt.Sprintf("unsupported item type %T", item)}
		}
	}
	return nil
}
