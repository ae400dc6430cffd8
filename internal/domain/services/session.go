package services

import (
	"fmt"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// LayoutSelection names the layouts title and content slides are built from
type LayoutSelection struct {
	Title   int
	Content int
}

// DefaultLayoutSelection uses "Title Slide" and "Title and Content"
func DefaultLayoutSelection() LayoutSelection {
	return LayoutSelection{
		Title:   entities.LayoutTitleSlide,
		Content: entities.LayoutTitleAndContent,
	}
}

// BuildSession owns one document while it is being built. The document only leaves
// the session through Finish.
type BuildSession struct {
	renderer *DeckRenderer
	layouts  LayoutSelection
	doc      *entities.Document
	finished bool
}

// NewSession starts a session over a fresh document with the default layouts
func NewSession(renderer *DeckRenderer, layouts LayoutSelection) *BuildSession {
	return NewSessionWithDocument(renderer, layouts, entities.NewDocument())
}

// NewSessionWithDocument starts a session over a caller supplied empty document
func NewSessionWithDocument(renderer *DeckRenderer, layouts LayoutSelection, doc *entities.Document) *BuildSession {
	if renderer == nil {
		renderer = NewDeckRenderer()
	}
	return &BuildSession{
		renderer: renderer,
		layouts:  layouts,
		doc:      doc,
	}
}

// AddTitleSlide renders a title slide
func (s *BuildSession) AddTitleSlide(title, subtitle string) error {
	if s.finished {
		return entities.ErrSessionFinished
	}
	return s.renderer.RenderTitleSlide(s.doc, s.layouts.Title, title, subtitle)
}

// AddContentSlide renders a title and content slide
func (s *BuildSession) AddContentSlide(title string, items []entities.ContentItem) error {
	if s.finished {
		return entities.ErrSessionFinished
	}
	return s.renderer.RenderContentSlide(s.doc, s.layouts.Content, title, items)
}

// Add renders any slide specification
func (s *BuildSession) Add(spec entities.SlideSpec) error {
	switch slide := spec.(type) {
	case entities.TitleSlide:
		return s.AddTitleSlide(slide.Title, slide.Subtitle)
	case *entities.TitleSlide:
		if slide == nil {
			return fmt.Errorf("slide is nil")
		}
		return s.AddTitleSlide(slide.Title, slide.Subtitle)
	case entities.ContentSlide:
		return s.AddContentSlide(slide.Title, slide.Items)
	case *entities.ContentSlide:
		if slide == nil {
			return fmt.Errorf("slide is nil")
		}
		return s.AddContentSlide(slide.Title, slide.Items)
	default:
		return fmt.Errorf("unsupported slide type %T", spec)
	}
}

// SlideCount returns the number of slides rendered so far
func (s *BuildSession) SlideCount() int {
	if s.doc == nil {
		return 0
	}
	return s.doc.SlideCount()
}

// Finish closes the session and hands the document over
func (s *BuildSession) Finish() (*entities.Document, error) {
	if s.finished {
		return nil, entities.ErrSessionFinished
	}
	s.finished = true

	doc := s.doc
	s.doc = nil
	return doc, nil
}
