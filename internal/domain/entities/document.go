package entities

import (
	"fmt"
	"time"
)

// PlaceholderType names the kind of region a layout placeholder holds
type PlaceholderType string

const (
	PlaceholderTitle       PlaceholderType = "title"
	PlaceholderCenterTitle PlaceholderType = "ctrTitle"
	PlaceholderSubtitle    PlaceholderType = "subTitle"
	PlaceholderBody        PlaceholderType = "body"
)

// IsTitle reports whether the placeholder holds a slide title
func (t PlaceholderType) IsTitle() bool {
	return t == PlaceholderTitle || t == PlaceholderCenterTitle
}

// Placeholder is a designated region of a slide layout
type Placeholder struct {
	Type  PlaceholderType
	Index int
	Name  string
}

// Layout is a slide template
type Layout struct {
	Name         string
	Placeholders []Placeholder
}

// TitlePlaceholder returns the layout's title placeholder, if any
func (l *Layout) TitlePlaceholder() (Placeholder, bool) {
	for _, ph := range l.Placeholders {
		if ph.Type.IsTitle() {
			return ph, true
		}
	}
	return Placeholder{}, false
}

// PlaceholderAt returns the placeholder with the given idx, if any
func (l *Layout) PlaceholderAt(idx int) (Placeholder, bool) {
	for _, ph := range l.Placeholders {
		if ph.Index == idx {
			return ph, true
		}
	}
	return Placeholder{}, false
}

// Layout indexes of DefaultLayouts
const (
	LayoutTitleSlide = iota
	LayoutTitleAndContent
	LayoutSectionHeader
	LayoutTitleOnly
	LayoutBlank
)

// DefaultLayouts returns the layouts every new document starts with
func DefaultLayouts() []*Layout {
	return []*Layout{
		{
			Name: "Title Slide",
			Placeholders: []Placeholder{
				{Type: PlaceholderCenterTitle, Index: 0, Name: "Title 1"},
				{Type: PlaceholderSubtitle, Index: 1, Name: "Subtitle 2"},
			},
		},
		{
			Name: "Title and Content",
			Placeholders: []Placeholder{
				{Type: PlaceholderTitle, Index: 0, Name: "Title 1"},
				{Type: PlaceholderBody, Index: 1, Name: "Content Placeholder 2"},
			},
		},
		{
			Name: "Section Header",
			Placeholders: []Placeholder{
				{Type: PlaceholderTitle, Index: 0, Name: "Title 1"},
				{Type: PlaceholderBody, Index: 1, Name: "Text Placeholder 2"},
			},
		},
		{
			Name: "Title Only",
			Placeholders: []Placeholder{
				{Type: PlaceholderTitle, Index: 0, Name: "Title 1"},
			},
		},
		{
			Name: "Blank",
		},
	}
}

// Paragraph is one line of text at an indent level
type Paragraph struct {
	Text  string
	Level int
}

// TextFrame holds the paragraphs of a shape
type TextFrame struct {
	Paragraphs []Paragraph
}

// SetText replaces all paragraphs with a single one holding text
func (f *TextFrame) SetText(text string) {
	f.Paragraphs = []Paragraph{{Text: text}}
}

// Text returns the text of the first paragraph
func (f *TextFrame) Text() string {
	if len(f.Paragraphs) == 0 {
		return ""
	}
	return f.Paragraphs[0].Text
}

// Clear removes every paragraph
func (f *TextFrame) Clear() {
	f.Paragraphs = nil
}

// AddParagraph appends a paragraph
func (f *TextFrame) AddParagraph(text string, level int) {
	f.Paragraphs = append(f.Paragraphs, Paragraph{Text: text, Level: level})
}

// Shape is a placeholder instantiated on a slide
type Shape struct {
	ID          int
	Placeholder Placeholder
	TextFrame   *TextFrame
}

// Slide is one slide of a document
type Slide struct {
	// Number is the 1-based position in the document
	Number      int
	LayoutIndex int
	Layout      *Layout
	Shapes      []*Shape
}

// Title returns the title shape, or nil
func (s *Slide) Title() *Shape {
	for _, shape := range s.Shapes {
		if shape.Placeholder.Type.IsTitle() {
			return shape
		}
	}
	return nil
}

// Placeholder returns the shape with the given placeholder idx, or nil
func (s *Slide) Placeholder(idx int) *Shape {
	for _, shape := range s.Shapes {
		if shape.Placeholder.Index == idx {
			return shape
		}
	}
	return nil
}

// Body returns the body placeholder shape, or nil
func (s *Slide) Body() *Shape {
	for _, shape := range s.Shapes {
		if shape.Placeholder.Type == PlaceholderBody {
			return shape
		}
	}
	return nil
}

// BodyParagraphs returns the paragraphs of the body placeholder; slides without a
// body have none
func (s *Slide) BodyParagraphs() []Paragraph {
	body := s.Body()
	if body == nil {
		return nil
	}
	return body.TextFrame.Paragraphs
}

// DocumentProperties are written to the package core and app properties
type DocumentProperties struct {
	Title      string
	Creator    string
	Company    string
	Language   string
	Identifier string
	Created    time.Time
}

// Document is the in-memory presentation being built
type Document struct {
	Properties DocumentProperties
	layouts    []*Layout
	slides     []*Slide
}

// NewDocument creates an empty document with the default layouts
func NewDocument() *Document {
	return NewDocumentWithLayouts(DefaultLayouts())
}

// NewDocumentWithLayouts creates an empty document with custom layouts
func NewDocumentWithLayouts(layouts []*Layout) *Document {
	return &Document{
		layouts: layouts,
		slides:  make([]*Slide, 0),
	}
}

// Layout returns the layout at index
func (d *Document) Layout(index int) (*Layout, error) {
	if index < 0 || index >= len(d.layouts) {
		return nil, &LayoutMismatchError{Index: index}
	}
	return d.layouts[index], nil
}

// Layouts returns all layouts in index order
func (d *Document) Layouts() []*Layout {
	return d.layouts
}

// AddSlide appends a slide instantiated from the layout at index. Every placeholder
// gets a shape with an empty text frame.
func (d *Document) AddSlide(layoutIndex int) (*Slide, error) {
	layout, err := d.Layout(layoutIndex)
	if err != nil {
		return nil, err
	}

	slide := &Slide{
		Number:      len(d.slides) + 1,
		LayoutIndex: layoutIndex,
		Layout:      layout,
		Shapes:      make([]*Shape, 0, len(layout.Placeholders)),
	}
	// Shape id 1 is the slide's group shape
	for i, ph := range layout.Placeholders {
		slide.Shapes = append(slide.Shapes, &Shape{
			ID:          i + 2,
			Placeholder: ph,
			TextFrame:   &TextFrame{Paragraphs: []Paragraph{{}}},
		})
	}

	d.slides = append(d.slides, slide)
	return slide, nil
}

// Slides returns the slides in order
func (d *Document) Slides() []*Slide {
	return d.slides
}

// SlideCount returns the number of slides
func (d *Document) SlideCount() int {
	return len(d.slides)
}

// SlideAt returns the slide at a 0-based index
func (d *Document) SlideAt(index int) (*Slide, error) {
	if index < 0 || index >= len(d.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(d.slides)-1)
	}
	return d.slides[index], nil
}
