package entities

// SlideKind discriminates the variants of SlideSpec
type SlideKind int

const (
	// SlideTitle is a title slide with a subtitle
	SlideTitle SlideKind = iota
	// SlideContent is a title and bulleted content slide
	SlideContent
)

// String returns the kind name used in logs and outlines
func (k SlideKind) String() string {
	switch k {
	case SlideTitle:
		return "title"
	case SlideContent:
		return "content"
	default:
		return "unknown"
	}
}

// SlideSpec describes one slide of a deck
type SlideSpec interface {
	Kind() SlideKind
	SlideTitle() string
	// ParagraphCount returns how many body paragraphs the slide renders to
	ParagraphCount() int
	isSlideSpec()
}

// TitleSlide is an opening or closing slide
type TitleSlide struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
}

// Kind implements SlideSpec
func (TitleSlide) Kind() SlideKind { return SlideTitle }

// SlideTitle implements SlideSpec
func (s TitleSlide) SlideTitle() string { return s.Title }

// ParagraphCount implements SlideSpec; the subtitle is one paragraph
func (TitleSlide) ParagraphCount() int { return 1 }

func (TitleSlide) isSlideSpec() {}

// ContentSlide is a title with an ordered list of bullet items
type ContentSlide struct {
	Title string        `yaml:"title" json:"title"`
	Items []ContentItem `yaml:"-" json:"items"`
}

// Kind implements SlideSpec
func (ContentSlide) Kind() SlideKind { return SlideContent }

// SlideTitle implements SlideSpec
func (s ContentSlide) SlideTitle() string { return s.Title }

func (ContentSlide) isSlideSpec() {}

// ParagraphCount implements SlideSpec: one per leaf, a heading plus one per child
// for each group
func (s ContentSlide) ParagraphCount() int {
	count := 0
	for _, item := range s.Items {
		switch it := item.(type) {
		case Leaf:
			count++
		case *Leaf:
			if it != nil {
				count++
			}
		case Group:
			count += 1 + len(it.Children)
		case *Group:
			if it != nil {
				count += 1 + len(it.Children)
			}
		}
	}
	return count
}

// derefSlide returns the value behind a pointer spec; a nil pointer yields nil
func derefSlide(spec SlideSpec) SlideSpec {
	switch s := spec.(type) {
	case *TitleSlide:
		if s == nil {
			return nil
		}
		return *s
	case *ContentSlide:
		if s == nil {
			return nil
		}
		return *s
	}
	return spec
}

// isNilItem reports a nil item, including a nil *Leaf or *Group
func isNilItem(item ContentItem) bool {
	switch it := item.(type) {
	case nil:
		return true
	case *Leaf:
		return it == nil
	case *Group:
		return it == nil
	}
	return false
}
