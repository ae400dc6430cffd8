package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// MarkdownDecoder reads decks written as Markdown. Slides are separated by a line
// holding only ---. The first heading of a slide is its title. A slide with a list
// is a content slide: top level items are leaves, items with a nested list are
// groups. A slide without a list is a title slide whose paragraphs form the
// subtitle. Optional YAML frontmatter carries the deck metadata.
type MarkdownDecoder struct {
	md goldmark.Markdown
}

// NewMarkdownDecoder creates a new Markdown deck decoder
func NewMarkdownDecoder() *MarkdownDecoder {
	// No typographer: text must reach the slides unchanged
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	return &MarkdownDecoder{md: md}
}

// Extensions implements ports.DeckDecoder
func (d *MarkdownDecoder) Extensions() []string {
	return []string{".md", ".markdown"}
}

type markdownFrontmatter struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Company  string `yaml:"company"`
	Language string `yaml:"language"`
}

// Decode implements ports.DeckDecoder
func (d *MarkdownDecoder) Decode(ctx context.Context, name string, content []byte) (*entities.Deck, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	front, remaining, err := extractFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s frontmatter: %w", name, err)
	}

	chunks := splitSlides(remaining)

	deck := &entities.Deck{
		ID:       front.ID,
		Name:     front.Name,
		Title:    front.Title,
		Author:   front.Author,
		Company:  front.Company,
		Language: front.Language,
		Slides:   make([]entities.SlideSpec, 0, len(chunks)),
	}

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slide, err := d.decodeSlide(chunk, i+1)
		if err != nil {
			return nil, err
		}
		deck.Slides = append(deck.Slides, slide)
	}

	return deck, nil
}

// decodeSlide parses a single slide's content
func (d *MarkdownDecoder) decodeSlide(source []byte, index int) (entities.SlideSpec, error) {
	root := d.md.Parser().Parse(text.NewReader(source))

	var (
		title      string
		hasTitle   bool
		hasList    bool
		paragraphs []string
		items      []entities.ContentItem
	)

	addText := func(s string) {
		if hasList {
			items = append(items, entities.NewLeaf(s))
		} else {
			paragraphs = append(paragraphs, s)
		}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch block := n.(type) {
		case *ast.Heading:
			if !hasTitle {
				title = blockText(block, source)
				hasTitle = true
				continue
			}
			addText(blockText(block, source))

		case *ast.Paragraph, *ast.FencedCodeBlock, *ast.CodeBlock, *ast.Blockquote:
			if s := nodeText(block, source); s != "" {
				addText(s)
			}

		case *ast.List:
			if !hasList {
				// Text before the first list becomes leading bullets
				for _, p := range paragraphs {
					items = append(items, entities.NewLeaf(p))
				}
				paragraphs = nil
				hasList = true
			}

			converted, err := listItems(block, source, index, len(items))
			if err != nil {
				return nil, err
			}
			items = append(items, converted...)
		}
	}

	if hasList {
		return entities.ContentSlide{Title: title, Items: items}, nil
	}
	return entities.TitleSlide{Title: title, Subtitle: strings.Join(paragraphs, "\n")}, nil
}

// listItems converts a top level list. offset is the number of items already on
// the slide.
func listItems(list *ast.List, source []byte, slide, offset int) ([]entities.ContentItem, error) {
	out := make([]entities.ContentItem, 0, list.ChildCount())

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		index := offset + len(out) + 1

		var (
			lines    []string
			children []string
			nested   bool
		)

		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			sub, ok := c.(*ast.List)
			if !ok {
				lines = append(lines, nodeText(c, source))
				continue
			}

			nested = true
			for child := sub.FirstChild(); child != nil; child = child.NextSibling() {
				if depth := listDepth(child); depth > 0 {
					return nil, &entities.UnsupportedNestingError{
						Slide:  slide,
						Item:   index,
						Depth:  2 + depth,
						Reason: "group children must be plain text",
					}
				}
				children = append(children, nodeText(child, source))
			}
		}

		heading := strings.Join(lines, "\n")
		if nested {
			out = append(out, entities.NewGroup(heading, children...))
		} else {
			out = append(out, entities.NewLeaf(heading))
		}
	}

	return out, nil
}

// listDepth returns how many list levels sit below n
func listDepth(n ast.Node) int {
	deepest := 0
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		d := listDepth(c)
		if _, ok := c.(*ast.List); ok {
			d++
		}
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

// nodeText returns the text of a block. Code keeps its lines; containers join
// their blocks with line breaks. Nested lists are skipped.
func nodeText(n ast.Node, source []byte) string {
	switch n.(type) {
	case *ast.List:
		return ""
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return codeText(n, source)
	case *ast.Blockquote, *ast.ListItem:
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if s := nodeText(c, source); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return blockText(n, source)
	}
}

func codeText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}

// blockText returns the plain text of a block, skipping nested lists
func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	writeInline(&b, n, source)
	return strings.TrimSpace(b.String())
}

func writeInline(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.List:
			continue
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.HardLineBreak() {
				b.WriteByte('\n')
			} else if v.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(source))
		case *ast.RawHTML:
			continue
		default:
			writeInline(b, c, source)
		}
	}
}

// extractFrontmatter extracts YAML frontmatter from markdown content
func extractFrontmatter(content []byte) (markdownFrontmatter, []byte, error) {
	var front markdownFrontmatter

	// Check if content starts with frontmatter delimiter
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return front, content, nil
	}

	// Find the end of frontmatter
	lines := bytes.Split(content, []byte("\n"))
	endIndex := -1

	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			endIndex = i
			break
		}
	}

	if endIndex == -1 {
		// No closing delimiter: the leading rule is just an empty first slide
		return front, content, nil
	}

	frontmatterBytes := bytes.Join(lines[1:endIndex], []byte("\n"))
	if err := yaml.Unmarshal(frontmatterBytes, &front); err != nil {
		return front, nil, err
	}

	return front, bytes.Join(lines[endIndex+1:], []byte("\n")), nil
}

// splitSlides splits content into individual slides
func splitSlides(content []byte) [][]byte {
	// Split by slide delimiter
	slideStrings := strings.Split("\n"+string(content)+"\n", "\n---\n")

	slides := make([][]byte, 0, len(slideStrings))
	for _, slide := range slideStrings {
		trimmed := strings.TrimSpace(slide)
		if trimmed != "" {
			slides = append(slides, []byte(trimmed))
		}
	}

	return slides
}
