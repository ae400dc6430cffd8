package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// MarkdownEncoder writes a document as a Markdown outline. Bullets are indented two
// spaces per paragraph level.
type MarkdownEncoder struct{}

// NewMarkdownEncoder creates a new markdown encoder
func NewMarkdownEncoder() *MarkdownEncoder {
	return &MarkdownEncoder{}
}

// Format implements ports.DocumentEncoder
func (e *MarkdownEncoder) Format() string { return entities.FormatMarkdown }

// Extension implements ports.DocumentEncoder
func (e *MarkdownEncoder) Extension() string { return ".md" }

type outlineFrontmatter struct {
	Title    string `yaml:"title,omitempty"`
	Author   string `yaml:"author,omitempty"`
	Company  string `yaml:"company,omitempty"`
	Language string `yaml:"language,omitempty"`
	ID       string `yaml:"id,omitempty"`
}

// Encode writes the outline to w
func (e *MarkdownEncoder) Encode(ctx context.Context, doc *entities.Document, w io.Writer) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}

	bw := bufio.NewWriter(w)

	front, err := yaml.Marshal(outlineFrontmatter{
		Title:    doc.Properties.Title,
		Author:   doc.Properties.Creator,
		Company:  doc.Properties.Company,
		Language: doc.Properties.Language,
		ID:       doc.Properties.Identifier,
	})
	if err != nil {
		return fmt.Errorf("encoding frontmatter: %w", err)
	}
	bw.WriteString("---\n")
	bw.Write(front)
	bw.WriteString("---\n")

	for _, slide := range doc.Slides() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if slide.Number > 1 {
			bw.WriteString("\n---\n")
		}
		writeOutlineSlide(bw, slide)
	}

	return bw.Flush()
}

func writeOutlineSlide(w *bufio.Writer, slide *entities.Slide) {
	w.WriteString("\n#")
	if title := slide.Title(); title != nil {
		if text := oneLine(title.TextFrame.Text()); text != "" {
			w.WriteString(" " + text)
		}
	}
	w.WriteString("\n")

	shape := slide.Placeholder(bodyIndex)
	if shape == nil || len(shape.TextFrame.Paragraphs) == 0 {
		return
	}

	if shape.Placeholder.Type == entities.PlaceholderSubtitle {
		if text := oneLine(shape.TextFrame.Text()); text != "" {
			w.WriteString("\n" + text + "\n")
		}
		return
	}

	w.WriteString("\n")
	for _, p := range shape.TextFrame.Paragraphs {
		w.WriteString(strings.Repeat("  ", p.Level) + "- " + oneLine(p.Text) + "\n")
	}
}

// bodyIndex is the placeholder idx holding subtitles and bullets
const bodyIndex = 1

func oneLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
