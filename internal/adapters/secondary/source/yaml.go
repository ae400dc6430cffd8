package source

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// ErrNotADeck is returned for documents without slides
var ErrNotADeck = errors.New("document has no slides key")

// YAMLDecoder reads decks written as YAML documents:
//
//	title: Service Reliability
//	language: vi-VN
//	slides:
//	  - title: Service Reliability
//	    subtitle: Xây dựng và Đo lường Dịch vụ Đáng Tin cậy
//	  - title: Nội dung chính
//	    items:
//	      - A leaf
//	      - [A group heading, first child, second child]
//	      - heading: Another group
//	        children: [child]
//
// A slide with an items key is a content slide, any other slide is a title slide.
type YAMLDecoder struct{}

// NewYAMLDecoder creates a new YAML deck decoder
func NewYAMLDecoder() *YAMLDecoder {
	return &YAMLDecoder{}
}

// Extensions implements ports.DeckDecoder
func (d *YAMLDecoder) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Decode implements ports.DeckDecoder
func (d *YAMLDecoder) Decode(ctx context.Context, name string, content []byte) (*entities.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc yamlDeck
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	if doc.Slides == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotADeck)
	}

	deck := &entities.Deck{
		ID:       doc.ID,
		Name:     doc.Name,
		Title:    doc.Title,
		Author:   doc.Author,
		Company:  doc.Company,
		Language: doc.Language,
		Slides:   make([]entities.SlideSpec, 0, len(doc.Slides)),
	}

	for i := range doc.Slides {
		slide, err := decodeSlide(&doc.Slides[i], i+1)
		if err != nil {
			return nil, err
		}
		deck.Slides = append(deck.Slides, slide)
	}

	return deck, nil
}

type yamlDeck struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Title    string      `yaml:"title"`
	Author   string      `yaml:"author"`
	Company  string      `yaml:"company"`
	Language string      `yaml:"language"`
	Slides   []yaml.Node `yaml:"slides"`
}

func decodeSlide(node *yaml.Node, index int) (entities.SlideSpec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("slide %d (line %d): expected a mapping", index, node.Line)
	}

	var (
		title, subtitle string
		items           *yaml.Node
		hasSubtitle     bool
	)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "title":
			if err := value.Decode(&title); err != nil {
				return nil, fmt.Errorf("slide %d title: %w", index, err)
			}
		case "subtitle":
			if err := value.Decode(&subtitle); err != nil {
				return nil, fmt.Errorf("slide %d subtitle: %w", index, err)
			}
			hasSubtitle = true
		case "items":
			items = value
		default:
			return nil, fmt.Errorf("slide %d (line %d): unknown key %q", index, key.Line, key.Value)
		}
	}

	if items == nil {
		return entities.TitleSlide{Title: title, Subtitle: subtitle}, nil
	}

	if hasSubtitle {
		return nil, fmt.Errorf("slide %d (line %d): a slide has either a subtitle or items", index, node.Line)
	}

	content, err := decodeItems(items, index)
	if err != nil {
		return nil, err
	}
	return entities.ContentSlide{Title: title, Items: content}, nil
}

func decodeItems(node *yaml.Node, slide int) ([]entities.ContentItem, error) {
	if isNull(node) {
		return []entities.ContentItem{}, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("slide %d items (line %d): expected a list", slide, node.Line)
	}

	items := make([]entities.ContentItem, 0, len(node.Content))
	for i, child := range node.Content {
		item, err := decodeItem(child, slide, i+1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(node *yaml.Node, slide, index int) (entities.ContentItem, error) {
	nestingErr := func(depth int, reason string) error {
		return &entities.UnsupportedNestingError{
			Slide:  slide,
			Item:   index,
			Depth:  depth,
			Reason: fmt.Sprintf("%s (line %d)", reason, node.Line),
		}
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if isNull(node) {
			return nil, nestingErr(0, "item is null")
		}
		return entities.NewLeaf(node.Value), nil

	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return nil, nestingErr(0, "group is empty")
		}
		texts, depth := scalars(node.Content)
		if depth > 0 {
			return nil, nestingErr(depth, "group children must be plain text")
		}
		return entities.NewGroup(texts[0], texts[1:]...), nil

	case yaml.MappingNode:
		var (
			heading  string
			children []string
		)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "heading":
				if value.Kind != yaml.ScalarNode {
					return nil, nestingErr(0, "heading must be plain text")
				}
				heading = value.Value
			case "children":
				if isNull(value) {
					continue
				}
				if value.Kind != yaml.SequenceNode {
					return nil, nestingErr(0, "children must be a list")
				}
				texts, depth := scalars(value.Content)
				if depth > 0 {
					return nil, nestingErr(depth, "group children must be plain text")
				}
				children = texts
			default:
				return nil, nestingErr(0, fmt.Sprintf("unknown key %q", key.Value))
			}
		}
		return entities.NewGroup(heading, children...), nil

	default:
		return nil, nestingErr(0, "unsupported item")
	}
}

// scalars returns the values of group children. When a child is a collection it
// returns the nesting depth its contents reach instead; children sit at depth 2.
func scalars(nodes []*yaml.Node) ([]string, int) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == yaml.ScalarNode {
			out = append(out, n.Value)
			continue
		}
		return nil, 2 + nodeDepth(n)
	}
	return out, 0
}

// nodeDepth is the number of collection levels below and including n
func nodeDepth(n *yaml.Node) int {
	if n.Kind != yaml.SequenceNode && n.Kind != yaml.MappingNode {
		return 0
	}
	deepest := 0
	for _, c := range n.Content {
		if d := nodeDepth(c); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
