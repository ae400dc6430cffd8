package entities

// ItemKind discriminates the variants of ContentItem
type ItemKind int

const (
	// ItemLeaf is a single bullet
	ItemLeaf ItemKind = iota
	// ItemGroup is a bullet with one level of sub-bullets
	ItemGroup
)

// String returns the kind name used in error messages
func (k ItemKind) String() string {
	switch k {
	case ItemLeaf:
		return "leaf"
	case ItemGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ContentItem is one entry of a content slide body. The only implementations are
// Leaf and Group, so a body can never nest deeper than two levels.
type ContentItem interface {
	Kind() ItemKind
	isContentItem()
}

// Leaf is a single top-level bullet
type Leaf struct {
	Text string `yaml:"text" json:"text"`
}

// Kind implements ContentItem
func (Leaf) Kind() ItemKind { return ItemLeaf }

func (Leaf) isContentItem() {}

// Group is a bullet heading followed by flat sub-bullets
type Group struct {
	Heading  string   `yaml:"heading" json:"heading"`
	Children []string `yaml:"children" json:"children"`
}

// Kind implements ContentItem
func (Group) Kind() ItemKind { return ItemGroup }

func (Group) isContentItem() {}

// NewLeaf creates a leaf item
func NewLeaf(text string) Leaf {
	return Leaf{Text: text}
}

// NewGroup creates a group item; children are copied so later edits to the
// argument do not leak into the deck
func NewGroup(heading string, children ...string) Group {
	return Group{
		Heading:  heading,
		Children: append([]string(nil), children...),
	}
}

// Paragraph levels produced for each kind of item
const (
	LevelLeaf         = 0
	LevelGroupHeading = 1
	LevelGroupChild   = 2
)
