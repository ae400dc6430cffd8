package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// embeddedLeaf satisfies ContentItem through embedding but is neither a Leaf nor
// a Group
type embeddedLeaf struct {
	entities.Leaf
}

func TestDeckRenderer_RenderContentSlide(t *testing.T) {
	renderer := NewDeckRenderer()

	t.Run("adds exactly one slide", func(t *testing.T) {
		doc := entities.NewDocument()
		_, err := doc.AddSlide(entities.LayoutTitleOnly)
		require.NoError(t, err)
		before := doc.SlideCount()

		err = renderer.RenderContentSlide(doc, entities.LayoutTitleAndContent, "Title", []entities.ContentItem{entities.NewLeaf("a")})
		require.NoError(t, err)

		assert.Equal(t, before+1, doc.SlideCount())
		assert.Equal(t, before+1, doc.Slides()[before].Number)
	})

	t.Run("leaves render at level 0", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderContentSlide(doc, entities.LayoutTitleAndContent, "Nội dung chính", []entities.ContentItem{
			entities.NewLeaf("A"),
			entities.NewLeaf("B"),
		})
		require.NoError(t, err)

		slide := doc.Slides()[0]
		assert.Equal(t, "Nội dung chính", slide.Title().TextFrame.Text())
		assert.Equal(t, []entities.Paragraph{
			{Text: "A", Level: 0},
			{Text: "B", Level: 0},
		}, slide.BodyParagraphs())
	})

	t.Run("group renders heading and children", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderContentSlide(doc, entities.LayoutTitleAndContent, "Group", []entities.ContentItem{
			entities.NewGroup("Parent", "Child1", "Child2"),
		})
		require.NoError(t, err)

		assert.Equal(t, []entities.Paragraph{
			{Text: "Parent", Level: 1},
			{Text: "Child1", Level: 2},
			{Text: "Child2", Level: 2},
		}, doc.Slides()[0].BodyParagraphs())
	})

	t.Run("interleaved items keep order and levels", func(t *testing.T) {
		doc := entities.NewDocument()
		leaf := entities.NewLeaf("pointer leaf")

		err := renderer.RenderContentSlide(doc, entities.LayoutTitleAndContent, "Mixed", []entities.ContentItem{
			entities.NewLeaf("one"),
			entities.NewGroup("two", "two.a"),
			&leaf,
			entities.NewGroup("three"),
			&entities.Group{Heading: "four", Children: []string{"four.a", "four.b"}},
			entities.NewLeaf("five"),
		})
		require.NoError(t, err)

		assert.Equal(t, []entities.Paragraph{
			{Text: "one", Level: 0},
			{Text: "two", Level: 1},
			{Text: "two.a", Level: 2},
			{Text: "pointer leaf", Level: 0},
			{Text: "three", Level: 1},
			{Text: "four", Level: 1},
			{Text: "four.a", Level: 2},
			{Text: "four.b", Level: 2},
			{Text: "five", Level: 0},
		}, doc.Slides()[0].BodyParagraphs())
	})

	t.Run("empty items clear the body", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderContentSlide(doc, entities.LayoutTitleAndContent, "Empty", nil)
		require.NoError(t, err)

		slide := doc.Slides()[0]
		assert.Equal(t, "Empty", slide.Title().TextFrame.Text())
		require.NotNil(t, slide.Body())
		assert.Empty(t, slide.BodyParagraphs())
	})

	t.Run("title is passed through untouched", func(t *testing.T) {
		doc := entities.NewDocument()
		title := "  Latency p95/p99: Tiêu chuẩn ngành <ok> & \"quoted\"  "

		err := renderer.RenderContentSlide(doc, entities.LayoutTitleAndContent, title, nil)
		require.NoError(t, err)
		assert.Equal(t, title, doc.Slides()[0].Title().TextFrame.Text())
	})

	t.Run("layout without body", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderContentSlide(doc, entities.LayoutTitleOnly, "t", nil)

		var mismatch *entities.LayoutMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "body", mismatch.Missing)
		assert.Equal(t, "Title Only", mismatch.Layout)
		assert.Equal(t, 0, doc.SlideCount())
	})

	t.Run("layout without title", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderContentSlide(doc, entities.LayoutBlank, "t", nil)

		var mismatch *entities.LayoutMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "title", mismatch.Missing)
		assert.Equal(t, 0, doc.SlideCount())
	})

	t.Run("layout out of range", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderContentSlide(doc, 99, "t", nil)

		var mismatch *entities.LayoutMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, 99, mismatch.Index)
	})

	t.Run("unsupported items are rejected before any mutation", func(t *testing.T) {
		var nilGroup *entities.Group

		cases := map[string][]entities.ContentItem{
			"nil item":     {entities.NewLeaf("fine"), nil},
			"nil pointer":  {nilGroup},
			"foreign item": {embeddedLeaf{entities.NewLeaf("x")}},
		}

		for name, items := range cases {
			t.Run(name, func(t *testing.T) {
				doc := entities.NewDocument()

				err := renderer.RenderContentSlide(doc, entities.LayoutTitleAndContent, "t", items)

				var nesting *entities.UnsupportedNestingError
				require.True(t, errors.As(err, &nesting))
				assert.Equal(t, len(items), nesting.Item)
				assert.Equal(t, 0, doc.SlideCount())
			})
		}
	})

	t.Run("nil document", func(t *testing.T) {
		err := renderer.RenderContentSlide(nil, entities.LayoutTitleAndContent, "t", nil)
		assert.Error(t, err)
	})
}

func TestDeckRenderer_RenderTitleSlide(t *testing.T) {
	renderer := NewDeckRenderer()

	t.Run("sets title and subtitle verbatim", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderTitleSlide(doc, entities.LayoutTitleSlide, "Service Reliability", "Xây dựng và Đo lường Dịch vụ Đáng Tin cậy")
		require.NoError(t, err)

		slide := doc.Slides()[0]
		assert.Equal(t, "Service Reliability", slide.Title().TextFrame.Text())
		subtitle := slide.Placeholder(1).TextFrame
		assert.Equal(t, []entities.Paragraph{{Text: "Xây dựng và Đo lường Dịch vụ Đáng Tin cậy"}}, subtitle.Paragraphs)
		assert.Empty(t, slide.BodyParagraphs())
	})

	t.Run("title layout without subtitle", func(t *testing.T) {
		doc := entities.NewDocument()

		err := renderer.RenderTitleSlide(doc, entities.LayoutTitleOnly, "t", "s")

		var mismatch *entities.LayoutMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, 0, doc.SlideCount())
	})

	t.Run("custom layout whose idx 1 is a second title", func(t *testing.T) {
		doc := entities.NewDocumentWithLayouts([]*entities.Layout{{
			Name: "Odd",
			Placeholders: []entities.Placeholder{
				{Type: entities.PlaceholderTitle, Index: 0},
				{Type: entities.PlaceholderCenterTitle, Index: 1},
			},
		}})

		err := renderer.RenderTitleSlide(doc, 0, "t", "s")

		var mismatch *entities.LayoutMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "body", mismatch.Missing)
	})
}
