package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/decks"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/services"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSource_LoadFile(t *testing.T) {
	ctx := context.Background()
	source := NewSource(nil)

	t.Run("yaml file", func(t *testing.T) {
		path := writeFile(t, "talk.yml", "slides:\n  - title: Hello\n    subtitle: World\n")

		deck, err := source.LoadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "talk", deck.Name)
		assert.Equal(t, []entities.SlideSpec{entities.TitleSlide{Title: "Hello", Subtitle: "World"}}, deck.Slides)
	})

	t.Run("markdown file keeps its own name", func(t *testing.T) {
		path := writeFile(t, "TALK.MD", "---\nname: custom\n---\n# Hello\n\n- a\n")

		deck, err := source.LoadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "custom", deck.Name)
		require.Len(t, deck.Slides, 1)
		assert.Equal(t, entities.SlideContent, deck.Slides[0].Kind())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "talk.pptx", "")

		_, err := source.LoadFile(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".markdown, .md, .yaml, .yml")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := source.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("decode errors name the file", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "title: no slides\n")

		_, err := source.LoadFile(ctx, path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotADeck)
		assert.Contains(t, err.Error(), path)
	})
}

func TestSource_Builtin(t *testing.T) {
	ctx := context.Background()
	source := NewSource(nil)

	assert.Equal(t, decks.Names(), source.Builtins())

	t.Run("unknown deck", func(t *testing.T) {
		_, err := source.LoadBuiltin(ctx, "nope")
		assert.ErrorIs(t, err, entities.ErrUnknownDeck)
	})

	deck, err := source.LoadBuiltin(ctx, decks.Default)
	require.NoError(t, err)

	t.Run("metadata", func(t *testing.T) {
		assert.Equal(t, "service-reliability", deck.Name)
		assert.Equal(t, "Service Reliability", deck.Title)
		assert.Equal(t, "vi-VN", deck.Language)
		require.NoError(t, deck.Validate(entities.ValidationRules{}))
	})

	t.Run("fourteen slides opening and closing with title slides", func(t *testing.T) {
		require.Equal(t, 14, deck.SlideCount())

		assert.Equal(t, entities.TitleSlide{
			Title:    "Service Reliability",
			Subtitle: "Xây dựng và Đo lường Dịch vụ Đáng Tin cậy",
		}, deck.Slides[0])
		assert.Equal(t, entities.TitleSlide{Title: "Q & A", Subtitle: "Cảm ơn đã lắng nghe!"}, deck.Slides[13])

		for i := 1; i < 13; i++ {
			assert.Equal(t, entities.SlideContent, deck.Slides[i].Kind(), "slide %d", i+1)
		}
	})

	t.Run("agenda", func(t *testing.T) {
		agenda := deck.Slides[1].(entities.ContentSlide)
		assert.Equal(t, "Nội dung chính", agenda.Title)
		assert.Len(t, agenda.Items, 6)
		assert.Equal(t, entities.NewLeaf("Các Metric bổ trợ: MTTR & MTBF"), agenda.Items[4])
	})

	t.Run("renders leaf and group levels", func(t *testing.T) {
		service := services.NewDeckService(nil, nil, services.DeckOptions{Layouts: services.DefaultLayoutSelection()})
		doc, err := service.Build(ctx, deck)
		require.NoError(t, err)
		require.Equal(t, 14, doc.SlideCount())

		slide, err := doc.SlideAt(6)
		require.NoError(t, err)
		assert.Equal(t, "Latency p95/p99: Tiêu chuẩn ngành", slide.Title().TextFrame.Text())
		assert.Equal(t, []entities.Paragraph{
			{Text: "Đối với các dịch vụ User-Facing (web/mobile app), p95 hoặc p99 latency là thước đo quan trọng nhất.", Level: 0},
			{Text: "Ngưỡng tâm lý người dùng:", Level: 0},
			{Text: "< 100ms: Phản hồi tức thì.", Level: 1},
			{Text: "200-250ms: Vẫn cảm thấy nhanh, chấp nhận được.", Level: 2},
			{Text: "> 500ms: Bắt đầu cảm thấy chậm, khó chịu.", Level: 2},
			{Text: "> 1s: Mất tập trung, có nguy cơ rời bỏ.", Level: 2},
			{Text: "Vì vậy, 200-250ms cho p95/p99 là tiêu chuẩn ngành cho các tác vụ chính.", Level: 0},
		}, slide.BodyParagraphs())

		sli, err := doc.SlideAt(10)
		require.NoError(t, err)
		assert.Len(t, sli.BodyParagraphs(), 14)
	})
}
