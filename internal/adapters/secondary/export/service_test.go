package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/adapters/secondary/logging"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/test/builders"
)

// MockEncoder implements ports.DocumentEncoder for testing
type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) Encode(ctx context.Context, doc *entities.Document, w io.Writer) error {
	args := m.Called(ctx, doc, w)
	return args.Error(0)
}

func (m *MockEncoder) Format() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockEncoder) Extension() string {
	args := m.Called()
	return args.String(0)
}

func newTestService() *Service {
	return NewService(ports.NewRealFileSystem(), logging.NewNop())
}

func TestNewService(t *testing.T) {
	service := newTestService()
	assert.Equal(t, []string{entities.FormatMarkdown, entities.FormatPPTX}, service.GetSupportedFormats())
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	doc := buildDocument(t, builders.ReliabilityOutlineDeck())

	t.Run("writes pptx", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Service_Reliability_Presentation.pptx")

		result, err := newTestService().Export(ctx, doc, ports.ExportOptions{
			Format:     entities.FormatPPTX,
			OutputPath: path,
			Overwrite:  true,
		})
		require.NoError(t, err)

		assert.Equal(t, entities.FormatPPTX, result.Format)
		assert.Equal(t, path, result.OutputPath)
		assert.Equal(t, 3, result.SlideCount)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), result.FileSize)
	})

	t.Run("defaults to pptx", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.pptx")

		result, err := newTestService().Export(ctx, doc, ports.ExportOptions{OutputPath: path})
		require.NoError(t, err)
		assert.Equal(t, entities.FormatPPTX, result.Format)
	})

	t.Run("writes markdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.md")

		result, err := newTestService().Export(ctx, doc, ports.ExportOptions{
			Format:     entities.FormatMarkdown,
			OutputPath: path,
		})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Nội dung chính")
		assert.Equal(t, int64(len(data)), result.FileSize)
	})

	t.Run("unknown format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.pdf")

		_, err := newTestService().Export(ctx, doc, ports.ExportOptions{Format: "pdf", OutputPath: path})
		assert.ErrorIs(t, err, entities.ErrUnknownFormat)
		assert.NoFileExists(t, path)
	})

	t.Run("invalid options", func(t *testing.T) {
		service := newTestService()

		_, err := service.Export(ctx, nil, ports.ExportOptions{OutputPath: "x.pptx"})
		assert.Error(t, err)

		_, err = service.Export(ctx, doc, ports.ExportOptions{OutputPath: "  "})
		assert.Error(t, err)
	})

	t.Run("encoder failure writes nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.pptx")
		encoder := new(MockEncoder)
		encoder.On("Format").Return(entities.FormatPPTX)
		encoder.On("Encode", ctx, doc, mock.Anything).Return(errors.New("boom"))

		service := newTestService()
		service.RegisterEncoder(encoder)

		_, err := service.Export(ctx, doc, ports.ExportOptions{Format: entities.FormatPPTX, OutputPath: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "encoding pptx")
		assert.NoFileExists(t, path)
		encoder.AssertExpectations(t)
	})

	t.Run("cancelled context writes nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.pptx")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := newTestService().Export(cancelled, doc, ports.ExportOptions{OutputPath: path})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, path)
	})
}
