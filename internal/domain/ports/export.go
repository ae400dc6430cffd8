package ports

import (
	"context"
	"io"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// ExportOptions selects the output artifact
type ExportOptions struct {
	Format     string
	OutputPath string
	Overwrite  bool
}

// ExportResult describes a persisted document
type ExportResult struct {
	Format     string
	OutputPath string
	FileSize   int64
	SlideCount int
}

// DocumentEncoder serializes a finished document in one format
type DocumentEncoder interface {
	Encode(ctx context.Context, doc *entities.Document, w io.Writer) error
	Format() string
	Extension() string
}

// DocumentExporter persists a finished document exactly once
type DocumentExporter interface {
	Export(ctx context.Context, doc *entities.Document, options ExportOptions) (*ExportResult, error)
}
