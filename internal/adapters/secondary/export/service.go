package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// Service implements export functionality
type Service struct {
	encoders map[string]ports.DocumentEncoder
	storage  *Storage
	logger   ports.Logger
}

// NewService creates a new export service writing through fs
func NewService(fs ports.FileSystem, logger ports.Logger) *Service {
	if logger == nil {
		logger = ports.NopLogger{}
	}

	service := &Service{
		encoders: make(map[string]ports.DocumentEncoder),
		storage:  NewStorage(fs),
		logger:   logger,
	}

	// Register default encoders
	service.RegisterEncoder(NewPPTXEncoder())
	service.RegisterEncoder(NewMarkdownEncoder())

	return service
}

// RegisterEncoder registers an encoder for the format it reports
func (s *Service) RegisterEncoder(encoder ports.DocumentEncoder) {
	s.encoders[encoder.Format()] = encoder
}

// GetSupportedFormats returns the registered formats in sorted order
func (s *Service) GetSupportedFormats() []string {
	formats := make([]string, 0, len(s.encoders))
	for format := range s.encoders {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Export encodes the document in memory and persists it in a single write
func (s *Service) Export(ctx context.Context, doc *entities.Document, options ports.ExportOptions) (*ports.ExportResult, error) {
	if err := s.validateOptions(doc, options); err != nil {
		return nil, err
	}

	format := options.Format
	if format == "" {
		format = entities.FormatPPTX
	}

	encoder, exists := s.encoders[format]
	if !exists {
		return nil, fmt.Errorf("%w: %s (supported: %s)", entities.ErrUnknownFormat, format, strings.Join(s.GetSupportedFormats(), ", "))
	}

	var buf bytes.Buffer
	if err := encoder.Encode(ctx, doc, &buf); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("document encoded",
		"format", format,
		"bytes", buf.Len(),
		"slides", doc.SlideCount(),
	)

	size, err := s.storage.Write(options.OutputPath, buf.Bytes(), options.Overwrite)
	if err != nil {
		return nil, err
	}

	return &ports.ExportResult{
		Format:     format,
		OutputPath: options.OutputPath,
		FileSize:   size,
		SlideCount: doc.SlideCount(),
	}, nil
}

// validateOptions validates export options
func (s *Service) validateOptions(doc *entities.Document, options ports.ExportOptions) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}

	if strings.TrimSpace(options.OutputPath) == "" {
		return errors.New("output path is required")
	}

	return nil
}
