package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// DeckOptions configures how decks are rendered
type DeckOptions struct {
	Layouts LayoutSelection
	Rules   entities.ValidationRules

	// Recorder receives render and export timings when set
	Recorder ports.BuildRecorder

	// Defaults for decks that do not carry their own metadata
	Language string
	Author   string
	Company  string
}

// GenerateResult describes one finished run
type GenerateResult struct {
	BuildID    string
	OutputPath string
	Format     string
	SlideCount int
	FileSize   int64
	Duration   time.Duration
}

// DeckService renders decks into documents and persists them
type DeckService struct {
	renderer *DeckRenderer
	exporter ports.DocumentExporter
	logger   ports.Logger
	recorder ports.BuildRecorder
	options  DeckOptions

	now   func() time.Time
	newID func() string
}

// NewDeckService creates a new deck service
func NewDeckService(exporter ports.DocumentExporter, logger ports.Logger, options DeckOptions) *DeckService {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	recorder := options.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &DeckService{
		renderer: NewDeckRenderer(),
		exporter: exporter,
		logger:   logger,
		recorder: recorder,
		options:  options,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Build validates the deck and renders every slide, in order, into a new document
func (s *DeckService) Build(ctx context.Context, deck *entities.Deck) (*entities.Document, error) {
	if deck == nil {
		return nil, errors.New("deck cannot be nil")
	}

	if err := deck.Validate(s.options.Rules); err != nil {
		return nil, fmt.Errorf("invalid deck: %w", err)
	}

	session := NewSession(s.renderer, s.options.Layouts)

	for i, spec := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := s.now()
		if err := session.Add(spec); err != nil {
			return nil, fmt.Errorf("rendering slide %d: %w", i+1, err)
		}
		s.recorder.RecordSlideRender(spec.Kind(), spec.ParagraphCount(), s.now().Sub(started))

		s.logger.Debug("slide rendered",
			"slide", i+1,
			"kind", spec.Kind().String(),
			"paragraphs", spec.ParagraphCount(),
			"title", spec.SlideTitle(),
		)
	}

	doc, err := session.Finish()
	if err != nil {
		return nil, err
	}

	doc.Properties = s.properties(deck)
	return doc, nil
}

// Generate builds the deck and writes it exactly once
func (s *DeckService) Generate(ctx context.Context, deck *entities.Deck, options ports.ExportOptions) (*GenerateResult, error) {
	if s.exporter == nil {
		return nil, errors.New("no exporter configured")
	}

	start := s.now()

	doc, err := s.Build(ctx, deck)
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck rendered",
		"deck", deck.Name,
		"build_id", doc.Properties.Identifier,
		"slides", doc.SlideCount(),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exportStart := s.now()
	exported, err := s.exporter.Export(ctx, doc, options)
	if err != nil {
		return nil, fmt.Errorf("exporting deck: %w", err)
	}
	s.recorder.RecordExport(exported.Format, exported.FileSize, s.now().Sub(exportStart))

	result := &GenerateResult{
		BuildID:    doc.Properties.Identifier,
		OutputPath: exported.OutputPath,
		Format:     exported.Format,
		SlideCount: doc.SlideCount(),
		FileSize:   exported.FileSize,
		Duration:   s.now().Sub(start),
	}

	s.logger.Info("deck saved",
		"path", result.OutputPath,
		"format", result.Format,
		"bytes", result.FileSize,
		"duration", result.Duration.String(),
	)

	return result, nil
}

// properties fills document properties from the deck, falling back to the
// service defaults
func (s *DeckService) properties(deck *entities.Deck) entities.DocumentProperties {
	id := deck.ID
	if id == "" {
		id = s.newID()
	}

	return entities.DocumentProperties{
		Title:      deck.DisplayTitle(),
		Creator:    firstNonEmpty(deck.Author, s.options.Author),
		Company:    firstNonEmpty(deck.Company, s.options.Company),
		Language:   firstNonEmpty(deck.Language, s.options.Language),
		Identifier: id,
		Created:    s.now().UTC(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type nopRecorder struct{}

func (nopRecorder) RecordSlideRender(entities.SlideKind, int, time.Duration) {}
func (nopRecorder) RecordExport(string, int64, time.Duration)                {}
