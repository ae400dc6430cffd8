package ports

import (
	"time"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// BuildRecorder collects timings of deck builds
type BuildRecorder interface {
	RecordSlideRender(kind entities.SlideKind, paragraphs int, duration time.Duration)
	RecordExport(format string, bytes int64, duration time.Duration)
}
