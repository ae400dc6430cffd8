package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Output formats
const (
	FormatPPTX     = "pptx"
	FormatMarkdown = "markdown"
)

// DefaultOutputPath is where the deck is written when nothing else is configured
const DefaultOutputPath = "Service_Reliability_Presentation.pptx"

// Config represents the complete application configuration
type Config struct {
	Output   OutputConfig  `toml:"output"`
	Deck     DeckConfig    `toml:"deck"`
	Metadata Metadata      `toml:"metadata"`
	Watch    WatchConfig   `toml:"watch"`
	Logging  LoggingConfig `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := c.Deck.Validate(); err != nil {
		return fmt.Errorf("deck config: %w", err)
	}

	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// OutputConfig controls where and how the finished document is written
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`

	// Overwrite is nil when a layer leaves it unset
	Overwrite *bool `toml:"overwrite,omitempty"`
}

// Validate validates output configuration
func (o OutputConfig) Validate() error {
	if strings.TrimSpace(o.Path) == "" {
		return errors.New("output path cannot be empty")
	}

	switch o.Format {
	case FormatPPTX, FormatMarkdown, "":
	default:
		return fmt.Errorf("invalid output format: %s (must be pptx or markdown)", o.Format)
	}

	if dir := filepath.Dir(o.Path); dir != "." {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("output directory is not a directory: %s", dir)
		}
	}

	return nil
}

// GetFormat returns the output format with default
func (o OutputConfig) GetFormat() string {
	if o.Format == "" {
		return FormatPPTX
	}
	return o.Format
}

// ShouldOverwrite reports whether an existing output file may be replaced
func (o OutputConfig) ShouldOverwrite() bool {
	return o.Overwrite == nil || *o.Overwrite
}

// DeckConfig selects the deck and the layouts it renders with
type DeckConfig struct {
	Builtin       string `toml:"builtin"`
	Source        string `toml:"source"`
	TitleLayout   *int   `toml:"title_layout,omitempty"`
	ContentLayout *int   `toml:"content_layout,omitempty"`
	MaxTitleRunes int    `toml:"max_title_runes"`
	Language      string `toml:"language"`
}

// Validate validates deck configuration
func (d DeckConfig) Validate() error {
	if d.Builtin == "" && d.Source == "" {
		return errors.New("either a built-in deck or a source file is required")
	}

	if d.GetTitleLayout() < 0 || d.GetContentLayout() < 0 {
		return errors.New("layout indexes must be non-negative")
	}

	if d.MaxTitleRunes < 0 {
		return errors.New("max title runes must be non-negative")
	}

	if d.Language != "" {
		if _, err := language.Parse(d.Language); err != nil {
			return fmt.Errorf("invalid language tag %q: %w", d.Language, err)
		}
	}

	return nil
}

// GetTitleLayout returns the title slide layout index; unset means "Title Slide"
func (d DeckConfig) GetTitleLayout() int {
	if d.TitleLayout == nil {
		return LayoutTitleSlide
	}
	return *d.TitleLayout
}

// GetContentLayout returns the content slide layout index; unset means
// "Title and Content"
func (d DeckConfig) GetContentLayout() int {
	if d.ContentLayout == nil {
		return LayoutTitleAndContent
	}
	return *d.ContentLayout
}

// GetLanguage returns the canonical language tag, or "" when unset
func (d DeckConfig) GetLanguage() string {
	if d.Language == "" {
		return ""
	}
	tag, err := language.Parse(d.Language)
	if err != nil {
		return d.Language
	}
	return tag.String()
}

// Metadata contains document property defaults
type Metadata struct {
	Author  string `toml:"author"`
	Company string `toml:"company"`
}

// WatchConfig controls how source files are polled in watch mode
type WatchConfig struct {
	IntervalMs int `toml:"interval_ms"`
	DebounceMs int `toml:"debounce_ms"`
}

// Validate validates watch configuration
func (w WatchConfig) Validate() error {
	if w.IntervalMs < 0 {
		return fmt.Errorf("interval must be non-negative: %d", w.IntervalMs)
	}
	if w.DebounceMs < 0 {
		return fmt.Errorf("debounce must be non-negative: %d", w.DebounceMs)
	}
	return nil
}

// GetInterval returns the poll interval, 200ms when unset
func (w WatchConfig) GetInterval() time.Duration {
	if w.IntervalMs == 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(w.IntervalMs) * time.Millisecond
}

// GetDebounce returns the minimum gap between two change events, 500ms when unset
func (w WatchConfig) GetDebounce() time.Duration {
	if w.DebounceMs == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // Forces debug level
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
	File       string `toml:"file"`        // Also log to file (optional)
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Verbose {
		return LogLevelDebug
	}
	if l.Level == "" {
		return LogLevelWarn
	}
	return LogLevel(l.Level)
}
