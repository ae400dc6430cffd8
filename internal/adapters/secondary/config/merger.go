package config

import (
	"os"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// Flag names understood by ApplyFlags
const (
	FlagOutput        = "output"
	FlagFormat        = "format"
	FlagBuiltin       = "builtin"
	FlagSource        = "source"
	FlagNoOverwrite   = "no-overwrite"
	FlagLanguage      = "language"
	FlagMaxTitleRunes = "max-title-runes"
	FlagVerbose       = "verbose"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	// Start with first config as base
	result := deepCopy(configs[0])

	// Merge subsequent configs
	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration. A source file wins
// over the built-in deck; an explicit builtin flag clears the source.
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if output, ok := flags[FlagOutput].(string); ok && output != "" {
		result.Output.Path = output
	}

	if format, ok := flags[FlagFormat].(string); ok && format != "" {
		result.Output.Format = format
	}

	if noOverwrite, ok := flags[FlagNoOverwrite].(bool); ok && noOverwrite {
		result.Output.Overwrite = boolPtr(false)
	}

	if source, ok := flags[FlagSource].(string); ok && source != "" {
		result.Deck.Source = source
	}

	if builtin, ok := flags[FlagBuiltin].(string); ok && builtin != "" {
		result.Deck.Builtin = builtin
		result.Deck.Source = ""
	}

	if language, ok := flags[FlagLanguage].(string); ok && language != "" {
		result.Deck.Language = language
	}

	if runes, ok := flags[FlagMaxTitleRunes].(int); ok && runes > 0 {
		result.Deck.MaxTitleRunes = runes
	}

	if verbose, ok := flags[FlagVerbose].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	// Output configuration from environment
	if output := os.Getenv(EnvOutput); output != "" {
		result.Output.Path = output
	}

	if format := os.Getenv(EnvFormat); format != "" {
		result.Output.Format = format
	}

	if overwrite, ok := getEnvBool(EnvOverwrite); ok {
		result.Output.Overwrite = boolPtr(overwrite)
	}

	// Deck configuration from environment; a builtin clears the source as the
	// flag does
	if source := os.Getenv(EnvSource); source != "" {
		result.Deck.Source = source
	}

	if builtin := os.Getenv(EnvBuiltin); builtin != "" {
		result.Deck.Builtin = builtin
		result.Deck.Source = ""
	}

	if language := os.Getenv(EnvLanguage); language != "" {
		result.Deck.Language = language
	}

	if runes, ok := getEnvInt(EnvMaxTitleRunes); ok && runes >= 0 {
		result.Deck.MaxTitleRunes = runes
	}

	// Metadata from environment
	if author := os.Getenv(EnvAuthor); author != "" {
		result.Metadata.Author = author
	}

	if company := os.Getenv(EnvCompany); company != "" {
		result.Metadata.Company = company
	}

	// Logging configuration from environment
	if level := os.Getenv(EnvLogLevel); level != "" {
		result.Logging.Level = level
	}

	if verbose, ok := getEnvBool(EnvLogVerbose); ok {
		result.Logging.Verbose = verbose
	}

	if jsonFormat, ok := getEnvBool(EnvLogJSON); ok {
		result.Logging.JSONFormat = jsonFormat
	}

	if file := os.Getenv(EnvLogFile); file != "" {
		result.Logging.File = file
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Output config
	if source.Output.Path != "" {
		target.Output.Path = source.Output.Path
	}
	if source.Output.Format != "" {
		target.Output.Format = source.Output.Format
	}
	if source.Output.Overwrite != nil {
		target.Output.Overwrite = boolPtr(*source.Output.Overwrite)
	}

	// Deck config
	if source.Deck.Builtin != "" {
		target.Deck.Builtin = source.Deck.Builtin
	}
	if source.Deck.Source != "" {
		target.Deck.Source = source.Deck.Source
	}
	if source.Deck.TitleLayout != nil {
		target.Deck.TitleLayout = intPtr(*source.Deck.TitleLayout)
	}
	if source.Deck.ContentLayout != nil {
		target.Deck.ContentLayout = intPtr(*source.Deck.ContentLayout)
	}
	if source.Deck.MaxTitleRunes != 0 {
		target.Deck.MaxTitleRunes = source.Deck.MaxTitleRunes
	}
	if source.Deck.Language != "" {
		target.Deck.Language = source.Deck.Language
	}

	// Metadata config
	if source.Metadata.Author != "" {
		target.Metadata.Author = source.Metadata.Author
	}
	if source.Metadata.Company != "" {
		target.Metadata.Company = source.Metadata.Company
	}

	// Watch config
	if source.Watch.IntervalMs != 0 {
		target.Watch.IntervalMs = source.Watch.IntervalMs
	}
	if source.Watch.DebounceMs != 0 {
		target.Watch.DebounceMs = source.Watch.DebounceMs
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.File != "" {
		target.Logging.File = source.Logging.File
	}
	// false cannot be told apart from unset, so a layer can only switch these on
	if source.Logging.Verbose {
		target.Logging.Verbose = true
	}
	if source.Logging.JSONFormat {
		target.Logging.JSONFormat = true
	}
}

// deepCopy creates a deep copy of a configuration; nil copies to an empty one
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return &entities.Config{}
	}

	dst := *src
	if src.Output.Overwrite != nil {
		dst.Output.Overwrite = boolPtr(*src.Output.Overwrite)
	}
	if src.Deck.TitleLayout != nil {
		dst.Deck.TitleLayout = intPtr(*src.Deck.TitleLayout)
	}
	if src.Deck.ContentLayout != nil {
		dst.Deck.ContentLayout = intPtr(*src.Deck.ContentLayout)
	}

	return &dst
}

func boolPtr(v bool) *bool {
	return &v
}

func intPtr(v int) *int {
	return &v
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
