package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/deckgen/internal/decks"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// Environment variables read by ApplyEnvVars
const (
	EnvOutput        = "DECKGEN_OUTPUT"
	EnvFormat        = "DECKGEN_FORMAT"
	EnvOverwrite     = "DECKGEN_OVERWRITE"
	EnvBuiltin       = "DECKGEN_BUILTIN"
	EnvSource        = "DECKGEN_SOURCE"
	EnvLanguage      = "DECKGEN_LANGUAGE"
	EnvMaxTitleRunes = "DECKGEN_MAX_TITLE_RUNES"
	EnvAuthor        = "DECKGEN_AUTHOR"
	EnvCompany       = "DECKGEN_COMPANY"
	EnvLogLevel      = "DECKGEN_LOG_LEVEL"
	EnvLogVerbose    = "DECKGEN_LOG_VERBOSE"
	EnvLogJSON       = "DECKGEN_LOG_JSON"
	EnvLogFile       = "DECKGEN_LOG_FILE"
)

// GetDefaultConfig returns the built-in defaults: the service reliability deck
// written to DefaultOutputPath.
func GetDefaultConfig() *entities.Config {
	overwrite := true
	titleLayout := entities.LayoutTitleSlide
	contentLayout := entities.LayoutTitleAndContent

	return &entities.Config{
		Output: entities.OutputConfig{
			Path:      entities.DefaultOutputPath,
			Format:    entities.FormatPPTX,
			Overwrite: &overwrite,
		},
		Deck: entities.DeckConfig{
			Builtin:       decks.Default,
			TitleLayout:   &titleLayout,
			ContentLayout: &contentLayout,
			Language:      "vi-VN",
		},
		Watch: entities.WatchConfig{
			IntervalMs: 200,
			DebounceMs: 500,
		},
		Logging: entities.LoggingConfig{
			Level: string(entities.LogLevelWarn),
		},
	}
}

// getEnvInt returns an environment variable as int
func getEnvInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return intValue, true
}

// getEnvBool returns an environment variable as bool
func getEnvBool(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}
	return boolValue, true
}
