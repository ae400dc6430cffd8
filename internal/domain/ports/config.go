package ports

import (
	"context"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// ConfigLoader loads configuration files
type ConfigLoader interface {
	// LoadGlobal loads the global configuration file; a missing file yields nil
	LoadGlobal(ctx context.Context) (*entities.Config, error)

	// LoadLocal loads deckgen.toml from dir; a missing file yields nil
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)

	// LoadFile loads an explicitly named configuration file, which must exist
	LoadFile(ctx context.Context, path string) (*entities.Config, error)

	// CreateDefaults writes the default configuration to path
	CreateDefaults(ctx context.Context, path string) error

	GetGlobalPath() string
	GetLocalPath(dir string) string
}

// ConfigMerger merges configuration layers
type ConfigMerger interface {
	// Merge merges configurations with later ones taking precedence
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyFlags applies CLI flag overrides
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config

	// ApplyEnvVars applies DECKGEN_* environment overrides
	ApplyEnvVars(config *entities.Config) *entities.Config
}

// ConfigService resolves the effective configuration of a run
type ConfigService interface {
	// LoadConfig resolves defaults, global, local (or explicit file), env and flags
	LoadConfig(ctx context.Context, request ConfigRequest) (*entities.Config, error)

	GetDefaultConfig() *entities.Config
	ValidateConfig(config *entities.Config) error
	CreateConfig(ctx context.Context, path string) error
}

// ConfigRequest carries the inputs of one configuration resolution
type ConfigRequest struct {
	WorkingDir string
	// ConfigFile replaces the global and local layers when set
	ConfigFile string
	Flags      map[string]interface{}
}
