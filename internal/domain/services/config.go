package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// ConfigService implements the configuration service business logic
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// LoadConfig resolves the configuration of a run. Precedence, lowest first:
// defaults, global file, local file (or the explicit file), environment, flags.
func (s *ConfigService) LoadConfig(ctx context.Context, request ports.ConfigRequest) (*entities.Config, error) {
	configs := []*entities.Config{s.GetDefaultConfig()}

	if request.ConfigFile != "" {
		fileConfig, err := s.loader.LoadFile(ctx, request.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		configs = append(configs, fileConfig)
	} else {
		globalConfig, err := s.loader.LoadGlobal(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
		if globalConfig != nil {
			configs = append(configs, globalConfig)
		}

		localConfig, err := s.loader.LoadLocal(ctx, request.WorkingDir)
		if err != nil {
			return nil, fmt.Errorf("loading local config: %w", err)
		}
		if localConfig != nil {
			configs = append(configs, localConfig)
		}
	}

	mergedConfig := s.merger.Merge(configs...)

	envConfig := s.merger.ApplyEnvVars(mergedConfig)

	// CLI flags have the highest precedence
	finalConfig := s.merger.ApplyFlags(envConfig, request.Flags)

	if err := s.ValidateConfig(finalConfig); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return finalConfig, nil
}

// GetDefaultConfig returns the default configuration
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	// Merge with no arguments returns the defaults
	return s.merger.Merge()
}

// ValidateConfig validates a configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}

	return config.Validate()
}

// CreateConfig writes the default configuration; an empty path means the global file
func (s *ConfigService) CreateConfig(ctx context.Context, path string) error {
	if path == "" {
		path = s.loader.GetGlobalPath()
	}
	return s.loader.CreateDefaults(ctx, path)
}

// Ensure ConfigService implements ports.ConfigService
var _ ports.ConfigService = (*ConfigService)(nil)
