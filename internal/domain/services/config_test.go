package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// Mock implementations for testing

type MockConfigLoader struct {
	mock.Mock
}

func (m *MockConfigLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) LoadFile(ctx context.Context, path string) (*entities.Config, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) CreateDefaults(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockConfigLoader) GetGlobalPath() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfigLoader) GetLocalPath(dir string) string {
	args := m.Called(dir)
	return args.String(0)
}

type MockConfigMerger struct {
	mock.Mock
}

func (m *MockConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	args := m.Called(configs)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	args := m.Called(config, flags)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	args := m.Called(config)
	return args.Get(0).(*entities.Config)
}

func testConfig() *entities.Config {
	return &entities.Config{
		Output: entities.OutputConfig{Path: "deck.pptx", Format: entities.FormatPPTX},
		Deck:   entities.DeckConfig{Builtin: "service-reliability"},
	}
}

func TestConfigService_LoadConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("merges global and local layers", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}
		service := NewConfigService(loader, merger)

		defaults := testConfig()
		global := testConfig()
		local := testConfig()
		merged := testConfig()
		final := testConfig()
		flags := map[string]interface{}{"output": "other.pptx"}

		loader.On("LoadGlobal", ctx).Return(global, nil)
		loader.On("LoadLocal", ctx, "/work").Return(local, nil)
		merger.On("Merge", []*entities.Config(nil)).Return(defaults).Once()
		merger.On("Merge", []*entities.Config{defaults, global, local}).Return(merged).Once()
		merger.On("ApplyEnvVars", merged).Return(merged)
		merger.On("ApplyFlags", merged, flags).Return(final)

		config, err := service.LoadConfig(ctx, ports.ConfigRequest{WorkingDir: "/work", Flags: flags})
		require.NoError(t, err)
		assert.Same(t, final, config)

		loader.AssertExpectations(t)
		merger.AssertExpectations(t)
	})

	t.Run("missing optional layers are skipped", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}
		service := NewConfigService(loader, merger)

		defaults := testConfig()

		loader.On("LoadGlobal", ctx).Return(nil, nil)
		loader.On("LoadLocal", ctx, ".").Return(nil, nil)
		merger.On("Merge", []*entities.Config(nil)).Return(defaults).Once()
		merger.On("Merge", []*entities.Config{defaults}).Return(defaults).Once()
		merger.On("ApplyEnvVars", defaults).Return(defaults)
		merger.On("ApplyFlags", defaults, map[string]interface{}(nil)).Return(defaults)

		config, err := service.LoadConfig(ctx, ports.ConfigRequest{WorkingDir: "."})
		require.NoError(t, err)
		assert.Same(t, defaults, config)
		merger.AssertExpectations(t)
	})

	t.Run("explicit file replaces global and local", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}
		service := NewConfigService(loader, merger)

		defaults := testConfig()
		file := testConfig()

		loader.On("LoadFile", ctx, "custom.toml").Return(file, nil)
		merger.On("Merge", []*entities.Config(nil)).Return(defaults).Once()
		merger.On("Merge", []*entities.Config{defaults, file}).Return(file).Once()
		merger.On("ApplyEnvVars", file).Return(file)
		merger.On("ApplyFlags", file, map[string]interface{}(nil)).Return(file)

		config, err := service.LoadConfig(ctx, ports.ConfigRequest{ConfigFile: "custom.toml"})
		require.NoError(t, err)
		assert.Same(t, file, config)

		loader.AssertNotCalled(t, "LoadGlobal", mock.Anything)
		loader.AssertNotCalled(t, "LoadLocal", mock.Anything, mock.Anything)
	})

	t.Run("global load error", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}
		service := NewConfigService(loader, merger)

		merger.On("Merge", []*entities.Config(nil)).Return(testConfig())
		loader.On("LoadGlobal", ctx).Return(nil, errors.New("permission denied"))

		_, err := service.LoadConfig(ctx, ports.ConfigRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading global config")
	})

	t.Run("final validation error", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}
		service := NewConfigService(loader, merger)

		invalid := testConfig()
		invalid.Output.Path = ""

		loader.On("LoadGlobal", ctx).Return(nil, nil)
		loader.On("LoadLocal", ctx, "").Return(nil, nil)
		merger.On("Merge", mock.Anything).Return(invalid)
		merger.On("ApplyEnvVars", invalid).Return(invalid)
		merger.On("ApplyFlags", invalid, mock.Anything).Return(invalid)

		_, err := service.LoadConfig(ctx, ports.ConfigRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "final config validation")
	})
}

func TestConfigService_ValidateConfig(t *testing.T) {
	service := NewConfigService(&MockConfigLoader{}, &MockConfigMerger{})

	assert.Error(t, service.ValidateConfig(nil))
	assert.NoError(t, service.ValidateConfig(testConfig()))
}

func TestConfigService_CreateConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the global path", func(t *testing.T) {
		loader := &MockConfigLoader{}
		service := NewConfigService(loader, &MockConfigMerger{})

		loader.On("GetGlobalPath").Return("/home/u/.config/deckgen/config.toml")
		loader.On("CreateDefaults", ctx, "/home/u/.config/deckgen/config.toml").Return(nil)

		require.NoError(t, service.CreateConfig(ctx, ""))
		loader.AssertExpectations(t)
	})

	t.Run("explicit path", func(t *testing.T) {
		loader := &MockConfigLoader{}
		service := NewConfigService(loader, &MockConfigMerger{})

		loader.On("CreateDefaults", ctx, "deckgen.toml").Return(errors.New("exists"))

		assert.Error(t, service.CreateConfig(ctx, "deckgen.toml"))
		loader.AssertNotCalled(t, "GetGlobalPath")
	})
}
