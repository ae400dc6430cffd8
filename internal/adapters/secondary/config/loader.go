package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// LocalName is the configuration file looked up in the working directory
const LocalName = "deckgen.toml"

// TOMLLoader implements the ConfigLoader interface using TOML files
type TOMLLoader struct {
	fs         ports.FileSystem
	globalPath string
	localName  string
}

// NewTOMLLoader creates a new TOML configuration loader
func NewTOMLLoader() *TOMLLoader {
	homeDir, _ := os.UserHomeDir()
	globalPath := filepath.Join(homeDir, ".config", "deckgen", "config.toml")

	return &TOMLLoader{
		fs:         ports.NewRealFileSystem(),
		globalPath: globalPath,
		localName:  LocalName,
	}
}

// LoadGlobal loads the global configuration file. The file is optional.
func (l *TOMLLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	if !l.fs.Exists(l.globalPath) {
		return nil, nil
	}

	return l.loadConfig(ctx, l.globalPath)
}

// LoadLocal loads a local configuration file from the specified directory
func (l *TOMLLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	localPath := l.GetLocalPath(dir)

	if !l.fs.Exists(localPath) {
		return nil, nil // Local config is optional
	}

	return l.loadConfig(ctx, localPath)
}

// LoadFile loads a configuration file that must exist
func (l *TOMLLoader) LoadFile(ctx context.Context, path string) (*entities.Config, error) {
	return l.loadConfig(ctx, path)
}

// CreateDefaults writes the default configuration to path. An existing file is
// left untouched and reported as an error.
func (l *TOMLLoader) CreateDefaults(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if l.fs.Exists(path) {
		return fmt.Errorf("config file %s: %w", path, os.ErrExist)
	}

	// Ensure directory exists
	if err := l.ensureConfigDir(path); err != nil {
		return err
	}

	data, err := EncodeConfig(GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}

	if err := l.fs.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}

	return nil
}

// GetGlobalPath returns the path to the global configuration file
func (l *TOMLLoader) GetGlobalPath() string {
	return l.globalPath
}

// GetLocalPath returns the path to the local configuration file for a directory
func (l *TOMLLoader) GetLocalPath(dir string) string {
	return filepath.Join(dir, l.localName)
}

// EncodeConfig renders a configuration as TOML
func EncodeConfig(config *entities.Config) ([]byte, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	var b strings.Builder
	encoder := toml.NewEncoder(&b)
	encoder.Indent = "  "

	if err := encoder.Encode(config); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// loadConfig reads one configuration layer. Layers may be partial, so the merged
// result is validated by the caller instead.
func (l *TOMLLoader) loadConfig(ctx context.Context, path string) (*entities.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var config entities.Config
	meta, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	return &config, nil
}

// ensureConfigDir ensures the configuration directory exists
func (l *TOMLLoader) ensureConfigDir(path string) error {
	dir := filepath.Dir(path)

	// Create config directory with restricted permissions (0750 = owner and group only)
	if err := l.fs.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	return nil
}

// Ensure TOMLLoader implements ports.ConfigLoader
var _ ports.ConfigLoader = (*TOMLLoader)(nil)
