// Package config provides configuration management for the Aseprite MCP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".config/aseprite-mcp"
	DefaultConfigFile = "config.yaml"
)

// Defaults applied when the config file does not set a value (unexported).
const (
	defaultExecutable = "aseprite"
	defaultTimeout    = "30s"
	defaultMinSpaceMB = 100
)

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey      = errors.New("invalid configuration key")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrInvalidTimeout  = errors.New("invalid timeout value")
	ErrNoEditor        = errors.New("$EDITOR environment variable not set")
)

// validFileTypes contains the file types a default output directory can be
// associated with (unexported).
var validFileTypes = map[string]bool{
	"all":      true,
	"aseprite": true,
	"ase":      true,
	"png":      true,
	"gif":      true,
	"jpg":      true,
	"jpeg":     true,
	"bmp":      true,
	"tga":      true,
	"webp":     true,
}

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full server configuration.
type Config struct {
	Aseprite AsepriteConfig `mapstructure:"aseprite" validate:"required"`
	Output   OutputConfig   `mapstructure:"output"`
}

// AsepriteConfig holds settings for invoking the Aseprite executable.
type AsepriteConfig struct {
	// Path is the executable to invoke, either a bare command name
	// resolved via PATH or an absolute path. ASEPRITE_PATH overrides it.
	Path string `mapstructure:"path" validate:"required"`

	// Timeout bounds each invocation.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s"`

	// ScriptDir overrides where temporary Lua scripts are written.
	// Empty means the system temp directory.
	ScriptDir string `mapstructure:"script_dir"`
}

// OutputConfig holds file routing configuration.
type OutputConfig struct {
	// MinSpaceMB is the disk space floor used when validating output
	// directories.
	MinSpaceMB int `mapstructure:"min_space_mb" validate:"min=0"`

	// Defaults maps a file type to its default output directory.
	Defaults map[string]string `mapstructure:"defaults" validate:"dive,keys,oneof=all aseprite ase png gif jpg jpeg bmp tga webp,endkeys"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a new configuration loader.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	configPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Environment variable binding
	v.SetEnvPrefix("ASEPRITE_MCP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// ASEPRITE_PATH is the documented override for the executable.
	// We intentionally ignore the error as BindEnv only fails with zero arguments.
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("aseprite.path", "ASEPRITE_PATH")

	l := &Loader{
		v:       v,
		path:    configPath,
		homeDir: home,
	}

	// Set defaults before any config reading
	l.setDefaults()

	return l, nil
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("aseprite.path", defaultExecutable)
	l.v.SetDefault("aseprite.timeout", defaultTimeout)
	l.v.SetDefault("aseprite.script_dir", "")
	l.v.SetDefault("output.min_space_mb", defaultMinSpaceMB)
	l.v.SetDefault("output.defaults", map[string]string{})
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand paths
	cfg.Aseprite.Path = l.expandPath(cfg.Aseprite.Path)
	cfg.Aseprite.ScriptDir = l.expandPath(cfg.Aseprite.ScriptDir)
	for fileType, dir := range cfg.Output.Defaults {
		cfg.Output.Defaults[fileType] = l.expandPath(dir)
	}

	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Settings returns the effective configuration as nested maps keyed the way
// the file is, suitable for display.
func (l *Loader) Settings() map[string]any {
	return l.v.AllSettings()
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// Set sets a configuration value by dot-notation key and persists it.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	// Validate duration shape if setting aseprite.timeout
	if key == "aseprite.timeout" && value != "" {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s (use a duration like 30s or 2m)", ErrInvalidTimeout, value)
		}
	}

	l.v.Set(key, value)
	return l.write()
}

// DefaultOutputDir returns the configured default output directory for a
// file type, falling back to the "all" entry. Empty means no default is set.
func (l *Loader) DefaultOutputDir(fileType string) string {
	dir := l.v.GetString("output.defaults." + fileType)
	if dir == "" {
		dir = l.v.GetString("output.defaults.all")
	}
	return l.expandPath(dir)
}

// SetDefaultOutputDir persists dir as the default output directory for the
// given file type.
func (l *Loader) SetDefaultOutputDir(fileType, dir string) error {
	if !validFileTypes[fileType] {
		return fmt.Errorf("%w: %s (valid: %s)", ErrInvalidFileType, fileType, strings.Join(ValidFileTypes(), ", "))
	}

	l.v.Set("output.defaults."+fileType, dir)
	return l.write()
}

// write persists the current configuration, creating the directory if needed.
func (l *Loader) write() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return l.v.WriteConfig()
}

// createDefault writes the default configuration file using Viper.
func (l *Loader) createDefault() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return l.v.SafeWriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// ValidateKey checks if a key is a valid configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	// Check for exact match in derived valid keys
	if validKeys[key] {
		return nil
	}

	// Check for output.defaults.<type> pattern (map type needs special handling)
	if strings.HasPrefix(key, "output.defaults.") {
		fileType := strings.TrimPrefix(key, "output.defaults.")
		if validFileTypes[fileType] {
			return nil
		}
		return fmt.Errorf("%w: %s (valid: %s)", ErrInvalidFileType, fileType, strings.Join(ValidFileTypes(), ", "))
	}

	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// buildValidKeys builds the set of valid keys from Config struct using reflection.
func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds keys from a struct type.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = true

		// Recurse into nested structs (but not maps)
		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
		}
	}
}

// IsValidFileType is a package-level helper for checking file type validity.
func IsValidFileType(name string) bool {
	return validFileTypes[name]
}

// ValidFileTypes returns the list of valid file types.
func ValidFileTypes() []string {
	return []string{"all", "aseprite", "ase", "png", "gif", "jpg", "jpeg", "bmp", "tga", "webp"}
}
