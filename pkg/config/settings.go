package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every settings environment variable
	EnvPrefix = "CARTON_"

	// EnvConfigFile points at an alternative settings file
	EnvConfigFile = "CARTON_CONFIG"

	// FileName is the settings file looked up in the config directory
	FileName = "carton.toml"
)

// Settings holds carton's application settings
type Settings struct {
	Database DatabaseSettings       `koanf:"database"`
	Links    LinksSettings          `koanf:"links"`
	Modules  ModulesSettings        `koanf:"modules"`
	Facts    map[string]interface{} `koanf:"facts"`
}

// DatabaseSettings locates the configuration database
type DatabaseSettings struct {
	File string `koanf:"file"`
}

// LinksSettings configures the packer
type LinksSettings struct {
	File    string `koanf:"file"`
	RefsDir string `koanf:"refs_dir"`
}

// ModulesSettings configures module loading
type ModulesSettings struct {
	Disabled []string `koanf:"disabled"`
}

// IsDisabled reports whether a module should be loaded disabled
func (s *Settings) IsDisabled(name string) bool {
	for _, disabled := range s.Modules.Disabled {
		if disabled == name {
			return true
		}
	}
	return false
}

// Default returns the embedded defaults alone
func Default() (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

// Load layers defaults, the user settings file found in configDir,
// the environment and overrides. Override keys use dotted paths such as
// "modules.disabled".
func Load(configDir string, overrides map[string]interface{}) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User settings file if it exists
	path := settingsFile(configDir)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path).
					WithDetail("path", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded settings file")
		} else if os.Getenv(EnvConfigFile) != "" {
			return nil, errors.Newf(errors.ErrConfigLoad, "settings file not found: %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	// 4. Caller overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	settings, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings carton depends on
func (s *Settings) Validate() error {
	names := map[string]string{
		"database.file":  s.Database.File,
		"links.file":     s.Links.File,
		"links.refs_dir": s.Links.RefsDir,
	}
	for key, value := range names {
		if value == "" {
			return errors.Newf(errors.ErrConfigValid, "setting '%s' cannot be empty", key).
				WithDetail("key", key)
		}
		if filepath.IsAbs(value) || escapes(value) {
			return errors.Newf(errors.ErrConfigValid, "setting '%s' must be a relative name, got '%s'", key, value).
				WithDetail("key", key)
		}
	}
	return nil
}

// escapes reports whether a relative name leaves its base directory
func escapes(name string) bool {
	clean := filepath.Clean(name)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func settingsFile(configDir string) string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, FileName)
}

// envKey maps CARTON_LINKS_REFS_DIR to links.refs_dir: the first
// underscore separates the section from the key
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func unmarshal(k *koanf.Koanf) (*Settings, error) {
	var settings Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &settings,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &settings, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode settings")
	}
	if settings.Facts == nil {
		settings.Facts = make(map[string]interface{})
	}
	return &settings, nil
}
