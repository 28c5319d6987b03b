package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// Loader reads a Config. The zero value loads defaults and environment only.
type Loader struct {
	// ConfigFile is an optional YAML file. A missing file is an error.
	ConfigFile string
	// EnvFile is an optional dotenv file. A missing file is ignored.
	EnvFile string
}

// Load is shorthand for a Loader with only ConfigFile set.
func Load(configFile string) (*Config, error) {
	return (&Loader{ConfigFile: configFile}).Load()
}

// Load merges defaults, the YAML file and the environment, then validates.
// Values from the dotenv file never override variables already set.
func (l *Loader) Load() (*Config, error) {
	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", l.EnvFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if l.ConfigFile != "" {
		if err := loadYAML(k, l.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironment(k); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(k)
}

// loadYAML merges only the keys present in the file, so partial files keep
// the remaining defaults.
func loadYAML(k *koanf.Koanf, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	for key, value := range flattenMap("", raw) {
		if value == nil {
			continue
		}
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("failed to set key %s from %s: %w", key, path, err)
		}
	}
	return nil
}

// flattenMap flattens a nested map into dot-notation keys.
func flattenMap(prefix string, m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			for fk, fv := range flattenMap(key, nested) {
				result[fk] = fv
			}
		} else {
			result[key] = v
		}
	}
	return result
}

// loadEnvironment maps WORDCLOUD_* variables onto known keys. Every key
// "a.b_c" is read from WORDCLOUD_A_B_C; unknown variables are ignored.
func loadEnvironment(k *koanf.Koanf) error {
	envToPath := make(map[string]string)
	for _, key := range k.Keys() {
		envToPath[EnvVar(key)] = key
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envToPath[key], value
		},
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

// EnvVar returns the environment variable that sets the config key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func unmarshalAndValidate(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration cannot be nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.Server.CORS.AllowCredentials && hasWildcard(cfg.Server.CORS.AllowedOrigins) {
		return errors.New("configuration validation failed: cors wildcard origin cannot allow credentials")
	}
	return nil
}

func hasWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
