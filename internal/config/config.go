// Package config loads wordcloud settings from defaults, an optional YAML
// file and WORDCLOUD_* environment variables, in increasing precedence.
package config

import (
	"time"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/analyzer"
)

// EnvPrefix prefixes every environment variable read by Load.
// WORDCLOUD_SERVER_PORT sets server.port.
const EnvPrefix = "WORDCLOUD_"

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json"`
}

type AnalysisConfig struct {
	// MaxTerms is the keyword count used when a request does not set one.
	MaxTerms int `koanf:"max_terms" validate:"min=1,max=500"`
	// MaxInputBytes rejects larger documents before analysis.
	MaxInputBytes int `koanf:"max_input_bytes" validate:"min=1"`
}

type CacheConfig struct {
	// Size is the number of cached analyses; 0 disables the cache.
	Size int `koanf:"size" validate:"min=0"`
}

type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"    validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`
	CORS    CORSConfig    `koanf:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"   validate:"dive,required"`
	AllowCredentials bool     `koanf:"allow_credentials"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Analysis: AnalysisConfig{
			MaxTerms:      analyzer.DefaultMaxTerms,
			MaxInputBytes: 1 << 20,
		},
		Cache: CacheConfig{
			Size: 256,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
			CORS: CORSConfig{
				AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
				AllowCredentials: true,
			},
		},
	}
}
