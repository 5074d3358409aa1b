package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/inference"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/metrics"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/averages"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/modelstore"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/mqtt"
)

// EnvPrefix marks environment variables that override file values.
// EO_MODEL__PRIMARY=/srv/model.json sets model.primary.
const EnvPrefix = "EO_"

type Config struct {
	Server    ServerConfig      `json:"server"`
	Model     modelstore.Config `json:"model"`
	Inference inference.Config  `json:"inference"`
	Averages  averages.Config   `json:"averages"`
	Metrics   metrics.Config    `json:"metrics"`
	MQTT      mqtt.Config       `json:"mqtt"`
	Log       logger.Config     `json:"log"`
}

// Load reads the configuration file at path, applies environment overrides,
// defaults and validation. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Model.SetDefaults()
	c.Inference.SetDefaults()
	c.Averages.SetDefaults()
	c.MQTT.SetDefaults()
	c.Log.SetDefaults()
}

// Validate checks every section and prefixes errors with the section name.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"server", c.Server.Validate},
		{"model", c.Model.Validate},
		{"inference", c.Inference.Validate},
		{"mqtt", c.MQTT.Validate},
		{"log", c.Log.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	return nil
}
