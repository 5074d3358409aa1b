// Package modelstore loads pre-trained model artifacts from disk and resolves
// which one serves the process. Selection happens once, at startup; requests
// never switch models.
package modelstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/factory"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/inference"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/prediction"
	"github.com/Madhumita-crypto/campus-energy-optimizer/infra/logger"
)

// Config names the model artifacts.
type Config struct {
	// Primary is the artifact normally used.
	Primary string `json:"primary"`
	// Fallback is loaded only when Primary fails and AllowFallback is set.
	Fallback      string `json:"fallback"`
	AllowFallback bool   `json:"allow_fallback"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Primary == "" {
		c.Primary = "energy_model.json"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Primary == "" {
		return fmt.Errorf("model.primary is required")
	}
	if c.AllowFallback && c.Fallback == "" {
		return fmt.Errorf("model.allow_fallback requires model.fallback")
	}
	return nil
}

// artifact is the on-disk envelope shared by every model kind.
type artifact struct {
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Params map[string]any `json:"params"`
}

var kinds = factory.NewRegistry[prediction.Model]()

func init() {
	_ = kinds.Register("linear", func(conf map[string]any) (prediction.Model, error) {
		return newLinearFromConf(conf)
	})
	_ = kinds.Register("forest", func(conf map[string]any) (prediction.Model, error) {
		return newForestFromConf(conf)
	})
}

// Kinds lists the supported artifact kinds.
func Kinds() []string { return kinds.Names() }

// Load reads the artifact at path and builds its model. Every failure is a
// *inference.StartupError.
func Load(path string) (prediction.Model, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", &inference.StartupError{Path: path, Err: fmt.Errorf("artifact not found")}
		}
		return nil, "", &inference.StartupError{Path: path, Err: err}
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, "", &inference.StartupError{Path: path, Err: fmt.Errorf("decode artifact: %w", err)}
	}
	if a.Params == nil {
		a.Params = map[string]any{}
	}
	if _, ok := a.Params["name"]; !ok && a.Name != "" {
		a.Params["name"] = a.Name
	}
	m, err := kinds.Create(factory.ModuleConfig{Type: a.Kind, Conf: a.Params})
	if err != nil {
		return nil, "", &inference.StartupError{Path: path, Err: fmt.Errorf("%s model: %w", a.Kind, err)}
	}
	return m, a.Kind, nil
}

// Selection describes the model chosen at startup.
type Selection struct {
	Model    prediction.Model
	Kind     string
	Path     string
	Fallback bool
	// PrimaryErr is set when the fallback was used.
	PrimaryErr error
	LoadedAt   time.Time
}

// Select loads the primary artifact, or the fallback when permitted. The
// decision is logged. It returns a *inference.StartupError when no model
// could be loaded.
func Select(cfg Config, log logger.Logger) (*Selection, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &inference.StartupError{Err: err}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	m, kind, err := Load(cfg.Primary)
	if err == nil {
		log.Infof("loaded %s model %q from %s", kind, m.Name(), cfg.Primary)
		return &Selection{Model: m, Kind: kind, Path: cfg.Primary, LoadedAt: time.Now()}, nil
	}
	if !cfg.AllowFallback {
		return nil, err
	}
	log.Warnf("primary model unavailable (%v), falling back to %s", err, cfg.Fallback)
	fm, fkind, ferr := Load(cfg.Fallback)
	if ferr != nil {
		return nil, &inference.StartupError{Err: errors.Join(err, ferr)}
	}
	log.Warnf("serving fallback %s model %q from %s", fkind, fm.Name(), cfg.Fallback)
	return &Selection{Model: fm, Kind: fkind, Path: cfg.Fallback, Fallback: true, PrimaryErr: err, LoadedAt: time.Now()}, nil
}
