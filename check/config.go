package check

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/linarith/internal"
	"github.com/gnolang/linarith/internal/linarith"
)

// DefaultConfigFile is the configuration file read when none is given.
const DefaultConfigFile = internal.ConfigFileName

// Config represents the overall configuration of a check run.
type Config struct {
	Name   string       `yaml:"name" mapstructure:"name"`
	Prover ProverConfig `yaml:"prover" mapstructure:"prover"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
}

// ProverConfig mirrors linarith.Config in file form.
type ProverConfig struct {
	MaxRounds int    `yaml:"max_rounds" mapstructure:"max_rounds"`
	MaxComps  int    `yaml:"max_comps" mapstructure:"max_comps"`
	Order     string `yaml:"order" mapstructure:"order"`
	Type      string `yaml:"type" mapstructure:"type"`
	SelfCheck bool   `yaml:"self_check" mapstructure:"self_check"`
}

// CacheConfig configures the result cache. An empty Dir disables it.
type CacheConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	MaxAge string `yaml:"max_age" mapstructure:"max_age"`
}

// DefaultConfig returns the configuration written by `linarith init`.
func DefaultConfig() Config {
	prover := linarith.DefaultConfig()
	return Config{
		Name: "linarith",
		Prover: ProverConfig{
			MaxRounds: prover.Limits.MaxRounds,
			MaxComps:  prover.Limits.MaxComps,
			Order:     prover.Order.String(),
			Type:      prover.Type,
			SelfCheck: prover.SelfCheck,
		},
		Cache: CacheConfig{
			Dir:    ".linarith-cache",
			MaxAge: "24h",
		},
	}
}

// LoadConfig reads the configuration file at path. A missing file yields
// the defaults. Environment variables such as LINARITH_PROVER_MAX_ROUNDS
// override file values.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("linarith")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultConfigFile
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("failed to access config %s: %w", path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return config, nil
}

func setDefaults(v *viper.Viper, config Config) {
	v.SetDefault("name", config.Name)
	v.SetDefault("prover.max_rounds", config.Prover.MaxRounds)
	v.SetDefault("prover.max_comps", config.Prover.MaxComps)
	v.SetDefault("prover.order", config.Prover.Order)
	v.SetDefault("prover.type", config.Prover.Type)
	v.SetDefault("prover.self_check", config.Prover.SelfCheck)
	v.SetDefault("cache.dir", config.Cache.Dir)
	v.SetDefault("cache.max_age", config.Cache.MaxAge)
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	if path == "" {
		path = DefaultConfigFile
	}

	d, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, d, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// ProverConfig converts the file form into a prover configuration.
func (c Config) ProverConfig() (linarith.Config, error) {
	order, err := linarith.ParseOrder(c.Prover.Order)
	if err != nil {
		return linarith.Config{}, err
	}
	if c.Prover.MaxRounds < 0 || c.Prover.MaxComps < 0 {
		return linarith.Config{}, errors.New("prover limits must not be negative")
	}

	return linarith.Config{
		Type:  c.Prover.Type,
		Order: order,
		Limits: linarith.Limits{
			MaxRounds: c.Prover.MaxRounds,
			MaxComps:  c.Prover.MaxComps,
		},
		SelfCheck: c.Prover.SelfCheck,
	}, nil
}

// CacheMaxAge parses the cache age. An empty value means no limit.
func (c Config) CacheMaxAge() (time.Duration, error) {
	if c.Cache.MaxAge == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid cache max_age %q: %w", c.Cache.MaxAge, err)
	}
	return d, nil
}
