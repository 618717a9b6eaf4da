// Package config resolves runtime settings from defaults, an optional
// YAML file and COVID_* environment variables, in that order.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces the environment variables, e.g. COVID_WINDOW.
const envPrefix = "covid"

// Config holds all runtime settings for the chart tool.
type Config struct {
	// InputDir is the directory holding the daily report files.
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"csse_covid_19_data/csse_covid_19_daily_reports"`

	// Region is the focus region highlighted on the chart.
	Region string `yaml:"region" envconfig:"REGION" default:"United States"`

	// Window is the smoothing window: each plotted value averages
	// window+1 consecutive daily counts.
	Window int `yaml:"window" envconfig:"WINDOW" default:"4"`

	// BackgroundBelow draws regions with fewer latest confirmed cases
	// than this as unlabeled background traces.
	BackgroundBelow int `yaml:"background_below" envconfig:"BACKGROUND_BELOW" default:"10000"`

	// LogScale plots the case counts on a log10 axis.
	LogScale bool `yaml:"log_scale" envconfig:"LOG_SCALE" default:"true"`

	// Output is the SVG file written in batch mode.
	Output string `yaml:"output" envconfig:"OUTPUT" default:"output.svg"`

	// Addr is the listen address for serve mode in development.
	Addr string `yaml:"addr" envconfig:"ADDR" default:":3000"`

	// Domains switches serve mode to TLS with certificates requested
	// for these host names. Empty means plain HTTP on Addr.
	Domains []string `yaml:"domains" envconfig:"DOMAINS"`

	// Aliases extends the built-in region name alias table,
	// raw name to canonical name.
	Aliases map[string]string `yaml:"aliases"`
}

// Load resolves the configuration. Environment variables are applied
// first (over struct defaults), then the YAML file at path, if given,
// overrides whatever it sets.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: error reading environment:%w", err)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: error opening file:%s error:%w", path, err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("config: error parsing file:%s error:%w", path, err)
		}
	}

	if cfg.Window < 0 {
		return nil, fmt.Errorf("config: window must not be negative, got:%d", cfg.Window)
	}
	return &cfg, nil
}
