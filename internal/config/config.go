package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultCatalog      = "websites-by-country.json"
	defaultTopologyURL  = "https://unpkg.com/world-atlas@2/countries-110m.json"
	defaultCountriesAPI = "https://restcountries.com/v3.1"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	Catalog      string `yaml:"catalog"`
	TopologyURL  string `yaml:"topology_url"`
	CountriesAPI string `yaml:"countries_api"`
	DBPath       string `yaml:"db_path"`
	LogPath      string `yaml:"log_path"`
	LogLevel     string `yaml:"log_level"`
	Charset      string `yaml:"charset"`
	FlagPreview  bool   `yaml:"flag_preview"`
}

// LoadFromEnv reads the optional YAML file named by ORBITAL_CONFIG, then
// applies environment overrides and defaults.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv("ORBITAL_CONFIG"))
}

// Load reads path (when non-empty) and layers the environment on top.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	overrideString(&cfg.Catalog, "ORBITAL_CATALOG")
	overrideString(&cfg.TopologyURL, "ORBITAL_TOPOLOGY_URL")
	overrideString(&cfg.CountriesAPI, "ORBITAL_COUNTRIES_API")
	overrideString(&cfg.DBPath, "ORBITAL_DB_PATH")
	overrideString(&cfg.LogPath, "ORBITAL_LOG_PATH")
	overrideString(&cfg.LogLevel, "ORBITAL_LOG_LEVEL")
	overrideString(&cfg.Charset, "ORBITAL_CHARSET")
	if v := os.Getenv("ORBITAL_FLAG_PREVIEW"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("ORBITAL_FLAG_PREVIEW must be a boolean: %s", v)
		}
		cfg.FlagPreview = enabled
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration file without applying defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Catalog == "" {
		c.Catalog = defaultCatalog
	}
	if c.TopologyURL == "" {
		c.TopologyURL = defaultTopologyURL
	}
	if c.CountriesAPI == "" {
		c.CountriesAPI = defaultCountriesAPI
	}
	if c.DBPath == "" {
		c.DBPath = "orbital.db"
	}
	if c.LogPath == "" {
		c.LogPath = "orbital.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Charset == "" {
		c.Charset = "blocks"
	}
}

func (c Config) Validate() error {
	if c.Catalog == "" {
		return errors.New("Catalog is required")
	}
	if c.TopologyURL == "" {
		return errors.New("TopologyURL is required")
	}
	if c.CountriesAPI == "" {
		return errors.New("CountriesAPI is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if strings.HasSuffix(c.CountriesAPI, "/") {
		return fmt.Errorf("CountriesAPI must not end with '/': %s", c.CountriesAPI)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	switch c.Charset {
	case "ascii", "blocks", "braille":
	default:
		return fmt.Errorf("Charset must be ascii, blocks or braille: %s", c.Charset)
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
