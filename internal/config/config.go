// Package config holds persistent slidekit settings in ~/.slidekit.yaml.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name in the home directory.
const FileName = ".slidekit.yaml"

// Config holds persistent settings. Command flags override these.
type Config struct {
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Format  string        `yaml:"format"` // "svg", "png" or "html"
	Count   int           `yaml:"count"`  // images per demo deck
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
	LastDir string        `yaml:"last_dir"`
}

// Default returns the default configuration.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		Width:   800,
		Height:  600,
		Format:  "svg",
		Count:   5,
		APIURL:  "https://dog.ceo",
		Timeout: 30 * time.Second,
		LastDir: cwd,
	}
}

// Path returns the path to the config file.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// fileConfig mirrors Config with optional fields so unset and invalid
// values fall back to the defaults one by one.
type fileConfig struct {
	Width   *int    `yaml:"width"`
	Height  *int    `yaml:"height"`
	Format  *string `yaml:"format"`
	Count   *int    `yaml:"count"`
	APIURL  *string `yaml:"api_url"`
	Timeout *string `yaml:"timeout"`
	LastDir *string `yaml:"last_dir"`
}

// Load reads the config at path. A missing or unreadable file yields the
// defaults; invalid values are ignored.
func Load(path string) Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		log.Printf("config: ignoring %s: %v", path, err)
		return cfg
	}

	if fc.Width != nil && *fc.Width > 0 {
		cfg.Width = *fc.Width
	}
	if fc.Height != nil && *fc.Height > 0 {
		cfg.Height = *fc.Height
	}
	if fc.Format != nil && ValidFormat(*fc.Format) {
		cfg.Format = *fc.Format
	}
	if fc.Count != nil && *fc.Count > 0 {
		cfg.Count = *fc.Count
	}
	if fc.APIURL != nil && *fc.APIURL != "" {
		cfg.APIURL = *fc.APIURL
	}
	if fc.Timeout != nil {
		if d, err := time.ParseDuration(*fc.Timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if fc.LastDir != nil && *fc.LastDir != "" {
		cfg.LastDir = *fc.LastDir
	}
	return cfg
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	out := struct {
		Width   int    `yaml:"width"`
		Height  int    `yaml:"height"`
		Format  string `yaml:"format"`
		Count   int    `yaml:"count"`
		APIURL  string `yaml:"api_url"`
		Timeout string `yaml:"timeout"`
		LastDir string `yaml:"last_dir,omitempty"`
	}{cfg.Width, cfg.Height, cfg.Format, cfg.Count, cfg.APIURL, cfg.Timeout.String(), cfg.LastDir}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append([]byte("# slidekit configuration\n"), data...)
	return os.WriteFile(path, data, 0644)
}

// ValidFormat reports whether f is a supported render format.
func ValidFormat(f string) bool {
	switch f {
	case "svg", "png", "html":
		return true
	}
	return false
}
