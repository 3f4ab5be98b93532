// Package etikett tags photos using a local vision-language model.
package etikett

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// DefaultMinEdge is the minimum edge length of a RAW preview, in pixels.
	DefaultMinEdge = 2000
	// DefaultQuality is the JPEG quality of emitted previews.
	DefaultQuality = 90
)

// DefaultPrompt is the instruction sent alongside each image.
var DefaultPrompt = "Extract detailed attributes of the subject in this image, including: " +
	"hair color, hair length, eye color, type of scene, and setting. " +
	"Return the details as a comma-separated list of tags."

// Config holds configuration for etikett.
type Config struct {
	InDir  string `yaml:"in_dir"`
	OutDir string `yaml:"out_dir"`

	Backend  string `yaml:"backend"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	Prompt   string `yaml:"prompt"`

	MinEdge int `yaml:"min_edge"`
	Quality int `yaml:"quality"`

	// CleanTags persists the normalized tag set instead of the raw model string.
	CleanTags bool `yaml:"clean_tags"`

	ArchiveDir string `yaml:"archive_dir"`
	LogFile    string `yaml:"log_file"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &Config{}
	if err := yaml.Unmarshal(bs, c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return c, nil
}

// ApplyDefaults fills unset fields with the stock values.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "ollama"
	}

	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}

	if c.Model == "" {
		c.Model = DefaultModel
		if c.Backend == "gemini" {
			c.Model = DefaultGeminiModel
		}
	}

	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}

	if c.MinEdge == 0 {
		c.MinEdge = DefaultMinEdge
	}

	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
}
