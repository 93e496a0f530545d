package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/fwojciec/magdoc"
	"github.com/fwojciec/magdoc/goquery"
	"gopkg.in/yaml.v3"
)

// Config holds the settings that can be overridden from a YAML file.
// Fields left out of the file keep their default values.
type Config struct {
	MinTextLen            int    `yaml:"min_text_len"`
	FootnotesPerParagraph int    `yaml:"footnotes_per_paragraph"`
	ShortishTextLen       int    `yaml:"shortish_text_len"`
	UnboldedPunctuation   string `yaml:"unbolded_punctuation"`

	TrustedHost string `yaml:"trusted_host"`
	BaseURL     string `yaml:"base_url"`

	Concurrency       int           `yaml:"concurrency"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
}

// DefaultBaseURL is the site editions are fetched from.
const DefaultBaseURL = "https://www.economist.com"

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	th := magdoc.DefaultThresholds
	return Config{
		MinTextLen:            th.MinTextLen,
		FootnotesPerParagraph: th.FootnotesPerParagraph,
		ShortishTextLen:       th.ShortishTextLen,
		UnboldedPunctuation:   th.UnboldedPunctuation,
		TrustedHost:           magdoc.DefaultTrustedHost,
		BaseURL:               DefaultBaseURL,
		Concurrency:           4,
		RequestsPerSecond:     1,
		Timeout:               30 * time.Second,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig. Unknown
// keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	switch {
	case c.MinTextLen <= 0:
		return magdoc.Errorf(magdoc.EINVALID, "min_text_len must be positive")
	case c.FootnotesPerParagraph < 0:
		return magdoc.Errorf(magdoc.EINVALID, "footnotes_per_paragraph must not be negative")
	case c.ShortishTextLen < c.MinTextLen:
		return magdoc.Errorf(magdoc.EINVALID, "shortish_text_len must be at least min_text_len")
	case c.TrustedHost == "":
		return magdoc.Errorf(magdoc.EINVALID, "trusted_host required")
	case c.Concurrency <= 0:
		return magdoc.Errorf(magdoc.EINVALID, "concurrency must be positive")
	case c.RequestsPerSecond <= 0:
		return magdoc.Errorf(magdoc.EINVALID, "requests_per_second must be positive")
	case c.Timeout <= 0:
		return magdoc.Errorf(magdoc.EINVALID, "timeout must be positive")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return magdoc.Errorf(magdoc.EINVALID, "base_url must be an absolute URL: %q", c.BaseURL)
	}
	return nil
}

// Thresholds returns the classifier thresholds of the configuration.
func (c Config) Thresholds() magdoc.Thresholds {
	return magdoc.Thresholds{
		MinTextLen:            c.MinTextLen,
		FootnotesPerParagraph: c.FootnotesPerParagraph,
		ShortishTextLen:       c.ShortishTextLen,
		UnboldedPunctuation:   c.UnboldedPunctuation,
	}
}

// Rules returns the structural rules of the configuration.
func (c Config) Rules() magdoc.Rules {
	r := magdoc.DefaultRules
	r.TrustedHost = c.TrustedHost
	return r
}

// ParserOptions returns the options every article parser is built with.
func (c Config) ParserOptions() []goquery.Option {
	return []goquery.Option{
		goquery.WithThresholds(c.Thresholds()),
		goquery.WithRules(c.Rules()),
	}
}
