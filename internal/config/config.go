// Package config loads the sexpfmt configuration file.
//
//	style: kicad        # compact, pretty, kicad or rules
//	indent: "  "        # pretty only
//	rules:              # rules only, head symbol -> depth
//	  layer: 1
//	  pad: 1
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	sexp "github.com/alttpo/gsexp"
)

const (
	StyleCompact = "compact"
	StylePretty  = "pretty"
	StyleKiCad   = "kicad"
	StyleRules   = "rules"
)

// Config selects the layout used when writing files.
type Config struct {
	Path   string         `yaml:"-"`
	Style  string         `yaml:"style"`
	Indent string         `yaml:"indent,omitempty"`
	Rules  map[string]int `yaml:"rules,omitempty"`
}

// Default renders with the KiCad rule preset.
func Default() *Config {
	return &Config{
		Style: StyleKiCad,
		Rules: sexp.KiCadRules(),
	}
}

// Load parses the YAML file at path. Unknown keys are an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: resolve %s", path)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &Config{}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", abs)
	}
	cfg.Path = abs

	if err := cfg.normalize(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", abs)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Style = strings.ToLower(strings.TrimSpace(c.Style))
	switch c.Style {
	case "":
		c.Style = StyleKiCad
	case StyleCompact, StylePretty, StyleKiCad, StyleRules:
	default:
		return errors.Errorf("unknown style %q", c.Style)
	}

	for head, depth := range c.Rules {
		if depth < 0 {
			return errors.Errorf("rule %s: negative depth %d", head, depth)
		}
	}
	if c.Style == StyleKiCad && len(c.Rules) == 0 {
		c.Rules = sexp.KiCadRules()
	}
	return nil
}

// Layout converts the configuration into a formatter style. The kicad style
// uses the configured rules when there are any, the preset otherwise.
func (c *Config) Layout() (sexp.Style, error) {
	return StyleFor(c.Style, c)
}

// StyleFor resolves a style name, taking rules and indent from c.
func StyleFor(name string, c *Config) (sexp.Style, error) {
	if c == nil {
		c = Default()
	}
	switch strings.ToLower(name) {
	case StyleCompact:
		return sexp.Compact{}, nil
	case StylePretty:
		return sexp.Pretty{Indent: c.Indent}, nil
	case StyleKiCad:
		if len(c.Rules) == 0 {
			return sexp.Rules{Table: sexp.KiCadRules()}, nil
		}
		return sexp.Rules{Table: sexp.RuleTable(c.Rules).Clone()}, nil
	case StyleRules:
		return sexp.Rules{Table: sexp.RuleTable(c.Rules).Clone()}, nil
	}
	return nil, errors.Errorf("config: unknown style %q", name)
}

// Write stores c as YAML at path.
func Write(c *Config, path string) error {
	if c == nil {
		return errors.New("config: nil config")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrapf(err, "config: marshal %s", path)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "config: encoder close")
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "config: write %s", path)
}
