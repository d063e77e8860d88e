// Package config resolves railfence configuration from built-in defaults,
// an optional YAML or JSON file, and RAILFENCE_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Dictionary backends.
const (
	BackendCorpus = "corpus"
	BackendRemote = "remote"
)

// DefaultEndpoint is the per-word lookup service used by the remote backend.
const DefaultEndpoint = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Lookup budget bounds. Budgets outside the range are clamped.
const (
	MinBudget     = 15
	MaxBudget     = 30
	DefaultBudget = 30
)

// DefaultFiles are tried in the working directory when no explicit path is given.
var DefaultFiles = []string{"railfence.yaml", "railfence.yml", "railfence.json"}

// Config is the fully resolved configuration.
type Config struct {
	Dictionary Dictionary `yaml:"dictionary" json:"dictionary"`
	Scoring    Scoring    `yaml:"scoring" json:"scoring"`
	Attack     Attack     `yaml:"attack" json:"attack"`
	Store      Store      `yaml:"store" json:"store"`
	Log        Log        `yaml:"log" json:"log"`
}

// Dictionary selects and configures the word-membership backend.
type Dictionary struct {
	Backend  string   `yaml:"backend" json:"backend"`
	Sources  []Source `yaml:"sources" json:"sources"`
	Endpoint string   `yaml:"endpoint" json:"endpoint"`
	Timeout  Duration `yaml:"timeout" json:"timeout"`
}

// Source names one word list for the corpus backend. Location is
// "builtin:<name>", a local path, or an http(s) URL.
type Source struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location" json:"location"`
}

// Scoring tunes the lexical scorer.
type Scoring struct {
	Budget int `yaml:"budget" json:"budget"`
}

// Attack tunes the brute-force engine.
type Attack struct {
	Parallel int `yaml:"parallel" json:"parallel"`
}

// Store locates the attack history database.
type Store struct {
	Path string `yaml:"path" json:"path"`
}

// Log controls the slog handler.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Duration is a time.Duration that decodes from strings such as "5s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are read as seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.parse(s)
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds: %s", data)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// BuiltinSources lists the word lists embedded in the binary.
func BuiltinSources() []Source {
	return []Source{
		{Name: "words", Location: "builtin:words"},
		{Name: "nouns", Location: "builtin:nouns"},
		{Name: "verbs", Location: "builtin:verbs"},
		{Name: "adjs", Location: "builtin:adjs"},
		{Name: "advs", Location: "builtin:advs"},
		{Name: "function", Location: "builtin:function"},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dictionary: Dictionary{
			Backend:  BackendCorpus,
			Sources:  BuiltinSources(),
			Endpoint: DefaultEndpoint,
			Timeout:  Duration(5 * time.Second),
		},
		Scoring: Scoring{Budget: DefaultBudget},
		Attack:  Attack{Parallel: 1},
		Store:   Store{Path: filepath.Join(".railfence", "railfence.db")},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load resolves configuration. When path is empty the DefaultFiles are tried
// in the working directory and a missing file is not an error; an explicit
// path must exist. Environment overrides have the highest precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, name := range DefaultFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}
	if path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile merges the file at path into cfg. Format is detected by extension
// (.yaml/.yml → YAML, .json → JSON) or by content.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config %s: %w", path, err)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(cfg, data, filepath.Ext(path)); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Parse merges data into cfg. ext is a format hint; empty means detect from content.
func Parse(cfg *Config, data []byte, ext string) error {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" && strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		ext = ".json"
	}
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("RAILFENCE_BACKEND")); val != "" {
		cfg.Dictionary.Backend = val
	}
	if val := strings.TrimSpace(os.Getenv("RAILFENCE_ENDPOINT")); val != "" {
		cfg.Dictionary.Endpoint = val
	}
	if val := strings.TrimSpace(os.Getenv("RAILFENCE_DB")); val != "" {
		cfg.Store.Path = val
	}
	if val := strings.TrimSpace(os.Getenv("RAILFENCE_LOG_LEVEL")); val != "" {
		cfg.Log.Level = val
	}
	if val := strings.TrimSpace(os.Getenv("RAILFENCE_LOG_FORMAT")); val != "" {
		cfg.Log.Format = val
	}
	if val := strings.TrimSpace(os.Getenv("RAILFENCE_PARALLEL")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("RAILFENCE_PARALLEL: %w", err)
		}
		cfg.Attack.Parallel = n
	}
	return nil
}

// Validate normalizes cfg in place and rejects values that cannot be used.
func (c *Config) Validate() error {
	c.Dictionary.Backend = strings.ToLower(strings.TrimSpace(c.Dictionary.Backend))
	switch c.Dictionary.Backend {
	case BackendCorpus:
		if len(c.Dictionary.Sources) == 0 {
			return errors.New("dictionary: corpus backend needs at least one source")
		}
	case BackendRemote:
		if strings.TrimSpace(c.Dictionary.Endpoint) == "" {
			return errors.New("dictionary: remote backend needs an endpoint")
		}
	default:
		return fmt.Errorf("dictionary: unknown backend %q (want %s or %s)", c.Dictionary.Backend, BackendCorpus, BackendRemote)
	}
	c.Scoring.Budget = ClampBudget(c.Scoring.Budget)
	if c.Attack.Parallel < 1 {
		c.Attack.Parallel = 1
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log: unknown format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// ClampBudget keeps a lookup budget within [MinBudget, MaxBudget]; zero
// selects DefaultBudget.
func ClampBudget(n int) int {
	switch {
	case n == 0:
		return DefaultBudget
	case n < MinBudget:
		return MinBudget
	case n > MaxBudget:
		return MaxBudget
	}
	return n
}
