package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/nnt/internal/render"
)

// Notebook is one notebook server the client can talk to.
type Notebook struct {
	URL   string `yaml:"url"             json:"url"`
	Token string `yaml:"token,omitempty" json:"token,omitempty"`
}

type Config struct {
	Notebooks       map[string]*Notebook `yaml:"notebooks"           json:"notebooks"`
	CurrentNotebook string               `yaml:"current_notebook"    json:"current_notebook"`
	Style           string               `yaml:"style,omitempty"     json:"style,omitempty"`
	WordWrap        int                  `yaml:"word_wrap,omitempty" json:"word_wrap,omitempty"`
	LogLevel        string               `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	StateDir        string               `yaml:"state_dir,omitempty" json:"state_dir,omitempty"`

	active *Notebook `yaml:"-"`
	home   string    `yaml:"-"`
}

var ValidLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid notebook url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid notebook url %q: expected http(s)://host/path", raw)
	}
	return nil
}

// NormalizeURL drops any fragment and makes the path end with a slash.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.home = home

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Style != "" && !render.ValidStyle(cfg.Style) {
		return fmt.Errorf(
			"invalid style: %q. Please choose from %s.",
			cfg.Style,
			strings.Join(render.Styles, ", "),
		)
	}
	if cfg.LogLevel != "" && !ValidLogLevels[strings.ToLower(cfg.LogLevel)] {
		return fmt.Errorf("invalid log_level: %q", cfg.LogLevel)
	}
	if cfg.WordWrap < 0 {
		return fmt.Errorf("invalid word_wrap: %d", cfg.WordWrap)
	}
	for name, nb := range cfg.Notebooks {
		if nb == nil || nb.URL == "" {
			continue
		}
		if err := ValidateURL(nb.URL); err != nil {
			return fmt.Errorf("notebook %q: %w", name, err)
		}
	}
	return nil
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Notebooks == nil {
		cfg.Notebooks = make(map[string]*Notebook)
	}

	if cfg.CurrentNotebook == "" {
		names := cfg.NotebookNames()
		if len(names) == 0 {
			return nil
		}
		cfg.CurrentNotebook = names[0]
	}

	return cfg.setActiveNotebook(cfg.CurrentNotebook)
}

func (cfg *Config) setActiveNotebook(name string) error {
	if name == "" {
		return fmt.Errorf("notebook name cannot be empty")
	}
	nb, ok := cfg.Notebooks[name]
	if !ok {
		return fmt.Errorf("notebook %q does not exist", name)
	}
	if nb == nil {
		nb = &Notebook{}
		cfg.Notebooks[name] = nb
	}

	cfg.CurrentNotebook = name
	cfg.active = nb

	cfg.syncViperWithActiveNotebook()

	return nil
}

// syncViperWithActiveNotebook publishes the active notebook as viper
// defaults, so NNT_* environment variables and flags still win.
func (cfg *Config) syncViperWithActiveNotebook() {
	if cfg.active == nil {
		return
	}
	viper.SetDefault("notebook", cfg.CurrentNotebook)
	viper.SetDefault("url", cfg.active.URL)
	viper.SetDefault("token", cfg.active.Token)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("style", cfg.Style)
	viper.SetDefault("word_wrap", cfg.WordWrap)
}

func (cfg *Config) ActiveNotebook() (*Notebook, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentNotebook == "" {
		return nil, fmt.Errorf("no notebook is currently selected")
	}

	if err := cfg.setActiveNotebook(cfg.CurrentNotebook); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) NotebookNames() []string {
	names := make([]string, 0, len(cfg.Notebooks))
	for name := range cfg.Notebooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActivateNotebook selects a notebook for this run only.
func (cfg *Config) ActivateNotebook(name string) error {
	return cfg.setActiveNotebook(name)
}

// SwitchNotebook selects a notebook and persists the choice.
func (cfg *Config) SwitchNotebook(name string) error {
	if err := cfg.setActiveNotebook(name); err != nil {
		return err
	}
	return cfg.Save()
}

func (cfg *Config) AddNotebook(name string, nb *Notebook, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("notebook name cannot be empty")
	}
	if nb == nil {
		return fmt.Errorf("notebook %q has no settings", trimmed)
	}
	if err := ValidateURL(nb.URL); err != nil {
		return err
	}
	nb.URL = NormalizeURL(nb.URL)

	if cfg.Notebooks == nil {
		cfg.Notebooks = make(map[string]*Notebook)
	}
	if _, exists := cfg.Notebooks[trimmed]; exists {
		return fmt.Errorf("notebook %q already exists", trimmed)
	}
	cfg.Notebooks[trimmed] = nb

	if cfg.CurrentNotebook == "" || makeCurrent {
		if err := cfg.setActiveNotebook(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) RemoveNotebook(name string) error {
	if _, exists := cfg.Notebooks[name]; !exists {
		return fmt.Errorf("notebook %q does not exist", name)
	}

	delete(cfg.Notebooks, name)

	if cfg.CurrentNotebook == name {
		cfg.active = nil
		cfg.CurrentNotebook = ""
		if err := cfg.ensureInitialized(); err != nil {
			return err
		}
	}

	return cfg.Save()
}

// SetToken stores the bearer token of a notebook. An empty token clears it.
func (cfg *Config) SetToken(name, token string) error {
	nb, exists := cfg.Notebooks[name]
	if !exists || nb == nil {
		return fmt.Errorf("notebook %q does not exist", name)
	}
	nb.Token = strings.TrimSpace(token)
	return cfg.Save()
}

// Path is the file the config was loaded from.
func (cfg *Config) Path() string {
	if cfg.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cfg.home = home
	}
	return GetConfigPath(cfg.home)
}

func (cfg *Config) Save() error {
	path := cfg.Path()
	if path == "" {
		return fmt.Errorf("failed to resolve config path")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
