package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
)

type Config struct {
	Language       string   `json:"language"`
	Model          string   `json:"model"`
	Endpoint       string   `json:"endpoint"`
	PromptTemplate string   `json:"prompt_template,omitempty"`
	UseCategory    bool     `json:"use_category"`
	Timeout        Duration `json:"timeout"`

	PathFile string `json:"-"`
}

// Duration is a time.Duration stored as a Go duration string ("90s", "2m").
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timeout must be a duration string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

const (
	dirName  = ".git-whisper"
	fileName = "config.json"

	defaultLang        = LangEN
	defaultModel       = "llama3"
	defaultEndpoint    = "http://localhost:11434"
	defaultUseCategory = true
	defaultTimeout     time.Duration = 0 // idle timeout; zero waits as long as the model needs
)

// Git config keys read on top of the config file.
const (
	GitKeyModel    = "git-whisper.model"
	GitKeyPrompt   = "git-whisper.prompt"
	GitKeyEndpoint = "git-whisper.endpoint"
	GitKeyCategory = "git-whisper.category"
)

// Keys accepted by Set.
const (
	KeyModel    = "model"
	KeyEndpoint = "endpoint"
	KeyPrompt   = "prompt"
	KeyLang     = "lang"
	KeyCategory = "category"
	KeyTimeout  = "timeout"
)

func Keys() []string {
	keys := []string{KeyModel, KeyEndpoint, KeyPrompt, KeyLang, KeyCategory, KeyTimeout}
	sort.Strings(keys)
	return keys
}

func Default() *Config {
	return &Config{
		Language:    defaultLang,
		Model:       defaultModel,
		Endpoint:    defaultEndpoint,
		UseCategory: defaultUseCategory,
		Timeout:     Duration(defaultTimeout),
	}
}

// DefaultPath is ~/.git-whisper/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", domainErrors.ErrConfigInvalid.WithError(err)
	}
	if home == "" {
		return "", domainErrors.ErrConfigInvalid.WithError(errors.New("home directory is not set"))
	}
	return filepath.Join(home, dirName, fileName), nil
}

// LoadConfig reads the config file, creating it with defaults on first use.
// path may be a .json file or a directory holding .git-whisper/config.json;
// an empty path means the home directory. Fields missing from the file keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return createDefaultConfig(configPath)
	}
	if err != nil {
		return nil, domainErrors.ErrConfigInvalid.WithError(err).WithContext("path", configPath)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, domainErrors.ErrConfigInvalid.WithError(err).WithContext("path", configPath)
	}
	cfg.PathFile = configPath

	if err := validateConfig(cfg); err != nil {
		return nil, domainErrors.ErrConfigInvalid.WithError(err).WithContext("path", configPath)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	switch {
	case path == "":
		return DefaultPath()
	case filepath.Ext(path) == ".json":
		return path, nil
	default:
		return filepath.Join(path, dirName, fileName), nil
	}
}

func createDefaultConfig(path string) (*Config, error) {
	cfg := Default()
	cfg.PathFile = path

	if err := SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return domainErrors.ErrConfigInvalid.WithError(err)
	}

	if cfg.PathFile == "" {
		return domainErrors.ErrConfigWrite.WithError(errors.New("config file path is not set"))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PathFile), 0o755); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err).WithContext("path", cfg.PathFile)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return domainErrors.ErrConfigWrite.WithError(err)
	}

	if err := os.WriteFile(cfg.PathFile, data, 0o644); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err).WithContext("path", cfg.PathFile)
	}

	return nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Model) == "" {
		return errors.New("model cannot be empty")
	}
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return err
	}
	if cfg.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	if !IsSupportedLanguage(cfg.Language) {
		return fmt.Errorf("unsupported language: %q", cfg.Language)
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL: %q", endpoint)
	}
	return nil
}

// ApplyGitConfig overlays the git-whisper.* git config keys found by lookup.
func ApplyGitConfig(cfg *Config, lookup func(key string) (string, bool)) error {
	if v, ok := lookup(GitKeyModel); ok && strings.TrimSpace(v) != "" {
		cfg.Model = strings.TrimSpace(v)
	}
	if v, ok := lookup(GitKeyPrompt); ok && strings.TrimSpace(v) != "" {
		cfg.PromptTemplate = v
	}
	if v, ok := lookup(GitKeyEndpoint); ok && strings.TrimSpace(v) != "" {
		cfg.Endpoint = strings.TrimSpace(v)
	}
	if v, ok := lookup(GitKeyCategory); ok {
		b, err := parseGitBool(v)
		if err != nil {
			return domainErrors.ErrConfigInvalid.WithError(err).WithContext("key", GitKeyCategory)
		}
		cfg.UseCategory = b
	}

	if err := validateConfig(cfg); err != nil {
		return domainErrors.ErrConfigInvalid.WithError(err).WithContext("source", "git config")
	}
	return nil
}

// parseGitBool accepts the boolean spellings git itself understands.
func parseGitBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", v)
	}
}

// Set changes one setting by its user-facing key and validates the result.
// cfg is left untouched on error.
func Set(cfg *Config, key, value string) error {
	next := *cfg

	switch key {
	case KeyModel:
		next.Model = strings.TrimSpace(value)
	case KeyEndpoint:
		next.Endpoint = strings.TrimSpace(value)
	case KeyPrompt:
		next.PromptTemplate = value
	case KeyLang:
		next.Language = strings.ToLower(strings.TrimSpace(value))
	case KeyCategory:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return domainErrors.ErrConfigInvalid.WithError(err).WithContext("key", key)
		}
		next.UseCategory = b
	case KeyTimeout:
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return domainErrors.ErrConfigInvalid.WithError(err).WithContext("key", key)
		}
		next.Timeout = Duration(d)
	default:
		return domainErrors.ErrConfigInvalid.
			WithError(fmt.Errorf("unknown key %q", key)).
			WithContext("key", key).
			WithSuggestion("Valid keys: " + strings.Join(Keys(), ", "))
	}

	if err := validateConfig(&next); err != nil {
		return domainErrors.ErrConfigInvalid.WithError(err).WithContext("key", key)
	}

	*cfg = next
	return nil
}
