package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultConfigPath    = "config.json"
	defaultServerAddress = ":8090"
	defaultProvider      = "openai"
)

// apiKeyEnv maps each supported provider to the environment variable holding its credential.
var apiKeyEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig    `json:"basic_config"`
	Provider    ProviderConfig `json:"provider"`
}

type ProviderConfig struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	// APIKey is only ever filled from the environment.
	APIKey string `json:"-"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
}

// Load reads configuration from the provided path (defaults to config.json)
// and the process environment. A missing default config file is not an error;
// a missing provider credential is.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	var cfg Config
	if err := decodeFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if addr := os.Getenv("CHATRELAY_ADDR"); addr != "" {
		cfg.BasicConfig.ServerAddress = addr
	}
	if name := os.Getenv("CHATRELAY_PROVIDER"); name != "" {
		cfg.Provider.Name = name
	}
	if cfg.BasicConfig.ServerAddress == "" {
		cfg.BasicConfig.ServerAddress = defaultServerAddress
	}
	cfg.Provider.Name = strings.ToLower(strings.TrimSpace(cfg.Provider.Name))
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = defaultProvider
	}

	envKey, ok := apiKeyEnv[cfg.Provider.Name]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider.Name)
	}
	cfg.Provider.APIKey = strings.TrimSpace(os.Getenv(envKey))
	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("%s must be set for provider %s", envKey, cfg.Provider.Name)
	}

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
