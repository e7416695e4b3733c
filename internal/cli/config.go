package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds CLI settings. Flags override the environment.
type Config struct {
	ServerURL string `env:"TTTGAME_SERVER" env-default:"http://localhost:8080" env-description:"Server base URL"`
	Token     string `env:"TTTGAME_TOKEN" env-description:"Session token; skips the token file when set"`
	TokenFile string `env:"TTTGAME_TOKEN_FILE" env-description:"Where login saves the session token (default ~/.tttgame/token)"`
	Output    string `env:"TTTGAME_OUTPUT" env-default:"text" env-description:"Output format: text or json"`
}

// LoadConfig reads settings from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = defaultTokenFile()
	}
	return cfg, nil
}

// Validate checks values that flags may have changed
func (c *Config) Validate() error {
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server must be an http(s) URL, got %q", c.ServerURL)
	}
	return nil
}

// LoadToken reads the saved token unless one was given explicitly.
// A missing token file just means nobody has logged in yet.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken writes the token where later commands will find it
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}

// ClearToken forgets the saved token
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tttgame", "token")
	}
	return filepath.Join(home, ".tttgame", "token")
}
