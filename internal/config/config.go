package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// placeholderSecret is the secret shipped in example configs. The server
// refuses to start with it: earlier releases silently fell back to a
// well-known default, which meant any deployment that forgot to set one
// signed tokens anyone could forge.
const placeholderSecret = "change-me-in-production"

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Chat     ChatConfig     `toml:"chat"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret             string `toml:"jwt_secret"`
	StudentTokenExpiryMin int    `toml:"student_token_expiry_min"`
	AdminTokenExpiryMin   int    `toml:"admin_token_expiry_min"`
}

type ChatConfig struct {
	// FallbackMessage is the bot reply for queries no FAQ covers.
	FallbackMessage string `toml:"fallback_message"`
	// MotivationalQuote is shown on the student home screen.
	MotivationalQuote string `toml:"motivational_quote"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Database: DatabaseConfig{
			Path: "data/campusdesk.db",
		},
		Auth: AuthConfig{
			JWTSecret:             placeholderSecret,
			StudentTokenExpiryMin: 60,
			AdminTokenExpiryMin:   120,
		},
		Chat: ChatConfig{
			FallbackMessage:   "I'm not sure about that yet, but our admin will review your question soon.",
			MotivationalQuote: "The future depends on what you do today. — Mahatma Gandhi",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if secret := os.Getenv("CAMPUSDESK_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	return cfg, nil
}

// Validate fails fast on configuration the server must not run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == placeholderSecret {
		return fmt.Errorf("auth.jwt_secret must be set explicitly (config.toml or CAMPUSDESK_JWT_SECRET)")
	}
	if c.Auth.StudentTokenExpiryMin <= 0 || c.Auth.AdminTokenExpiryMin <= 0 {
		return fmt.Errorf("token expiry minutes must be positive")
	}
	return nil
}
