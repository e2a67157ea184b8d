package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the client needs to reach a ConvoHub server
// and keep its local state.
type Config struct {
	APIURL    string `env:"CONVOHUB_API_URL" envDefault:"http://127.0.0.1:8000"`
	WSURL     string `env:"CONVOHUB_WS_URL"`
	StatePath string `env:"CONVOHUB_STATE_PATH"`
	LogLevel  string `env:"CONVOHUB_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	if c.WSURL == "" {
		ws, err := deriveWSURL(c.APIURL)
		if err != nil {
			return nil, err
		}
		c.WSURL = ws
	}
	c.WSURL = strings.TrimRight(c.WSURL, "/")

	if c.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.StatePath = filepath.Join(home, ".convohub.db")
	}
	return &c, nil
}

// deriveWSURL turns the API base URL into the matching websocket base.
func deriveWSURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", apiURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid api url scheme %q", u.Scheme)
	}
	return u.String(), nil
}
