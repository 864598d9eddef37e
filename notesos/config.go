package notesos

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config controls how the SDK connects.
type Config struct {
	// BaseURL is the HTTP(S) base address of the NotesOS backend,
	// e.g. "http://localhost:8000". The realtime address is derived from it
	// by swapping the scheme for ws/wss.
	BaseURL string

	// Token is a fixed access token. Ignored when Tokens is set.
	Token string

	// Tokens overrides Token with a dynamic lookup, typically the TokenStore
	// shared with the REST client.
	Tokens TokenProvider

	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration // 0 disables; the channel is push-driven and may idle
	WriteTimeout     time.Duration

	// ReconnectBase is the delay before the first automatic reconnect;
	// subsequent attempts double it.
	ReconnectBase time.Duration

	// MaxReconnectTries caps automatic reconnect attempts per connection.
	MaxReconnectTries int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReconnectBase:     time.Second,
		MaxReconnectTries: 5,
	}
}

// ConfigFromEnv builds a config from NOTESOS_API_URL and NOTESOS_TOKEN,
// loading a .env file first when one is present.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("NOTESOS_API_URL"); v != "" {
		cfg.BaseURL = v
	} else {
		cfg.BaseURL = "http://localhost:8000"
	}
	cfg.Token = os.Getenv("NOTESOS_TOKEN")
	return cfg
}

func (c Config) tokenProvider() TokenProvider {
	if c.Tokens != nil {
		return c.Tokens
	}
	return StaticTokenProvider(c.Token)
}
