package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"eventageous/core"
)

const (
	defaultListenAddr = ":3300"
	defaultStaticDir  = "./dist"
	defaultSessionTTL = 30 * time.Minute

	defaultAuthURL  = "https://github.com/login/oauth/authorize"
	defaultTokenURL = "https://github.com/login/oauth/access_token"
)

// OAuth holds the authorization-code flow settings for the identity provider.
type OAuth struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
}

// Config is the immutable process configuration, loaded once at startup.
type Config struct {
	GoogleAPIKey     string
	GoogleCalendarID string

	OAuth OAuth

	ListenAddr string
	StaticDir  string
	SessionTTL time.Duration
}

// Load reads configuration from the environment. Every missing required
// variable is reported in a single error; any such error is startup-fatal.
func Load() (*Config, error) {
	cfg := &Config{
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		GoogleCalendarID: os.Getenv("GOOGLE_CALENDAR_ID"),
		OAuth: OAuth{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			AuthURL:      getenvDefault("OAUTH_AUTH_URL", defaultAuthURL),
			TokenURL:     getenvDefault("OAUTH_TOKEN_URL", defaultTokenURL),
			RedirectURL:  os.Getenv("GITHUB_CALLBACK_URL"),
		},
		ListenAddr: getenvDefault("LISTEN_ADDR", defaultListenAddr),
		StaticDir:  getenvDefault("STATIC_DIR", defaultStaticDir),
		SessionTTL: defaultSessionTTL,
	}

	var missing []string
	for name, value := range map[string]string{
		"GOOGLE_API_KEY":       cfg.GoogleAPIKey,
		"GOOGLE_CALENDAR_ID":   cfg.GoogleCalendarID,
		"GITHUB_CLIENT_ID":     cfg.OAuth.ClientID,
		"GITHUB_CLIENT_SECRET": cfg.OAuth.ClientSecret,
		"GITHUB_CALLBACK_URL":  cfg.OAuth.RedirectURL,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", core.ErrConfigMissing, strings.Join(missing, ", "))
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", raw, err)
		}
		cfg.SessionTTL = ttl
	}

	return cfg, nil
}

func getenvDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
