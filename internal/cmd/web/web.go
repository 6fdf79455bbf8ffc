// Package web parses web command flags and starts the directory web service.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	platformcmd "github.com/louisbranch/userdirectory/internal/platform/cmd"
	"github.com/louisbranch/userdirectory/internal/platform/config"
	"github.com/louisbranch/userdirectory/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"USERDIRECTORY_WEB_HTTP_ADDR"             envDefault:"localhost:8086"`
	APIBaseURL          string        `env:"USERDIRECTORY_API_BASE_URL"              envDefault:"https://reqres.in"`
	APIKey              string        `env:"USERDIRECTORY_API_KEY"`
	APITimeout          time.Duration `env:"USERDIRECTORY_API_TIMEOUT"               envDefault:"10s"`
	DBPath              string        `env:"USERDIRECTORY_WEB_DB_PATH"               envDefault:"data/web.db"`
	SessionKey          string        `env:"USERDIRECTORY_WEB_SESSION_KEY"`
	SessionTTL          time.Duration `env:"USERDIRECTORY_WEB_SESSION_TTL"           envDefault:"24h"`
	TrustForwardedProto bool          `env:"USERDIRECTORY_WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses the process environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return bindFlags(fs, args, cfg)
}

// ParseConfigFrom parses an explicit environment map and flags into a Config.
func ParseConfigFrom(fs *flag.FlagSet, args []string, environment map[string]string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvFrom(&cfg, environment); err != nil {
		return Config{}, err
	}
	return bindFlags(fs, args, cfg)
}

func bindFlags(fs *flag.FlagSet, args []string, cfg Config) (Config, error) {
	if fs == nil {
		return Config{}, fmt.Errorf("flag parser is required")
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Directory API base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Directory API request timeout")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Session database path")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Browser session lifetime")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for cookie and origin checks")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web service and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceWeb, func(ctx context.Context) error {
		key, err := sessionKey(cfg.SessionKey)
		if err != nil {
			return err
		}
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			APIBaseURL:          cfg.APIBaseURL,
			APIKey:              cfg.APIKey,
			APITimeout:          cfg.APITimeout,
			DBPath:              cfg.DBPath,
			SessionKey:          key,
			SessionTTL:          cfg.SessionTTL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			Logger:              log.Default(),
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

// sessionKey returns the configured signing key, or a random one that lives
// for this process only.
func sessionKey(configured string) ([]byte, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return []byte(key), nil
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	log.Printf("session key not configured; generated a per-process key, sessions end on restart")
	return []byte(hex.EncodeToString(raw)), nil
}
