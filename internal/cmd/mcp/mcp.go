// Package mcp parses MCP command flags and serves the directory tools on stdio.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	platformcmd "github.com/louisbranch/userdirectory/internal/platform/cmd"
	"github.com/louisbranch/userdirectory/internal/platform/config"
	"github.com/louisbranch/userdirectory/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	APIBaseURL string        `env:"USERDIRECTORY_API_BASE_URL"   envDefault:"https://reqres.in"`
	APIKey     string        `env:"USERDIRECTORY_API_KEY"`
	APITimeout time.Duration `env:"USERDIRECTORY_API_TIMEOUT"    envDefault:"10s"`
	Token      string        `env:"USERDIRECTORY_MCP_API_TOKEN"`
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
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Directory API base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Directory API request timeout")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter on stdio.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		return service.Run(ctx, service.Config{
			APIBaseURL: cfg.APIBaseURL,
			APIKey:     cfg.APIKey,
			APITimeout: cfg.APITimeout,
			Token:      cfg.Token,
			Logger:     log.Default(),
		})
	})
}
