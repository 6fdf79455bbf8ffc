package mcp

import (
	"flag"
	"io"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfigFrom(newFlagSet(), nil, map[string]string{})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIBaseURL != "https://reqres.in" {
		t.Fatalf("expected default api base url, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %v", cfg.APITimeout)
	}
	if cfg.Token != "" {
		t.Fatalf("expected no token, got %q", cfg.Token)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	env := map[string]string{
		"USERDIRECTORY_API_BASE_URL":  "http://env-api",
		"USERDIRECTORY_API_KEY":       "reqres-free-v1",
		"USERDIRECTORY_MCP_API_TOKEN": "QpwL5tke4Pnpja7X4",
	}
	args := []string{"-api-base-url", "http://flag-api", "-api-timeout", "3s"}
	cfg, err := ParseConfigFrom(newFlagSet(), args, env)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIBaseURL != "http://flag-api" {
		t.Fatalf("expected flag api base url, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("expected flag timeout, got %v", cfg.APITimeout)
	}
	if cfg.APIKey != "reqres-free-v1" || cfg.Token != "QpwL5tke4Pnpja7X4" {
		t.Fatalf("expected env key and token, got %+v", cfg)
	}
}

func TestParseConfigRejectsBadTimeout(t *testing.T) {
	if _, err := ParseConfigFrom(newFlagSet(), nil, map[string]string{"USERDIRECTORY_API_TIMEOUT": "soon"}); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

func TestParseConfigRequiresFlagSet(t *testing.T) {
	if _, err := ParseConfigFrom(nil, nil, map[string]string{}); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}
