package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalYAML = `
instance:
  id: ratings-1
auth:
  admin_token: secret
seed:
  path: data/currencies.seed.json
`

func TestLoadAndValidate_Minimal(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("LoadAndValidate: %v", err)
	}

	if cfg.HTTP.Port != DefaultHTTPPort {
		t.Errorf("HTTP.Port = %d, want %d", cfg.HTTP.Port, DefaultHTTPPort)
	}
	if cfg.Providers.PrimaryURL != DefaultPrimaryURL {
		t.Errorf("PrimaryURL = %q", cfg.Providers.PrimaryURL)
	}
	if cfg.Providers.WindowDays != DefaultWindowDays {
		t.Errorf("WindowDays = %d", cfg.Providers.WindowDays)
	}
	if cfg.Stream.HeartbeatInterval != DefaultHeartbeatInterval {
		t.Errorf("HeartbeatInterval = %v", cfg.Stream.HeartbeatInterval)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("RATINGS_ADMIN_TOKEN", "from-env")

	cfg, err := LoadAndValidate(writeConfig(t, `
instance:
  id: ratings-1
auth:
  admin_token: ${RATINGS_ADMIN_TOKEN}
seed:
  path: data/currencies.seed.json
`))
	if err != nil {
		t.Fatalf("LoadAndValidate: %v", err)
	}
	if cfg.Auth.AdminToken != "from-env" {
		t.Errorf("AdminToken = %q, want %q", cfg.Auth.AdminToken, "from-env")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, minimalYAML+`
http:
  port: 9000
stream:
  heartbeat_interval: 5s
reconcile:
  enabled: true
  interval: 30m
`))
	if err != nil {
		t.Fatalf("LoadAndValidate: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("HTTP.Port = %d, want 9000", cfg.HTTP.Port)
	}
	if cfg.Stream.HeartbeatInterval != 5*time.Second {
		t.Errorf("HeartbeatInterval = %v", cfg.Stream.HeartbeatInterval)
	}
	if !cfg.Reconcile.Enabled || cfg.Reconcile.Interval != 30*time.Minute {
		t.Errorf("Reconcile = %+v", cfg.Reconcile)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing instance id", `
auth:
  admin_token: secret
seed:
  path: seed.json
`, "instance.id"},
		{"missing admin token", `
instance:
  id: ratings-1
seed:
  path: seed.json
`, "auth.admin_token"},
		{"missing seed path", `
instance:
  id: ratings-1
auth:
  admin_token: secret
`, "seed.path"},
		{"archive without database", minimalYAML + `
archive:
  enabled: true
`, "archive.postgres.host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAndValidate(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
