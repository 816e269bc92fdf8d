package config

import (
	"os"
	"path/filepath"
	"testing"

	"buildbridge/internal/params"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

const validYAML = `
server:
  port: 9090
jenkins:
  url: http://jenkins.example.com
  username: admin
  token: secret
api:
  keys:
    - key-1
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Jenkins.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", cfg.Jenkins.Timeout)
	}
	if cfg.Jenkins.UpdateCenterURL != DefaultUpdateCenterURL {
		t.Errorf("Expected default update center URL, got %q", cfg.Jenkins.UpdateCenterURL)
	}
	if cfg.Database.Path != "./buildbridge.db" {
		t.Errorf("Expected default database path, got %q", cfg.Database.Path)
	}
}

func TestLoadUsernameDefaultsToToken(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
jenkins:
  url: http://jenkins.example.com
  token: secret
api:
  keys: [key-1]
`))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Jenkins.Username != "secret" {
		t.Errorf("Expected username to default to token, got %q", cfg.Jenkins.Username)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BUILDBRIDGE_JENKINS_URL", "http://other.example.com")
	t.Setenv("BUILDBRIDGE_SERVER_PORT", "7070")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Jenkins.URL != "http://other.example.com" {
		t.Errorf("Expected env override for URL, got %q", cfg.Jenkins.URL)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected env override for port, got %d", cfg.Server.Port)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing url", "jenkins:\n  token: secret\napi:\n  keys: [k]\n"},
		{"relative url", "jenkins:\n  url: jenkins.example.com\n  token: secret\napi:\n  keys: [k]\n"},
		{"missing token", "jenkins:\n  url: http://jenkins.example.com\napi:\n  keys: [k]\n"},
		{"no api keys", "jenkins:\n  url: http://jenkins.example.com\n  token: secret\n"},
		{"empty api key", "jenkins:\n  url: http://jenkins.example.com\n  token: secret\napi:\n  keys: ['']\n"},
		{"bad port", "server:\n  port: 70000\njenkins:\n  url: http://jenkins.example.com\n  token: secret\napi:\n  keys: [k]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.yaml)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestJenkinsParameters(t *testing.T) {
	cfg := JenkinsConfig{URL: "http://jenkins.example.com", Username: "admin", Token: "secret"}
	src := cfg.Parameters()

	if src[params.KeyURL] != cfg.URL {
		t.Errorf("Expected URL parameter, got %q", src[params.KeyURL])
	}
	if src[params.KeyUser] != "admin" || src[params.KeyToken] != "secret" {
		t.Errorf("Unexpected credential parameters: %v", src)
	}
}
