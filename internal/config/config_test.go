package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_DefaultsApplied(t *testing.T) {
	cfg, err := Parse([]byte("http:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Content.Driver != DriverFile {
		t.Errorf("Content.Driver = %q, want %q", cfg.Content.Driver, DriverFile)
	}
	if cfg.Content.Dir != "public/data" {
		t.Errorf("Content.Dir = %q", cfg.Content.Dir)
	}
	if cfg.Content.KeyPrefix != "contenthub:" {
		t.Errorf("Content.KeyPrefix = %q", cfg.Content.KeyPrefix)
	}
	if cfg.Sessions.DebounceMs != 300 || cfg.Content.ReloadDebounceMs != 300 {
		t.Errorf("debounce defaults = %d/%d", cfg.Sessions.DebounceMs, cfg.Content.ReloadDebounceMs)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("HTTP.ShutdownSec = %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Cache.TTLSec != 0 {
		t.Errorf("cache should be disabled by default, ttl = %d", cfg.Cache.TTLSec)
	}
	if cfg.Database.ReadinessTimeout != 10 || cfg.Database.DialTimeout != 5 {
		t.Errorf("database timeouts = %d/%d, want 10/5", cfg.Database.ReadinessTimeout, cfg.Database.DialTimeout)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("CONTENTHUB_TEST_PORT", "9191")

	data := []byte(`
http:
  port: ${CONTENTHUB_TEST_PORT}
content:
  dir: ${CONTENTHUB_TEST_UNSET_DIR:-/srv/content}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9191 {
		t.Errorf("HTTP.Port = %d", cfg.HTTP.Port)
	}
	if cfg.Content.Dir != "/srv/content" {
		t.Errorf("Content.Dir = %q", cfg.Content.Dir)
	}
}

func TestParse_SearchOverrides(t *testing.T) {
	data := []byte(`
http:
  port: 8080
search:
  data:
    min_query_length: 3
    max_results: 10
    fields: [name, path]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc := cfg.Search["data"]
	if sc.MinQueryLength != 3 || sc.MaxResults != 10 || len(sc.Fields) != 2 {
		t.Errorf("Search[data] = %+v", sc)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{HTTP: HTTPConfig{Port: 8080}}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid file driver", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Content.Driver = "s3" }, "content.driver"},
		{"redis without addrs", func(c *Config) { c.Content.Driver = DriverRedis }, "database.addrs"},
		{"redis with addrs", func(c *Config) {
			c.Content.Driver = DriverRedis
			c.Database.Addrs = []string{"localhost:6379"}
		}, ""},
		{"redis watch", func(c *Config) {
			c.Content.Driver = DriverRedis
			c.Database.Addrs = []string{"localhost:6379"}
			c.Content.Watch = true
		}, "content.watch"},
		{"bad format", func(c *Config) { c.Content.Format = "xml" }, "content.format"},
		{"negative cache ttl", func(c *Config) { c.Cache.TTLSec = -1 }, "cache.ttl_sec"},
		{"unknown search type", func(c *Config) { c.Search = map[string]SearchConfig{"faq": {}} }, "search.faq"},
		{"negative search value", func(c *Config) {
			c.Search = map[string]SearchConfig{"tasks": {MaxResults: -1}}
		}, "search.tasks"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 7070 {
		t.Errorf("HTTP.Port = %d", cfg.HTTP.Port)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_RepoConfigs(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("REDIS_ADDR", "localhost:6379")
			t.Setenv("CONTENT_KEY_PREFIX", "")
			t.Setenv("REDIS_PASSWORD", "s3cret: #1")
			cfg, err := Load(env)
			if err != nil {
				t.Fatalf("Load(%q): %v", env, err)
			}
			if cfg.Content.KeyPrefix != "contenthub:" {
				t.Errorf("KeyPrefix = %q, want %q", cfg.Content.KeyPrefix, "contenthub:")
			}
			if cfg.Database.Password != "s3cret: #1" {
				t.Errorf("Password = %q, want value with colon and hash intact", cfg.Database.Password)
			}
			if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "localhost:6379" {
				t.Errorf("Addrs = %v", cfg.Database.Addrs)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
