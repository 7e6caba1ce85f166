package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. Changes to defaults should be intentional; this test
// fails if they drift.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.MaxPages != DefaultMaxPages {
		t.Errorf("MaxPages = %d, want %d", c.MaxPages, DefaultMaxPages)
	}
	if c.MaxHops != DefaultMaxHops {
		t.Errorf("MaxHops = %d, want %d", c.MaxHops, DefaultMaxHops)
	}
	if c.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", c.Workers, DefaultWorkers)
	}
	if c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	if c.Deadline != 0 {
		t.Errorf("Deadline = %v, want 0", c.Deadline)
	}
	if c.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", c.OutputDir, DefaultOutputDir)
	}
	if c.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", c.UserAgent, DefaultUserAgent)
	}
	if c.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("MaxBodySize = %d, want %d", c.MaxBodySize, DefaultMaxBodySize)
	}
	if !c.SaveToDB {
		t.Error("SaveToDB should default to true")
	}
}

// TestConfigValidate tests validation of each configuration bound.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Seeds = []string{"http://example.com/"}
		return c
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("valid config rejected: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no seeds", func(c *Config) { c.Seeds = nil }, ErrNoSeeds},
		{"zero budget", func(c *Config) { c.MaxPages = 0 }, ErrInvalidMaxPages},
		{"negative hops", func(c *Config) { c.MaxHops = -1 }, ErrInvalidMaxHops},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative deadline", func(c *Config) { c.Deadline = -time.Second }, ErrInvalidDeadline},
		{"both report formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestLoadSeeds tests seed file parsing.
func TestLoadSeeds(t *testing.T) {
	t.Parallel()

	t.Run("reads urls skipping comments and blanks", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "seeds.txt")
		content := `# seeds for the docs crawl
http://example.com/

  http://example.org/start
# trailing comment
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		seeds, err := LoadSeeds(path)
		if err != nil {
			t.Fatalf("failed to load seeds: %v", err)
		}

		want := []string{"http://example.com/", "http://example.org/start"}
		if len(seeds) != len(want) {
			t.Fatalf("got %d seeds, want %d: %v", len(seeds), len(want), seeds)
		}
		for i := range want {
			if seeds[i] != want[i] {
				t.Errorf("seed[%d] = %q, want %q", i, seeds[i], want[i])
			}
		}
	})

	t.Run("missing file returns an error", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadSeeds(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
			t.Error("expected an error for a missing seed file")
		}
	})

	t.Run("empty file yields no seeds", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.txt")
		if err := os.WriteFile(path, []byte("\n# only comments\n"), 0600); err != nil {
			t.Fatal(err)
		}

		seeds, err := LoadSeeds(path)
		if err != nil {
			t.Fatalf("failed to load seeds: %v", err)
		}
		if len(seeds) != 0 {
			t.Errorf("got %d seeds, want 0", len(seeds))
		}
	})
}

// TestLoadConfigFile tests YAML config parsing and host config merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads host configurations", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
defaults:
  ignorePatterns:
    - "/logout*"
hosts:
  example.com:
    cookie: "session=abc"
    maxHops: 3
    headers:
      X-Custom: "value"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		hc := cf.GetHostConfig("example.com")
		if hc.Cookie != "session=abc" {
			t.Errorf("cookie = %q", hc.Cookie)
		}
		if hc.MaxHops != 3 {
			t.Errorf("maxHops = %d, want 3", hc.MaxHops)
		}
		if hc.Headers["X-Custom"] != "value" {
			t.Errorf("headers = %v", hc.Headers)
		}
		if len(hc.IgnorePatterns) != 1 || hc.IgnorePatterns[0] != "/logout*" {
			t.Errorf("defaults not inherited: %v", hc.IgnorePatterns)
		}
	})

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: HostConfig{Cookie: "default=1"},
			Hosts:    map[string]HostConfig{},
		}

		hc := cf.GetHostConfig("unknown.example")
		if hc.Cookie != "default=1" {
			t.Errorf("cookie = %q, want default", hc.Cookie)
		}
	})

	t.Run("host overrides replace defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: HostConfig{
				Cookie:         "default=1",
				IgnorePatterns: []string{"/admin/*"},
			},
			Hosts: map[string]HostConfig{
				"example.com": {
					Cookie:         "site=2",
					IgnorePatterns: []string{"/logout*"},
				},
			},
		}

		hc := cf.GetHostConfig("example.com")
		if hc.Cookie != "site=2" {
			t.Errorf("cookie = %q, want site override", hc.Cookie)
		}
		if len(hc.IgnorePatterns) != 1 || hc.IgnorePatterns[0] != "/logout*" {
			t.Errorf("ignore patterns = %v, want site override", hc.IgnorePatterns)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yml")
		if err := os.WriteFile(path, []byte("hosts: [not a map"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the search order for the config file.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit path wins when it exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("hosts: {}\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, want %q", got, path)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}

// TestXDGDirs tests that XDG helpers embed the application name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if got := XDGDataDir(); filepath.Base(got) != AppName {
		t.Errorf("XDGDataDir = %q, want trailing %q", got, AppName)
	}
	if got := XDGConfigDir(); filepath.Base(got) != AppName {
		t.Errorf("XDGConfigDir = %q, want trailing %q", got, AppName)
	}
}
