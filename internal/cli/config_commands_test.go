package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/canlog/canlog-client/internal/config"
)

// TestConfigCmd tests the config command group
func TestConfigCmd(t *testing.T) {
	cmd := newConfigCmd()
	if cmd.Use != "config" {
		t.Errorf("Expected Use='config', got '%s'", cmd.Use)
	}

	expectedSubs := []string{"init", "show", "test", "path"}
	subcommands := cmd.Commands()
	if len(subcommands) != len(expectedSubs) {
		t.Errorf("Expected %d subcommands, got %d", len(expectedSubs), len(subcommands))
	}

	foundSubs := make(map[string]bool)
	for _, sub := range subcommands {
		foundSubs[sub.Name()] = true
		if sub.Short == "" {
			t.Errorf("Subcommand '%s' has no short description", sub.Name())
		}
		if sub.RunE == nil {
			t.Errorf("Subcommand '%s' has no RunE", sub.Name())
		}
	}
	for _, expected := range expectedSubs {
		if !foundSubs[expected] {
			t.Errorf("Subcommand '%s' not found", expected)
		}
	}

	if newConfigInitCmd().Flags().Lookup("force") == nil {
		t.Error("--force flag not found")
	}
}

// useConfigFile points the global --config value at path for one test.
func useConfigFile(t *testing.T, path string) {
	t.Helper()
	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })
}

func TestConfigInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	useConfigFile(t, path)

	answers := strings.Join([]string{
		"logs.internal:8000/", // backend url
		"/data/exports",       // download dir
		"y",                   // include hidden
		"y",                   // configure proxy
		"basic",               // mode
		"proxy.corp",          // host
		"3128",                // port
		"alice",               // user
		"",                    // no_proxy default
	}, "\n") + "\n"

	cmd := newConfigInitCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(answers))
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out.String())
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendURL != "http://logs.internal:8000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.DownloadDir != "/data/exports" {
		t.Errorf("DownloadDir = %q", cfg.DownloadDir)
	}
	if !cfg.IncludeHidden {
		t.Error("IncludeHidden = false, want true")
	}
	if cfg.ProxyMode != config.ProxyBasic || cfg.ProxyHost != "proxy.corp" || cfg.ProxyPort != 3128 || cfg.ProxyUser != "alice" {
		t.Errorf("proxy = %s %s:%d user %q", cfg.ProxyMode, cfg.ProxyHost, cfg.ProxyPort, cfg.ProxyUser)
	}
	if cfg.NoProxy != "localhost,127.0.0.1" {
		t.Errorf("NoProxy = %q", cfg.NoProxy)
	}
	if !strings.Contains(out.String(), "Configuration saved to") {
		t.Errorf("missing confirmation line:\n%s", out.String())
	}
}

func TestConfigInitKeepsExistingWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	useConfigFile(t, path)

	existing := config.NewConfig()
	existing.BackendURL = "http://keep.me:5000"
	if err := config.Save(existing, path); err != nil {
		t.Fatal(err)
	}

	cmd := newConfigInitCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("http://other:1\n"))
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("expected already-exists notice, got:\n%s", out.String())
	}
	cfg, _ := config.Load(path)
	if cfg.BackendURL != "http://keep.me:5000" {
		t.Errorf("config was overwritten: BackendURL = %q", cfg.BackendURL)
	}
}

func TestConfigShowMasksPassword(t *testing.T) {
	useConfigFile(t, filepath.Join(t.TempDir(), "missing.ini"))
	t.Setenv(config.EnvBackendURL, "")
	t.Setenv(config.EnvProxyPassword, "hunter2")
	t.Setenv("HTTPS_PROXY", "")

	cmd := newConfigShowCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	text := out.String()
	if strings.Contains(text, "hunter2") {
		t.Error("config show leaked the proxy password")
	}
	if !strings.Contains(text, "file does not exist") {
		t.Errorf("expected missing-file notice:\n%s", text)
	}
}
