package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "nodeedit") {
		t.Errorf("GetConfigDir() = %v, should contain 'nodeedit'", configDir)
	}

	if runtime.GOOS == "windows" {
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	}
}

func TestGetConfigDirHonoursXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join("/tmp/xdg", "nodeedit") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/nodeedit", configDir)
	}
}

func TestGetConfigPathAndLogPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	logPath, err := GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath() error = %v", err)
	}
	if filepath.Dir(logPath) != filepath.Dir(configPath) {
		t.Errorf("log file %v should live next to %v", logPath, configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Profiles == nil {
		t.Error("NewRegistry().Profiles should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.PageSize != 5 {
		t.Errorf("PageSize = %v, want 5", reg.Preferences.PageSize)
	}
	if reg.Preferences.QueryTimeout != 30 {
		t.Errorf("QueryTimeout = %v, want 30", reg.Preferences.QueryTimeout)
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"neo4j scheme", Profile{URI: "neo4j://localhost:7687"}, false},
		{"bolt tls", Profile{URI: "bolt+s://db.example.com:7687"}, false},
		{"missing uri", Profile{}, true},
		{"http scheme", Profile{URI: "http://localhost:7474"}, true},
		{"negative limit", Profile{URI: "bolt://localhost", Limit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryProfiles(t *testing.T) {
	reg := NewRegistry()

	if _, _, err := reg.GetProfile(""); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("GetProfile() on empty registry error = %v, want ErrUnknownProfile", err)
	}

	if err := reg.SetProfile("local", &Profile{URI: "neo4j://localhost:7687", Label: "Person"}); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	if reg.CurrentProfile != "local" {
		t.Errorf("first profile should become current, got %q", reg.CurrentProfile)
	}

	if err := reg.SetProfile("prod", &Profile{URI: "neo4j+s://prod:7687"}); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	if err := reg.SetProfile("bad", &Profile{URI: "ftp://x"}); err == nil {
		t.Error("SetProfile() should reject invalid profile")
	}

	name, p, err := reg.GetProfile("")
	if err != nil || name != "local" || p.Label != "Person" {
		t.Errorf("GetProfile(\"\") = %v, %+v, %v", name, p, err)
	}

	if err := reg.UseProfile("prod"); err != nil {
		t.Fatalf("UseProfile() error = %v", err)
	}
	if got := reg.ProfileNames(); strings.Join(got, ",") != "local,prod" {
		t.Errorf("ProfileNames() = %v", got)
	}

	if err := reg.RemoveProfile("prod"); err != nil {
		t.Fatalf("RemoveProfile() error = %v", err)
	}
	if reg.CurrentProfile != "" {
		t.Errorf("removing current profile should clear it, got %q", reg.CurrentProfile)
	}

	// a single remaining profile is picked without a name
	name, _, err = reg.GetProfile("")
	if err != nil || name != "local" {
		t.Errorf("GetProfile(\"\") = %v, %v", name, err)
	}

	if err := reg.RemoveProfile("missing"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("RemoveProfile(missing) error = %v", err)
	}
}

func TestPrefsDefaults(t *testing.T) {
	reg := &Registry{Version: 1, Preferences: &Preferences{PageSize: 7, QueryTimeout: 5, CacheTTL: -1}}
	p := reg.Prefs()

	if p.PageSize != 5 {
		t.Errorf("unsupported page size should fall back to 5, got %d", p.PageSize)
	}
	if p.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v", p.Timeout())
	}
	if p.NotificationTTL() != 6*time.Second {
		t.Errorf("NotificationTTL() = %v", p.NotificationTTL())
	}
	if p.SuggestionTTL() >= 0 {
		t.Errorf("negative cache_ttl should disable caching, got %v", p.SuggestionTTL())
	}
	if (&Profile{}).EffectiveLimit() != 100 {
		t.Error("EffectiveLimit() should default to 100")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	reg := NewRegistry()
	if err := reg.SetProfile("local", &Profile{
		URI:      "neo4j://localhost:7687",
		Username: "neo4j",
		Database: "movies",
		Label:    "Movie",
		Limit:    50,
	}); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	reg.Preferences.PageSize = 10

	if err := reg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# nodeedit configuration file") {
		t.Error("saved file should start with the header comment")
	}
	if strings.Contains(strings.ToLower(string(data)), "password:") {
		t.Error("saved file must not contain a password field")
	}
	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	loaded, err := LoadRegistryFrom(configPath)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	_, p, err := loaded.GetProfile("local")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if p.Database != "movies" || p.Label != "Movie" || p.Limit != 50 {
		t.Errorf("loaded profile = %+v", p)
	}
	if loaded.Prefs().PageSize != 10 {
		t.Errorf("loaded page size = %d, want 10", loaded.Prefs().PageSize)
	}
}

func TestLoadRegistryFromMissingFile(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != 1 || len(reg.Profiles) != 0 {
		t.Errorf("missing file should yield a default registry, got %+v", reg)
	}
}

func TestLoadRegistryRejectsVersion(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistryFrom(configPath); err == nil {
		t.Error("LoadRegistryFrom() should reject version 2")
	}
}

func TestLoadRegistryRejectsStoredPassword(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	data := "version: 1\nprofiles:\n  local:\n    uri: neo4j://localhost:7687\n    password: hunter2\n"
	if err := os.WriteFile(configPath, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadRegistryFrom(configPath)
	if err == nil || !strings.Contains(err.Error(), PasswordEnvVar) {
		t.Errorf("LoadRegistryFrom() error = %v, want a hint about %s", err, PasswordEnvVar)
	}
}

func TestLoadRegistryRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\npreferences:\n  page_sise: 10\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistryFrom(configPath); err == nil {
		t.Error("LoadRegistryFrom() should reject a misspelt key")
	}
}

func TestLoadRegistryFromEmptyFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0600); err != nil {
		t.Fatal(err)
	}
	reg, err := LoadRegistryFrom(configPath)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != 1 {
		t.Errorf("empty file should yield a default registry, got %+v", reg)
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnvVar, dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("GetConfigDir() = %v, want %v", got, dir)
	}

	reg := NewRegistry()
	if err := reg.SetProfile("local", &Profile{URI: "bolt://localhost:7687"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config file not written to override dir: %v", err)
	}
}

func TestPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnvVar, "s3cret")
	var prompt strings.Builder

	pw, err := Password("neo4j", &prompt)
	if err != nil {
		t.Fatalf("Password() error = %v", err)
	}
	if pw != "s3cret" {
		t.Errorf("Password() = %q", pw)
	}
	if prompt.Len() != 0 {
		t.Error("no prompt expected when the env var is set")
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}
