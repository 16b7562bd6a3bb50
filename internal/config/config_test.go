package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitgarden/internal/constants"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(constants.EnvStorage, "")
	t.Setenv(constants.EnvDebug, "")
	t.Setenv(constants.EnvAchievements, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != constants.DefaultStoragePath {
		t.Errorf("expected default storage %q, got %q", constants.DefaultStoragePath, cfg.Storage)
	}
	if cfg.SuggestionLimit != constants.DefaultSuggestionLimit {
		t.Errorf("expected suggestion limit %d, got %d", constants.DefaultSuggestionLimit, cfg.SuggestionLimit)
	}
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "storage: /tmp/garden.json\ndebug: false\nsuggestion_limit: 3\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv(constants.EnvStorage, "")
	t.Setenv(constants.EnvDebug, "true")
	t.Setenv(constants.EnvAchievements, "/tmp/catalog.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != "/tmp/garden.json" {
		t.Errorf("expected storage from file, got %q", cfg.Storage)
	}
	if cfg.SuggestionLimit != 3 {
		t.Errorf("expected suggestion limit 3, got %d", cfg.SuggestionLimit)
	}
	if !cfg.Debug {
		t.Error("expected HABITGARDEN_DEBUG to enable debug")
	}
	if cfg.AchievementsFile != "/tmp/catalog.yaml" {
		t.Errorf("expected achievements override, got %q", cfg.AchievementsFile)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(constants.EnvStorage, "")
	t.Setenv(constants.EnvDebug, "")
	t.Setenv(constants.EnvAchievements, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage = "postgres://gardener@localhost:5432/garden"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.IsPostgres() {
		t.Errorf("expected postgres storage, got %q", loaded.Storage)
	}
}

func TestValidate_Timezone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Europe/Paris"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid timezone, got %v", err)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Paris" {
		t.Errorf("expected Europe/Paris, got %v (%v)", loc, err)
	}

	cfg.Timezone = "Mars/Olympus_Mons"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
