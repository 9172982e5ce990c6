package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	chdir(t, dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		ServerURL: "http://localhost:8080",
		Storage:   storage.BackendSQLite,
		LogLevel:  "info",
		LogFormat: "text",
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(Config{}, "StoragePath")); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if filepath.Base(cfg.StoragePath) != "session.db" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "admin-console.yaml")
	data := "server_url: https://p2p.example.com\nstorage: file\nlog_level: debug\n"
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("ADMIN_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://p2p.example.com" || cfg.Storage != storage.BackendFile {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, env should win", cfg.LogLevel)
	}
	if filepath.Base(cfg.StoragePath) != "session.yaml" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
	if cfg.File == "" {
		t.Error("File not recorded")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("missing explicit file accepted")
	}
}

func TestValidate(t *testing.T) {
	base := Config{ServerURL: "http://localhost:8080", Storage: storage.BackendMemory, LogLevel: "info", LogFormat: "text"}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := base
	bad.Storage = "redis"
	if err := bad.Validate(); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Errorf("storage err = %v", err)
	}

	bad = base
	bad.ServerURL = "localhost:8080"
	if err := bad.Validate(); err == nil {
		t.Error("schemeless URL accepted")
	}

	bad = base
	bad.LogFormat = "xml"
	if err := bad.Validate(); err == nil {
		t.Error("unknown log format accepted")
	}
}

func TestOpenStorage(t *testing.T) {
	cfg := Config{Storage: storage.BackendSQLite, StoragePath: filepath.Join(t.TempDir(), "nested", "session.db")}
	st, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage: %v", err)
	}
	defer st.Close()
	if err := st.Set("token", "t1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
}
