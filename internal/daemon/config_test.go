package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("ASCEND_HOME", t.TempDir())

	cfg := DefaultConfig()
	if cfg.API.Host != "127.0.0.1" || cfg.API.Port != 7845 {
		t.Errorf("api defaults = %+v", cfg.API)
	}
	if cfg.Progression.MaxMemoLevel != 200 || cfg.Progression.SweepHourUTC != 0 {
		t.Errorf("progression defaults = %+v", cfg.Progression)
	}
	if cfg.Database.Dir != AscendHome() {
		t.Errorf("database dir = %q, want %q", cfg.Database.Dir, AscendHome())
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("prometheus disabled by default")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ASCEND_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 7845 {
		t.Errorf("port = %d, want default 7845", cfg.API.Port)
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("ASCEND_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9090
	cfg.Progression.SweepHourUTC = 4
	cfg.Logging.Level = "debug"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.API.Port != 9090 {
		t.Errorf("port = %d, want 9090", loaded.API.Port)
	}
	if loaded.Progression.SweepHourUTC != 4 {
		t.Errorf("sweep hour = %d, want 4", loaded.Progression.SweepHourUTC)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", loaded.Logging.Level)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ASCEND_HOME", home)

	partial := "[api]\nport = 8000\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(partial), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.API.Port)
	}
	// Everything the file omits keeps its default.
	if cfg.API.Host != "127.0.0.1" || cfg.Progression.MaxMemoLevel != 200 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ASCEND_HOME", home)

	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte("not toml ["), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Error("malformed config loaded without error")
	}
}
