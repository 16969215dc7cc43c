package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"listenAddr": ":9000",
		"nodeCount": 64,
		"universeCount": 5,
		"seed": 42
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
	}
	if cfg.NodeCount != 64 || cfg.UniverseCount != 5 || cfg.Seed != 42 {
		t.Errorf("explicit fields not applied: %+v", cfg)
	}
	// Fields absent from the file keep the defaults.
	if cfg.TargetFPS != 60 {
		t.Errorf("TargetFPS = %d, want default 60", cfg.TargetFPS)
	}
	if cfg.HistoryDB != "consim-history.db" {
		t.Errorf("HistoryDB = %q, want default", cfg.HistoryDB)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", `{"listenAddr": ":9000", "warpDrive": true}`},
		{"wrong type", `{"nodeCount": "lots"}`},
		{"universe count below minimum", `{"universeCount": 0}`},
		{"fps above maximum", `{"targetFps": 100000}`},
		{"not json", `listenAddr = ":9000"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load accepted an invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load accepted a missing file")
	}
}
