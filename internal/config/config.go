package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

// Config is the server bootstrap configuration.
type Config struct {
	ListenAddr    string `json:"listenAddr"`
	NodeCount     int    `json:"nodeCount"`
	UniverseCount int    `json:"universeCount"`
	TargetFPS     int    `json:"targetFps"`
	// Seed for the engine's random source; 0 means derive from the clock.
	Seed      uint64 `json:"seed"`
	HistoryDB string `json:"historyDb"`
	StaticDir string `json:"staticDir"`
}

func Default() *Config {
	return &Config{
		ListenAddr:    ":8787",
		NodeCount:     128,
		UniverseCount: 3,
		TargetFPS:     60,
		Seed:          0,
		HistoryDB:     "consim-history.db",
		StaticDir:     "web",
	}
}

// Load reads a JSON config file, validates it against the embedded schema
// and merges it over the defaults. Fields absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load embedded schema: %w", err)
	}
	sch, err := compiler.Compile("config.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
