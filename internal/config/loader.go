// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` from three layers (highest precedence
last):

  1. Optional `<root>/conf/.env`.
  2. `conf/landing.yaml`.
  3. Environment variables prefixed `LANDING_`, where `__` maps to “.”
     (e.g., `LANDING_HTTP__LISTEN_ADDR → http.listen_addr`).

Defaults are loaded first so a minimal YAML file is enough.  After merging,
the tree is unmarshalled, validated, enriched with the runtime root, and
cached in an `atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG : root discovery, YAML read.
  • ERROR : YAML parse, env overlay, unmarshal, validation failures.
  • INFO  : final “config loaded” with key highlights.
  • Logs use the global sugared logger (`zap.S()`) so early boot problems
    surface even before the file logger is installed.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	envPrefix = "LANDING_"
	fileName  = "landing.yaml"
)

var current atomic.Pointer[Config]

// defaults mirror the live page: 1.5 s demo delay, 5 s toasts.
var defaults = map[string]any{
	"http.listen_addr":        ":8080",
	"http.read_timeout":       10 * time.Second,
	"http.write_timeout":      15 * time.Second,
	"http.idle_timeout":       60 * time.Second,
	"contact.endpoint":        "",
	"contact.mode":            "acknowledged",
	"contact.timeout":         15 * time.Second,
	"contact.simulated_delay": 1500 * time.Millisecond,
	"contact.toast_duration":  5 * time.Second,
	"contact.busy_label":      "Sending...",
	"contact.submit_label":    "Send Message",
	"relay.retry_max":         3,
	"relay.retry_wait_min":    time.Second,
	"relay.retry_wait_max":    30 * time.Second,
	"relay.queue_size":        128,
	"relay.workers":           2,
	"actions":                 []string{"store"},
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves LANDING_ROOT or climbs directories until conf/landing.yaml
// is found.  Falls back to the executable heuristic for a bin/ layout.
func rootDir() string {
	if r := os.Getenv("LANDING_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", fileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root and loads from it.
func Load() (*Config, error) { return LoadFrom(rootDir()) }

// LoadFrom reads .env, YAML, and env overrides under root, validates, and
// caches the result.  A missing YAML file is not an error; defaults apply.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	yamlPath := filepath.Join(root, "conf", fileName)
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: LANDING_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"contact_mode", cfg.Contact.Mode,
		"actions", cfg.Actions,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps LANDING_RELAY__RETRY_MAX → relay.retry_max.
func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
