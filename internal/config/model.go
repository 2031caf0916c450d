// internal/config/model.go
//
// Typed configuration model for the landing server.
//
// Context
// -------
// These structs define the shape of the tree that `loader.go` builds from
// three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/landing.yaml`                       – primary static file,
//   • `LANDING_`-prefixed environment overrides – highest precedence.
//
// Any string that begins with `vault:` is a secret reference
// (`vault:<mount>/<path>#<key>`).  `secrets.go` swaps it for the plain value
// after unmarshal, so nothing downstream ever sees a Vault URI.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`.  Durations accept Go syntax (“1500ms”).
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// Contact section
//

// Contact configures the client-side pipeline.  The page server renders
// Endpoint and Mode into the form so the browser build picks them up; the
// terminal client reads them directly.
type Contact struct {
	Endpoint       string        `koanf:"endpoint"        validate:"omitempty,url"`
	Mode           string        `koanf:"mode"            validate:"omitempty,oneof=simulated opaque acknowledged"`
	Timeout        time.Duration `koanf:"timeout"         validate:"gte=0"`
	SimulatedDelay time.Duration `koanf:"simulated_delay" validate:"gte=0"`
	ToastDuration  time.Duration `koanf:"toast_duration"  validate:"gte=0"`
	BusyLabel      string        `koanf:"busy_label"`
	SubmitLabel    string        `koanf:"submit_label"`
}

//
// Database section
//

// Database is optional.  With an empty DSN the store action is skipped.
//
// The DSN may contain one `%s` verb which receives Password, keeping the
// credential in Vault while host and flags stay in YAML.
type Database struct {
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password"`
}

//
// Relay section
//

// Relay forwards accepted submissions to an upstream webhook (for example a
// spreadsheet script).  Empty URL disables it.
type Relay struct {
	URL          string            `koanf:"url"           validate:"omitempty,url|startswith=vault:"`
	Headers      map[string]string `koanf:"headers"`
	RetryMax     int               `koanf:"retry_max"     validate:"gte=0,lte=10"`
	RetryWaitMin time.Duration     `koanf:"retry_wait_min" validate:"gte=0"`
	RetryWaitMax time.Duration     `koanf:"retry_wait_max" validate:"gte=0"`
	QueueSize    int               `koanf:"queue_size"    validate:"gte=0"`
	Workers      int               `koanf:"workers"       validate:"gte=0,lte=64"`
}

//
// Security section
//

// Security holds the HMAC key for the HTML-form token.  At least 32 bytes
// when set (or a vault: reference); an empty key makes the server generate
// an ephemeral one.
type Security struct {
	FormSecret string `koanf:"form_secret" validate:"omitempty,min=32|startswith=vault:"`
}

//
// Geo section
//

// Geo points at an optional GeoLite2-City database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // LANDING_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Contact  Contact  `koanf:"contact"`
	Database Database `koanf:"database"`
	Relay    Relay    `koanf:"relay"`
	Security Security `koanf:"security"`
	Geo      Geo      `koanf:"geo"`
	Actions  []string `koanf:"actions" validate:"dive,oneof=store relay"`
	Paths    Paths    `koanf:"-"`
}
