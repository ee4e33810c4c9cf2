// internal/config/model.go
//
// Typed configuration model for the bylaw data pipeline.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `BYLAW_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the tools fail fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds the JSON API server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Data section
//

// Data locates the dataset artifacts.  Dir may be relative; the loader
// resolves it against the discovered root.
type Data struct {
	Dir string `koanf:"dir" validate:"required"`
}

//
// Convert section
//

// Convert tunes the CSV-to-JSON export pass.  Force regenerates JSON
// artifacts even when they already exist
// (`BYLAW_CONVERT__FORCE=true` from the command line).
type Convert struct {
	Force bool `koanf:"force"`
}

//
// Search section
//

// Search caps /api/search result counts.  Zero means the built-in default.
type Search struct {
	MaxResults int `koanf:"max_results" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or BYLAW_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // BYLAW_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the process lifetime.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Data    Data    `koanf:"data"`
	Convert Convert `koanf:"convert"`
	Search  Search  `koanf:"search"`
	Paths   Paths   `koanf:"-"` // not loaded from config files
}
