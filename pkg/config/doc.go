// Package config loads carton's application settings.
//
// Settings are layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $CARTON_CONFIG or <config dir>/carton.toml
//  3. CARTON_* environment variables (CARTON_DATABASE_FILE, CARTON_LINKS_REFS_DIR, ...)
//  4. overrides supplied by the caller, usually command-line flags
//
// These are carton's own settings, not the configuration database managed
// by the config module.
package config
