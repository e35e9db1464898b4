// Package config loads, normalizes, and validates flashcard client settings.
//
// Settings come from a TOML file (~/.config/flashcard/config.toml or
// ./flashcard.toml), optional .env files next to the config and in the working
// directory, and FLASHCARD_* environment overrides. Paths are expanded
// (including ~), the log format is canonicalized, and numeric knobs are
// checked so that downstream packages receive usable values.
package config
