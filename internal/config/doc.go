// Package config loads, normalizes, and validates Tessera configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// TESSERA_LOG_LEVEL. Per-attribute tables under [attributes.<id>] choose the
// evidence sources, reduction policy, and fallback behaviour of each
// attribute the pipeline resolves.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
