// Package config loads sprout's runtime settings.
//
// Settings are assembled in three layers, each overriding the last:
//
//  1. Built-in defaults.
//  2. An optional sprout.toml in the XDG config directory.
//  3. SPROUT_* environment variables, e.g. SPROUT_DOWNLOAD_TIMEOUT_SECONDS
//     maps to download.timeout_seconds.
//
// Most callers only need Load (or Default for the built-ins). WriteDefault
// materializes a commented sprout.toml for `sprout config --write`.
package config
