// Package config loads camflow configuration from TOML.
//
// Load resolves an explicit path, then ~/.config/camflow/config.toml, then
// ./camflow.toml in the working directory. Missing files fall back to
// Default. Every path is expanded to an absolute path during normalization so
// callers never deal with ~ or relative segments, and Validate rejects values
// the rest of the system cannot use (unsafe stack names, unknown cells, too
// fast a poll interval).
//
// CreateSample writes the embedded sample_config.toml for `camflow config init`.
package config
