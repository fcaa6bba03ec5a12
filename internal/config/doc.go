// Package config loads, normalizes, and validates blindtest configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BLINDTEST_CLIENT_SECRETS. The Config type centralizes every knob the CLI
// needs: output directories, iTunes search pools, blind-test timing, video
// encoding parameters, and YouTube upload credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical values, and clear validation errors.
package config
