// Package config loads, validates, and normalizes Pulse configuration.
//
// Configuration lives in a TOML file resolved from an explicit path, then
// ~/.config/pulse/config.toml, then ./pulse.toml. Missing files are not an
// error; defaults apply and secrets may arrive via environment variables
// (PULSE_GATEWAY_API_KEY, PULSE_API_TOKEN, PULSE_NTFY_TOPIC).
package config
