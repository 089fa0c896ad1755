// Package daemon hosts the long-running Pulse process. It owns the refresh
// loop that re-runs the agenda pipeline on a fixed cadence, optionally chains
// the sales flow after each refresh, serves the read-only HTTP API, and uses a
// file lock to enforce a single instance per data directory.
package daemon
