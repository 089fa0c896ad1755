// Package main hosts the Pulse CLI entrypoint and command graph.
//
// The Cobra-based command tree runs one-shot refresh and sales cycles,
// inspects the cached intelligence report and stored opportunities, queries
// the daemon's read API for live status, and scaffolds configuration. It
// centralizes configuration resolution and store access so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
