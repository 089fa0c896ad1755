// Command pulsed runs the Pulse daemon: it loads configuration, opens the
// store, and starts the refresh loop plus the read-only HTTP API, then waits
// for SIGINT or SIGTERM. All interaction after startup goes through the API
// or the pulse CLI; pulsed itself takes no flags.
package main
