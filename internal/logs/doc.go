// Package logs reads the daemon log file for the CLI: bounded-memory tailing
// of the last N lines and incremental reads for follow mode. The offset
// returned by one call feeds the next, so pollers only ever print complete
// new lines.
package logs
