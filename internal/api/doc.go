// Package api serves the read-only HTTP surface: health, daemon status, the
// current report, stored sales opportunities, and run history. Handlers only
// read from the store and the report cache; mutations happen through the
// pipeline and the sales flow.
package api
