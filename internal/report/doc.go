// Package report assembles the final intelligence report of a refresh and
// persists it to the cache file consumed by the sales flow and the read API.
package report
