// Package sanitize enforces the output policy on generated intelligence
// before it is merged with the deterministic cards. Sanitization is
// idempotent: running it twice yields the same report as running it once.
package sanitize
