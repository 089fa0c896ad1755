// Package grounding validates generator product choices against the
// retrieval candidate set. The generator only ever influences which of the
// retrieved candidates wins; it cannot introduce a product that retrieval
// did not return, except when retrieval returned nothing at all. That single
// pass-through case is flagged for audit.
package grounding
