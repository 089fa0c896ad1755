// Package textutil provides text normalization helpers shared by the feed,
// curation, and sanitization layers.
//
// The primary use cases are:
//   - Stripping markup and entities from feed-supplied HTML fragments
//   - Collapsing Unicode whitespace and truncating to rune budgets
//   - Producing case-folded keys for duplicate detection
//
// All helpers are pure functions over strings. Case folding uses Unicode
// folding rather than ASCII lowering so Turkish feed titles compare sanely.
package textutil
