// Package pipeline drives one agenda refresh end to end: collect the raw
// materials, curate them, generate intelligence, assemble the report, and
// persist both the cache file and the run record.
//
// A refresh never fails because of the generator. Any gateway error, timeout,
// or undecodable payload degrades to a deterministic digest built from the
// curated items, so the cache file always reflects the latest run.
package pipeline
