// Package sales turns the curated agenda report into per-customer sales
// opportunities.
//
// The flow runs two generative stages per customer: a strategist that picks
// an agenda item and a catalog search query, then a sales brain that writes
// the customer-facing message against the retrieved product candidates. The
// brain's product choice is validated by the grounding package before
// anything is persisted, and the evidence trail rides along inside the
// stored reasoning JSON. Failures are isolated per customer: a bad
// generation skips that customer and the batch moves on.
package sales
