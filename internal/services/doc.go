// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so failures carry stage
//     and operation context and classify consistently.
//   - Context helpers that stamp run and customer IDs for logging
//     correlation.
//
// Use these helpers when wiring new flows so operational behaviour stays
// uniform across the system.
package services
