// Package agenda derives the deterministic context a run always carries:
// official Turkish holidays, configured school break windows, the next
// weekend, and the card signals built from them plus the weather summary and
// the Turkish chart titles. Everything is computed from a caller-supplied
// clock so runs and tests stay reproducible.
package agenda
