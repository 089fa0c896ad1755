// Package notifications delivers run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Enumerated event types cover the pipeline and sales milestones so callers
// can emit consistent messages without duplicating HTTP glue.
//
// Extend this package if you need alternative transports; callers depend only
// on the Service interface.
package notifications
