// Package llm provides an OpenAI-compatible chat client for JSON generation.
//
// This package is used by:
//   - Generation stage: produce the marketable-signal intelligence payload
//   - Sales stages: strategist queries and per-customer sales briefs
//
// # Request Shape
//
// The client sends system/user prompts to a configured model with
// response_format set to json_object and a caller-supplied sampling
// temperature. Optional request metadata from the configuration is attached
// to every call so the gateway can attribute traffic.
//
// # Configuration
//
// Requires api_key and model; base_url defaults to the OpenRouter API root
// and timeout defaults to 60 seconds. When unconfigured, callers should fall
// back to deterministic output instead of failing the run.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive JSON response.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: decode model output, tolerating code fences and prose.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately.
package llm
