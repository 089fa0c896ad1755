// Package retrieval maintains the product catalog vector index and serves
// nearest-neighbour candidate lookups for the sales flow.
//
// Documents are derived deterministically from catalog rows; the embedded
// text carries the information-dense description while metadata stays small
// and filterable. Embeddings come from the gateway's OpenAI-compatible
// embeddings endpoint unless a custom embedding function is injected.
package retrieval
