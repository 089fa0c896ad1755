package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"

	"pulse/internal/config"
	"pulse/internal/store"
)

// indexConcurrency bounds parallel embedding calls while indexing.
const indexConcurrency = 4

// Candidate is one retrieval hit. Distance is 1 minus cosine similarity, so
// lower means closer.
type Candidate struct {
	Code     string
	Name     string
	Category string
	Doc      string
	Metadata map[string]string
	Distance float64
}

// Index wraps the persistent product catalog collection.
type Index struct {
	db        *chromem.DB
	col       *chromem.Collection
	name      string
	embedding chromem.EmbeddingFunc
}

// Option customizes index construction.
type Option func(*Index)

// WithEmbeddingFunc overrides the gateway-backed embedding function.
func WithEmbeddingFunc(fn chromem.EmbeddingFunc) Option {
	return func(i *Index) {
		i.embedding = fn
	}
}

// Open connects to the persistent index under the configured directory,
// creating the collection when absent.
func Open(cfg *config.Config, opts ...Option) (*Index, error) {
	idx := &Index{name: cfg.Retrieval.Collection}
	for _, opt := range opts {
		opt(idx)
	}
	if idx.embedding == nil {
		idx.embedding = chromem.NewEmbeddingFuncOpenAICompat(
			cfg.Gateway.BaseURL,
			cfg.Gateway.APIKey,
			cfg.Gateway.EmbedModel,
			nil,
		)
	}

	db, err := chromem.NewPersistentDB(cfg.Paths.IndexDir, false)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	col, err := db.GetOrCreateCollection(idx.name, collectionMetadata(), idx.embedding)
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", idx.name, err)
	}

	idx.db = db
	idx.col = col
	return idx, nil
}

func collectionMetadata() map[string]string {
	return map[string]string{"source": "product_catalog"}
}

// Rebuild replaces the collection contents with documents derived from the
// provided products. Returns the number of documents indexed.
func (i *Index) Rebuild(ctx context.Context, products []*store.Product) (int, error) {
	if err := i.db.DeleteCollection(i.name); err != nil {
		return 0, fmt.Errorf("reset collection %q: %w", i.name, err)
	}
	col, err := i.db.GetOrCreateCollection(i.name, collectionMetadata(), i.embedding)
	if err != nil {
		return 0, fmt.Errorf("recreate collection %q: %w", i.name, err)
	}
	i.col = col

	docs := make([]chromem.Document, 0, len(products))
	for _, product := range products {
		if product == nil || product.Code == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:       product.Code,
			Metadata: BuildMetadata(product),
			Content:  BuildDoc(product),
		})
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := i.col.AddDocuments(ctx, docs, indexConcurrency); err != nil {
		return 0, fmt.Errorf("index products: %w", err)
	}
	return len(docs), nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() int {
	if i == nil || i.col == nil {
		return 0
	}
	return i.col.Count()
}

// Search returns up to k candidates closest to the query, nearest first.
// k is clamped to the collection size; an empty collection yields no
// candidates and no error.
func (i *Index) Search(ctx context.Context, query string, k int) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is empty")
	}

	count := i.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = 1
	}
	if k > count {
		k = count
	}

	results, err := i.col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, result := range results {
		name := ProductNameFromDoc(result.Content)
		if name == "" {
			name = result.Metadata["name"]
		}
		candidates = append(candidates, Candidate{
			Code:     result.Metadata["product_code"],
			Name:     name,
			Category: result.Metadata["category"],
			Doc:      result.Content,
			Metadata: result.Metadata,
			Distance: 1 - float64(result.Similarity),
		})
	}
	return candidates, nil
}
