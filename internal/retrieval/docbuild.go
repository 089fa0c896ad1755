package retrieval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pulse/internal/store"
)

// metadataSpecKeys are the spec fields copied into filterable metadata.
// Everything else stays in the document text.
var metadataSpecKeys = []string{
	"segment",
	"subscription_type",
	"channel",
	"validity",
	"contract_months",
	"type",
	"brand",
	"storage",
}

// BuildDoc renders the text that gets embedded for one product. Spec keys
// are sorted so the document is stable across runs.
func BuildDoc(product *store.Product) string {
	var parts []string
	for _, key := range sortedKeys(product.Specs) {
		value := product.Specs[key]
		switch v := value.(type) {
		case map[string]any:
			for _, nested := range sortedKeys(v) {
				parts = append(parts, fmt.Sprintf("%s.%s: %s", key, nested, formatSpecValue(v[nested])))
			}
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, formatSpecValue(item))
			}
			parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(items, ", ")))
		case []string:
			parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(v, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("%s: %s", key, formatSpecValue(value)))
		}
	}

	specs := "specs: -"
	if len(parts) > 0 {
		specs = strings.Join(parts, " | ")
	}
	return fmt.Sprintf("product_name: %s\ncategory: %s\nprice_try: %s\n%s",
		product.Name, product.Category, formatPrice(product.Price), specs)
}

// BuildMetadata renders the filterable metadata stored alongside one
// product document.
func BuildMetadata(product *store.Product) map[string]string {
	md := map[string]string{
		"product_code": product.Code,
		"name":         product.Name,
		"category":     product.Category,
		"price_try":    formatPrice(product.Price),
		"is_active":    strconv.FormatBool(product.IsActive),
	}

	for _, key := range metadataSpecKeys {
		if value, ok := product.Specs[key]; ok && value != nil {
			md[key] = formatSpecValue(value)
		}
	}

	// eligibility hints (flattened)
	if eligible, ok := product.Specs["eligible"].(map[string]any); ok {
		for _, key := range sortedKeys(eligible) {
			md["elig_"+key] = formatSpecValue(eligible[key])
		}
	}

	if source, ok := product.Specs["source"]; ok && source != nil {
		md["source"] = formatSpecValue(source)
	}
	return md
}

// ProductNameFromDoc recovers the product name from a document's first line.
func ProductNameFromDoc(doc string) string {
	first, _, _ := strings.Cut(doc, "\n")
	first = strings.TrimSpace(first)
	if rest, ok := strings.CutPrefix(first, "product_name:"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatSpecValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
