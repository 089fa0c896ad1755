package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldKey produces the canonical duplicate-detection key for a title: trimmed
// and lowercased with Turkish tailoring (I maps to ı, İ to i), then dotless ı
// smoothed to plain i. The smoothing makes ASCII-uppercased variants of the
// same headline collide with properly cased ones; Turkish headlines never
// differ by dotting alone.
func FoldKey(s string) string {
	lowered := cases.Lower(language.Turkish).String(strings.TrimSpace(s))
	return strings.ReplaceAll(lowered, "ı", "i")
}
