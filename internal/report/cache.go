package report

import (
	"encoding/json"
	"errors"
	"os"

	"pulse/internal/fileutil"
	"pulse/internal/intel"
	"pulse/internal/services"
)

// Explicit no-context markers surfaced to consumers in place of a context
// summary when the cache cannot provide a usable report.
const (
	ContextMissing    = "Veri Yok"
	ContextCorrupt    = "Veri Bozuk"
	ContextIncomplete = "Eksik Veri"
)

// DegradationMarker maps a cache load failure to the matching no-context
// marker.
func DegradationMarker(err error) string {
	if errors.Is(err, services.ErrNotFound) {
		return ContextMissing
	}
	return ContextCorrupt
}

// Cache persists the latest report as pretty-printed JSON at a fixed path.
type Cache struct {
	path string
}

// NewCache returns a cache bound to path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Save writes the report atomically so API readers never observe a torn file.
func (c *Cache) Save(report intel.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "report", "encode cache", "", err)
	}
	if err := fileutil.WriteFileAtomic(c.path, data, 0o644); err != nil {
		return services.Wrap(services.ErrExternal, "report", "write cache", c.path, err)
	}
	return nil
}

// Load reads the cached report. A missing file maps to services.ErrNotFound
// and an unparseable one to services.ErrValidation, letting callers choose
// the matching degradation marker instead of failing outright.
func (c *Cache) Load() (intel.Report, error) {
	var report intel.Report
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, services.Wrap(services.ErrNotFound, "report", "read cache", c.path, err)
		}
		return report, services.Wrap(services.ErrExternal, "report", "read cache", c.path, err)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, services.Wrap(services.ErrValidation, "report", "decode cache", c.path, err)
	}
	return report, nil
}
