package core

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ParseFunc parses a whole file into records.
type ParseFunc func(r io.Reader) ([]Record, error)

// Format describes one importable file format.
type Format struct {
	Key          string   // Unique identifier: "csv"
	Label        string   // Display name: "CSV"
	Extensions   []string // Lowercase, with dot: ".csv"
	ContentTypes []string // Media types without parameters: "text/csv"
	Parse        ParseFunc
}

var (
	registry   = make(map[string]Format)
	registryMu sync.RWMutex
)

// Register adds a format to the registry.
// Panics if a format with the same key is already registered.
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[f.Key]; exists {
		panic(fmt.Sprintf("format already registered: %s", f.Key))
	}
	registry[f.Key] = f
}

// Get returns a format by key.
func Get(key string) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := registry[key]
	return f, ok
}

// All returns all registered formats sorted by key.
func All() []Format {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Format, 0, len(registry))
	for _, f := range registry {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// Accept returns the extensions and content types of every registered
// format, comma-separated, for use in a file input's accept attribute.
func Accept() string {
	var parts []string
	for _, f := range All() {
		parts = append(parts, f.Extensions...)
		parts = append(parts, f.ContentTypes...)
	}
	return strings.Join(parts, ",")
}

// Detect picks the format for an upload. The content type wins when it
// names a registered format; otherwise the file extension decides.
func Detect(fileName, contentType string) (Format, error) {
	formats := All()

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		for _, f := range formats {
			for _, ct := range f.ContentTypes {
				if strings.EqualFold(ct, mt) {
					return f, nil
				}
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" {
		for _, f := range formats {
			for _, e := range f.Extensions {
				if e == ext {
					return f, nil
				}
			}
		}
	}

	return Format{}, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, fileName, contentType)
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered formats.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Format)
}
