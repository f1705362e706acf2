// Package formats registers the importable file formats with the core
// registry. Import this package to ensure all formats are registered.
package formats

import "github.com/JonMunkholm/sheetedit/internal/core"

func init() {
	core.Register(core.Format{
		Key:          "csv",
		Label:        "CSV",
		Extensions:   []string{".csv"},
		ContentTypes: []string{"text/csv", "application/vnd.ms-excel"},
		Parse:        ParseCSV,
	})
	core.Register(core.Format{
		Key:          "json",
		Label:        "JSON",
		Extensions:   []string{".json"},
		ContentTypes: []string{"application/json"},
		Parse:        ParseJSON,
	})
	core.Register(core.Format{
		Key:          "yaml",
		Label:        "YAML",
		Extensions:   []string{".yaml", ".yml"},
		ContentTypes: []string{"application/yaml", "application/x-yaml", "text/yaml"},
		Parse:        ParseYAML,
	})
}
