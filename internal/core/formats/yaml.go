package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"gopkg.in/yaml.v3"
)

// ParseYAML reads the first YAML document. A sequence yields one record per
// item, a mapping yields one record. Mapping order is kept. Scalars are
// resolved by their YAML tag; nested collections become compact JSON text.
func ParseYAML(r io.Reader) ([]core.Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, core.ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidYAML, err)
	}
	if len(doc.Content) == 0 {
		return nil, core.ErrEmptyFile
	}

	root := resolveAlias(doc.Content[0])
	switch root.Kind {
	case yaml.MappingNode:
		rec, err := mappingRecord(root)
		if err != nil {
			return nil, err
		}
		return []core.Record{rec}, nil

	case yaml.SequenceNode:
		records := make([]core.Record, 0, len(root.Content))
		for i, item := range root.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: item %d is not a mapping", core.ErrInvalidYAML, i)
			}
			rec, err := mappingRecord(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			records = append(records, rec)
		}
		return records, nil

	default:
		return nil, fmt.Errorf("%w: expected a mapping or a list of mappings", core.ErrInvalidYAML)
	}
}

func mappingRecord(n *yaml.Node) (core.Record, error) {
	rec := core.Record{Values: make(map[string]core.Value, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		value, err := yamlValue(resolveAlias(n.Content[i+1]))
		if err != nil {
			return core.Record{}, fmt.Errorf("%w: value of %q: %v", core.ErrInvalidYAML, key, err)
		}
		if _, seen := rec.Values[key]; !seen {
			rec.Keys = append(rec.Keys, key)
		}
		rec.Values[key] = value
	}
	return rec, nil
}

func yamlValue(n *yaml.Node) (core.Value, error) {
	if n.Kind != yaml.ScalarNode {
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}

	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return n.Value, nil
		}
		return f, nil
	default:
		return n.Value, nil
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
