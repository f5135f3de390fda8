package mapping

import (
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ParseJSON normalizes a JSON asset. Invalid JSON and non-object roots give
// an empty Mapping with Report.Malformed set. Members are visited in
// document order, so a duplicated key keeps its last value.
func ParseJSON(data []byte) (Mapping, Report) {
	b := newBuilder()

	if !gjson.ValidBytes(data) {
		b.report.Malformed = true
		return b.done()
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		b.report.Malformed = true
		return b.done()
	}

	root.ForEach(func(key, value gjson.Result) bool {
		b.add(key.String(), value.Value())
		return true
	})

	return b.done()
}

// ParseYAML normalizes a YAML asset with the same rules as ParseJSON.
func ParseYAML(data []byte) (Mapping, Report) {
	b := newBuilder()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		b.report.Malformed = true
		return b.done()
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		b.report.Malformed = true
		return b.done()
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || k.ShortTag() != "!!str" {
			b.report.Rejected++
			continue
		}
		if v.Kind == yaml.ScalarNode && v.ShortTag() == "!!str" {
			b.add(k.Value, v.Value)
		} else {
			b.add(k.Value, nil)
		}
	}

	return b.done()
}

// Parse picks a decoder from the asset name's extension. Names without a
// known extension are decoded as JSON.
func Parse(name string, data []byte) (Mapping, Report) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}
