// Package mapping turns untrusted key/value tables into clean conversion
// rule sets.
//
// A raw table is whatever an asset decoder produced: any root shape, any
// value types. Normalization keeps only entries whose key is a non-empty
// string not starting with the reserved prefix and whose value is a string.
// It never fails: malformed input degrades to an empty Mapping, which makes
// conversion an identity.
package mapping

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// ReservedPrefix marks metadata keys that are never conversion rules.
const ReservedPrefix = "_"

// Mapping associates source sequences with their replacement sequences.
// Treat it as immutable once built.
type Mapping map[string]string

// Report summarises what normalization kept and dropped.
type Report struct {
	// Accepted is the number of rules in the resulting Mapping.
	Accepted int `json:"accepted"`
	// Reserved counts entries skipped for an empty or reserved key.
	Reserved int `json:"reserved"`
	// Rejected counts entries skipped for a non-string value or a key that
	// is not a string of valid UTF-8.
	Rejected int `json:"rejected"`
	// Malformed is set when the root was not a key/value table at all.
	Malformed bool `json:"malformed"`
}

// Normalize builds a Mapping from a raw table.
func Normalize(raw any) Mapping {
	m, _ := NormalizeReport(raw)
	return m
}

// NormalizeReport is Normalize plus a Report of what was dropped.
func NormalizeReport(raw any) (Mapping, Report) {
	b := newBuilder()

	switch table := raw.(type) {
	case nil:
	case Mapping:
		for k, v := range table {
			b.add(k, v)
		}
	case map[string]string:
		for k, v := range table {
			b.add(k, v)
		}
	case map[string]any:
		for k, v := range table {
			b.add(k, v)
		}
	case map[any]any:
		for k, v := range table {
			key, ok := k.(string)
			if !ok {
				b.report.Rejected++
				continue
			}
			b.add(key, v)
		}
	default:
		b.report.Malformed = true
	}

	return b.done()
}

// builder accumulates entries in arrival order; later keys overwrite
// earlier ones.
type builder struct {
	m      Mapping
	report Report
}

func newBuilder() *builder {
	return &builder{m: make(Mapping)}
}

func (b *builder) add(key string, value any) {
	if key == "" || strings.HasPrefix(key, ReservedPrefix) {
		b.report.Reserved++
		return
	}
	s, ok := value.(string)
	if !ok || !utf8.ValidString(key) {
		b.report.Rejected++
		return
	}
	b.m[key] = s
}

func (b *builder) done() (Mapping, Report) {
	b.report.Accepted = len(b.m)
	return b.m, b.report
}

// sortedKeys returns the mapping's keys in sorted order.
func (m Mapping) sortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Invert swaps keys and values. Empty values are dropped. When several keys
// share a value, the smallest key wins.
func (m Mapping) Invert() Mapping {
	inv := make(Mapping, len(m))
	for _, k := range m.sortedKeys() {
		v := m[k]
		if v == "" {
			continue
		}
		if _, taken := inv[v]; taken {
			continue
		}
		inv[v] = k
	}
	return inv
}
