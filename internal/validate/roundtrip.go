// Package validate checks pairs of conversion tables against each other.
package validate

import (
	"github.com/kumarlokesh/anu-converter/internal/converter"
)

// Mismatch records a sample that did not survive a round trip.
type Mismatch struct {
	Sample       string `json:"sample"`
	Intermediate string `json:"intermediate"`
	Got          string `json:"got"`
}

// Result summarises a round-trip check.
type Result struct {
	Checked    int        `json:"checked"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether every sample round-tripped.
func (r Result) OK() bool {
	return len(r.Mismatches) == 0
}

// RoundTrip converts every sample forward and back and collects the ones
// that do not come back unchanged. The engines are not expected to be exact
// inverses; this is a diagnostic for table authors.
func RoundTrip(forward, backward *converter.Engine, samples []string) Result {
	res := Result{Checked: len(samples)}
	for _, s := range samples {
		mid := forward.Convert(s)
		got := backward.Convert(mid)
		if got != s {
			res.Mismatches = append(res.Mismatches, Mismatch{
				Sample:       s,
				Intermediate: mid,
				Got:          got,
			})
		}
	}
	return res
}

// Samples returns the rule keys of e in code point order, which together
// make up the source alphabet of the table.
func Samples(e *converter.Engine) []string {
	var keys []string
	for k := range e.Rules() {
		keys = append(keys, k)
	}
	return keys
}
