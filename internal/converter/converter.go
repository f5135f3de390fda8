// Package converter implements greedy longest-match conversion between
// legacy glyph encodings and Unicode.
//
// An Engine is built once from a mapping and then applied to any number of
// inputs. At every position it emits the value of the longest key that
// matches there; when no key matches, the input character passes through
// unchanged. A character is one Unicode code point. Bytes that are not valid
// UTF-8 are copied through one at a time and never match a key.
//
// Conversion never fails. An empty mapping converts every input to itself.
package converter

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/kumarlokesh/anu-converter/internal/mapping"
	"github.com/kumarlokesh/anu-converter/internal/trie"
)

// Engine applies one mapping. It is immutable and safe for concurrent use.
type Engine struct {
	trie *trie.Trie
}

// New builds an Engine for m. Empty keys are ignored.
func New(m mapping.Mapping) *Engine {
	t := trie.New()
	for k, v := range m {
		t.Insert(k, v)
	}
	return &Engine{trie: t}
}

// Convert builds a throwaway Engine for m and converts text with it.
func Convert(text string, m mapping.Mapping) string {
	if text == "" || len(m) == 0 {
		return text
	}
	return New(m).Convert(text)
}

// Len returns the number of rules the Engine applies.
func (e *Engine) Len() int {
	return e.trie.Len()
}

// MaxKeyLen returns the length, in code points, of the longest rule key.
func (e *Engine) MaxKeyLen() int {
	return e.trie.MaxDepth()
}

// Rules yields the Engine's keys and replacements in code point order.
func (e *Engine) Rules() iter.Seq2[string, string] {
	return e.trie.All()
}

// Convert scans text left to right, replacing the longest matching key at
// each position.
func (e *Engine) Convert(text string) string {
	if text == "" || e.trie.Len() == 0 {
		return text
	}

	src := []byte(text)

	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(src); {
		if value, n, ok := e.trie.LongestPrefix(src[i:]); ok {
			b.WriteString(value)
			i += n
			continue
		}

		_, size := utf8.DecodeRune(src[i:])
		b.WriteString(text[i : i+size])
		i += size
	}

	return b.String()
}
