package trie

import "unicode/utf8"

// LongestPrefix returns the value of the longest key that is a prefix of b,
// along with the length in bytes of that key. ok is false when no key is a
// prefix of b.
func (t *Trie) LongestPrefix(b []byte) (value string, n int, ok bool) {
	value, n, ok, _ = t.Walk(b, true)
	return value, n, ok
}

// Walk descends the trie along b and records the deepest value-bearing node
// it passes. The walk only moves forward: once blocked it reports the last
// match seen, so a shorter key is never chosen over a longer one.
//
// When atEOF is false and the walk stopped only because b was exhausted (or
// ends in a partial UTF-8 sequence) while the current node still has
// children, more is true: a longer key might match once more input arrives.
//
// A byte that is not valid UTF-8 blocks the walk; invalid input never
// matches a key.
func (t *Trie) Walk(b []byte, atEOF bool) (value string, n int, ok bool, more bool) {
	node := t.root
	for j := 0; ; {
		if j == len(b) {
			return value, n, ok, !atEOF && len(node.children) > 0
		}
		if !atEOF && !utf8.FullRune(b[j:]) {
			return value, n, ok, len(node.children) > 0
		}

		ch, size := utf8.DecodeRune(b[j:])
		if ch == utf8.RuneError && size == 1 {
			return value, n, ok, false
		}

		node = node.child(ch)
		if node == nil {
			return value, n, ok, false
		}
		j += size

		if node.isEnd {
			value, n, ok = node.value, j, true
		}
	}
}
