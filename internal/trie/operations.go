package trie

import (
	"iter"
	"maps"
	"slices"
	"unicode/utf8"
)

// Insert adds a key-value pair to the trie. Inserting an existing key
// overwrites its value. The empty key is ignored: it would match at every
// position. Keys that are not valid UTF-8 are ignored too, since input
// bytes that fail to decode never match.
func (t *Trie) Insert(key, value string) {
	if key == "" || !utf8.ValidString(key) {
		return
	}

	node := t.root
	depth := 0
	for _, ch := range key {
		next := node.children[ch]
		if next == nil {
			next = newNode()
			node.children[ch] = next
		}
		node = next
		depth++
	}

	if !node.isEnd {
		t.size++
	}
	node.isEnd = true
	node.value = value

	if depth > t.depth {
		t.depth = depth
	}
}

// All yields every key and its value, in rune order.
func (t *Trie) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		t.root.visit(nil, yield)
	}
}

// visit walks the subtree below n depth-first. prefix holds the runes on
// the path to n and is reused between siblings.
func (n *Node) visit(prefix []rune, yield func(string, string) bool) bool {
	for _, ch := range slices.Sorted(maps.Keys(n.children)) {
		child := n.children[ch]
		key := append(prefix, ch)
		if child.isEnd && !yield(string(key), child.value) {
			return false
		}
		if !child.visit(key, yield) {
			return false
		}
	}
	return true
}
