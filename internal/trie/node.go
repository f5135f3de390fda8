// Package trie implements a rune-keyed prefix tree whose terminal nodes carry
// replacement strings. It is the lookup structure behind longest-match
// conversion.
package trie

// Node represents a node in the trie
type Node struct {
	// children maps the next character to the child node
	children map[rune]*Node

	// isEnd marks if this node represents the end of a key
	isEnd bool

	// value stores the replacement for the key ending here (if isEnd)
	value string
}

// newNode creates a new trie node
func newNode() *Node {
	return &Node{
		children: make(map[rune]*Node),
	}
}

// child returns the child for ch, or nil.
func (n *Node) child(ch rune) *Node {
	return n.children[ch]
}

// Trie represents a trie data structure
type Trie struct {
	root *Node

	// size counts the nodes that carry a value
	size int

	// depth is the length in runes of the longest key
	depth int
}

// New creates a new empty trie
func New() *Trie {
	return &Trie{
		root: newNode(),
	}
}

// Len returns the number of keys stored in the trie.
func (t *Trie) Len() int {
	return t.size
}

// MaxDepth returns the length, in runes, of the longest key.
func (t *Trie) MaxDepth() int {
	return t.depth
}
