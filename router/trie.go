package router

import (
	"github.com/cespare/xxhash/v2"
)

// substringView is a (backing string, offset, length) window used to
// address trie children without allocating a new string per query: Go
// string slicing is already zero-copy, but the hash must still be stable
// and match the hash used for stored child keys, so both sides of the
// lookup go through the same xxhash-backed function. The offset/length
// pair is overwritten in place as a query descends the trie rather than
// allocated fresh at each level.
type substringView struct {
	s      string
	offset int
	length int
}

func (v *substringView) set(offset, length int) {
	v.offset = offset
	v.length = length
}

func (v *substringView) slice() string {
	return v.s[v.offset : v.offset+v.length]
}

func (v *substringView) hash() uint64 {
	return xxhash.Sum64String(v.slice())
}

type childEntry struct {
	key  string
	node *trieNode
}

// trieNode is one node of the prefix trie keyed on endpoint literal
// prefixes (spec §4.2.1). offset is the absolute position in the path at
// which the node begins; length is how many characters it consumes before
// descending further. here holds the endpoint indices whose literalPrefix
// ends exactly at this node. children is keyed by the xxhash of the
// length-byte substring consumed at this node, with the owned key string
// kept alongside each entry to resolve hash collisions.
type trieNode struct {
	offset   int
	length   int
	here     indexSet
	children map[uint64][]childEntry
}

func newTrieNode(offset int, newSet func() indexSet) *trieNode {
	return &trieNode{offset: offset, here: newSet()}
}

func (n *trieNode) child(view *substringView) *trieNode {
	for _, c := range n.children[view.hash()] {
		if c.key == view.slice() {
			return c.node
		}
	}
	return nil
}

func (n *trieNode) addChild(view *substringView, child *trieNode) {
	if n.children == nil {
		n.children = make(map[uint64][]childEntry)
	}
	h := view.hash()
	n.children[h] = append(n.children[h], childEntry{key: view.slice(), node: child})
}

// trie is the prefix index over variable-containing endpoints, built once
// and read lock-free afterwards.
type trie struct {
	root   *trieNode
	newSet func() indexSet
}

// buildTrie inserts prefixes in ascending length order, per spec, so a
// node's length is assigned at most once and never needs shrinking.
func buildTrie(prefixes []string) *trie {
	newSet := newIndexSetFactory(len(prefixes))
	t := &trie{root: newTrieNode(0, newSet), newSet: newSet}

	order := make([]int, len(prefixes))
	for i := range order {
		order[i] = i
	}
	sortByPrefixLen(order, prefixes)

	for _, idx := range order {
		t.insert(prefixes[idx], idx)
	}

	return t
}

func sortByPrefixLen(order []int, prefixes []string) {
	// stable insertion sort: endpoint counts are small (router build time
	// budget, not request time), and stability preserves the caller's
	// original relative order among equal-length prefixes.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && len(prefixes[order[j-1]]) > len(prefixes[order[j]]) {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
}

func (t *trie) insert(prefix string, idx int) {
	node := t.root
	pos := 0
	view := substringView{s: prefix}

	for {
		remaining := len(prefix) - pos
		if remaining == 0 {
			node.here.set(idx)
			return
		}

		if node.length == 0 {
			node.length = remaining
		}

		view.set(pos, node.length)
		child := node.child(&view)
		if child == nil {
			child = newTrieNode(node.offset+node.length, t.newSet)
			node.addChild(&view, child)
		}

		pos += node.length
		node = child
	}
}

// query returns, in ascending index order, every endpoint whose
// literalPrefix is a prefix of path.
func (t *trie) query(path string) []int {
	result := t.newSet()
	node := t.root
	view := substringView{s: path}

	for node != nil {
		result.or(node.here)

		if node.length == 0 || node.offset+node.length > len(path) {
			break
		}

		view.set(node.offset, node.length)
		node = node.child(&view)
	}

	out := make([]int, 0)
	result.forEach(func(i int) { out = append(out, i) })
	return out
}
