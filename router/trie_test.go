package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrieQuerySharedPrefix(t *testing.T) {
	trie := buildTrie([]string{"/a/", "/ab/", "/a/"})
	out := trie.query("/a/xyz")
	assert.Contains(t, out, 0)
	assert.Contains(t, out, 2)
	assert.NotContains(t, out, 1)
}

func TestTrieQueryDistinctLengthPrefixes(t *testing.T) {
	trie := buildTrie([]string{"ab", "abc", "a"})
	out := trie.query("abcdef")
	assert.ElementsMatch(t, []int{0, 1, 2}, out)
}

func TestTrieQueryNoMatch(t *testing.T) {
	trie := buildTrie([]string{"/users/"})
	out := trie.query("/posts/42")
	assert.Empty(t, out)
}

func TestTrieQueryEmptyPrefix(t *testing.T) {
	trie := buildTrie([]string{""})
	out := trie.query("/anything")
	assert.Equal(t, []int{0}, out)
}

func TestTrieQueryAscendingOrder(t *testing.T) {
	trie := buildTrie([]string{"/a/", "/a/", "/a/"})
	out := trie.query("/a/x")
	assert.Equal(t, []int{0, 1, 2}, out)
}
