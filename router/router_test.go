package router

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchkit/router/pattern"
)

func mustParse(t *testing.T, src string) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Parse(src)
	require.NoError(t, err)
	return p
}

func TestFindExactMatchDominance(t *testing.T) {
	b := NewBuilder[string]()
	require.NoError(t, b.Add(mustParse(t, "/users/{id}"), "by-id"))
	require.NoError(t, b.Add(mustParse(t, "/users/me"), "me"))
	r := b.Build(nil)

	m, ok := r.Find("/users/me")
	require.True(t, ok)
	assert.Equal(t, "me", m.Value)
	if diff := cmp.Diff(map[string]string{}, m.Variables.Map()); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	m, ok = r.Find("/users/42")
	require.True(t, ok)
	assert.Equal(t, "by-id", m.Value)
	if diff := cmp.Diff(map[string]string{"id": "42"}, m.Variables.Map()); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	_, ok = r.Find("/users/")
	assert.False(t, ok)
}

func TestFindGreedyVariable(t *testing.T) {
	b := NewBuilder[string]()
	require.NoError(t, b.Add(mustParse(t, "/files/{p:.+}"), "files"))
	r := b.Build(nil)

	m, ok := r.Find("/files/a/b/c.txt")
	require.True(t, ok)
	if diff := cmp.Diff(map[string]string{"p": "a/b/c.txt"}, m.Variables.Map()); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	_, ok = r.Find("/files/")
	assert.False(t, ok)
}

func TestBuilderConflict(t *testing.T) {
	b := NewBuilder[string]()
	require.NoError(t, b.Add(mustParse(t, "/u/{a}"), "first"))
	err := b.Add(mustParse(t, "/u/{b}"), "second")
	assert.Error(t, err)
}

func TestBuilderInertAfterBuild(t *testing.T) {
	b := NewBuilder[string]()
	require.NoError(t, b.Add(mustParse(t, "/x"), "x"))
	r := b.Build(nil)

	err := b.Add(mustParse(t, "/y"), "y")
	assert.Error(t, err)

	_, ok := r.Find("/y")
	assert.False(t, ok, "router must not observe mutations attempted after Build")
}

func TestFindAllOrder(t *testing.T) {
	b := NewBuilder[string]()
	require.NoError(t, b.Add(mustParse(t, "/a/{x}"), "wide"))
	require.NoError(t, b.Add(mustParse(t, "/a/{x:[0-9]+}"), "narrow"))
	require.NoError(t, b.Add(mustParse(t, "/a/42"), "exact"))
	r := b.Build(nil)

	var order []string
	for m := range r.FindAll("/a/42") {
		order = append(order, m.Value)
	}
	require.Len(t, order, 3)
	assert.Equal(t, "exact", order[0])

	// the full matching-endpoint set, not just its head, is what the
	// builder's comparator promises: exact match first, then the
	// variable-containing endpoints in builder-imposed order.
	want := []string{"exact", "narrow", "wide"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("FindAll order mismatch (-want +got):\n%s", diff)
	}
}

func TestManyEndpointsUseBitsetRepresentation(t *testing.T) {
	b := NewBuilder[int]()
	for i := 0; i < 200; i++ {
		p := mustParse(t, "/p"+strconv.Itoa(i)+"/{v}")
		require.NoError(t, b.Add(p, i))
	}
	r := b.Build(nil)
	assert.NotNil(t, r)
	_, isBitset := r.trie.newSet().(bitset)
	assert.True(t, isBitset, "expected bitset for 200 variable endpoints")
}
