package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(s indexSet) []int {
	var out []int
	s.forEach(func(i int) { out = append(out, i) })
	return out
}

func TestMask64SetOr(t *testing.T) {
	factory := newIndexSetFactory(10)
	a := factory()
	a.set(1)
	a.set(3)

	b := factory()
	b.set(3)
	b.set(5)

	a.or(b)
	assert.ElementsMatch(t, []int{1, 3, 5}, collect(a))
}

func TestBitsetSetOr(t *testing.T) {
	factory := newIndexSetFactory(200)
	a := factory()
	a.set(0)
	a.set(130)

	b := factory()
	b.set(130)
	b.set(199)

	a.or(b)
	assert.ElementsMatch(t, []int{0, 130, 199}, collect(a))
}

func TestFactoryChoosesRepresentationByCount(t *testing.T) {
	small := newIndexSetFactory(64)()
	_, ok := small.(*mask64)
	assert.True(t, ok, "expected mask64 for n<=64")

	large := newIndexSetFactory(65)()
	_, ok = large.(bitset)
	assert.True(t, ok, "expected bitset for n>64")
}
