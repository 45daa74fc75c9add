package solver

import (
	"github.com/bits-and-blooms/bitset"
)

// CandidateSet is a set of vocabulary indices. Values are never mutated
// once handed out; operations return new sets.
type CandidateSet struct {
	bits *bitset.BitSet
}

func (c CandidateSet) Len() int {
	if c.bits == nil {
		return 0
	}
	return int(c.bits.Count())
}

func (c CandidateSet) Contains(i int) bool {
	return c.bits != nil && i >= 0 && c.bits.Test(uint(i))
}

// Indices lists members in ascending order.
func (c CandidateSet) Indices() []int {
	out := make([]int, 0, c.Len())
	c.each(func(i int) { out = append(out, i) })
	return out
}

func (c CandidateSet) each(fn func(i int)) {
	if c.bits == nil {
		return
	}
	for i, ok := c.bits.NextSet(0); ok; i, ok = c.bits.NextSet(i + 1) {
		fn(int(i))
	}
}

// First returns the smallest member, or -1 when empty.
func (c CandidateSet) First() int {
	if c.bits == nil {
		return -1
	}
	if i, ok := c.bits.NextSet(0); ok {
		return int(i)
	}
	return -1
}

func (c CandidateSet) Equal(o CandidateSet) bool {
	if c.Len() == 0 || o.Len() == 0 {
		return c.Len() == o.Len()
	}
	return c.bits.Equal(o.bits)
}

// IsSubsetOf reports whether every member of c is in o.
func (c CandidateSet) IsSubsetOf(o CandidateSet) bool {
	if c.Len() == 0 {
		return true
	}
	if o.bits == nil {
		return false
	}
	return o.bits.IsSuperSet(c.bits)
}

func (c CandidateSet) Intersect(o CandidateSet) CandidateSet {
	if c.bits == nil || o.bits == nil {
		return CandidateSet{}
	}
	return CandidateSet{bits: c.bits.Intersection(o.bits)}
}
