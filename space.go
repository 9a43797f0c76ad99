// Modifications copyright (c) Arista Networks, Inc. 2022
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

// fib32 is floor(2^32 / phi), the Fibonacci hashing multiplier. See
// Malte Skarupke, "Fibonacci Hashing: The Optimization That The World
// Forgot" (probablydance.com).
const fib32 = 2654435769

// bucket is a single slot in a space: a key/value pair plus its probe
// metadata. offset is the distance from the bucket's home slot
// (hindex(key)) to the slot it actually occupies — the "distance from
// initial bucket" in Robin Hood terminology.
type bucket struct {
	key    uint32
	value  int32
	offset uint32
	inuse  bool
}

// Key returns the key stored in this entry.
func (b *bucket) Key() uint32 { return b.key }

// Value returns the value stored in this entry.
func (b *bucket) Value() int32 { return b.value }

// space is one of the two bucket arrays a Map holds: a contiguous
// power-of-two array plus the probe bookkeeping needed to bound
// lookups and decide when to grow.
type space struct {
	buckets     []bucket
	mask        uint32
	log2size    uint32
	shift       uint32
	size        uint32
	offsetLimit uint32
	maxOffset   uint32
}

// hindex computes the home slot for key: an XOR-folded Fibonacci
// multiplicative hash. The fold mixes the low bits into the high bits
// before multiplying, so keys that only differ in their low bits (or
// whose top bits are identical) still spread across the table; the
// final shift keeps the top log2size bits, which is where the
// multiply concentrates the best-mixed entropy.
func hindex(key, shift, mask uint32) uint32 {
	return ((key ^ (key >> shift)) * fib32) >> shift
}

// init sizes space to 1<<log2size buckets (lazily — the backing slice
// is not allocated here) and recomputes its probe ceiling. log2size is
// clamped to at least minLog2size by the caller.
func (s *space) init(log2size, offsetMult uint32) {
	s.log2size = log2size
	s.size = 1 << log2size
	s.mask = s.size - 1
	s.shift = 32 - log2size
	s.offsetLimit = offsetMult * log2size
	s.maxOffset = 0
	s.buckets = nil
}

// ensureAllocated lazily allocates the bucket array on first insert
// into an empty space, via the Map's configured Allocator.
func (s *space) ensureAllocated(alloc Allocator) {
	if s.buckets == nil {
		s.buckets = alloc.AllocBuckets(int(s.size))
	}
}

// release frees the bucket array via alloc and clears it, per the
// memory discipline in spec.md §5: a drained or freed space holds no
// allocation.
func (s *space) release(alloc Allocator) {
	if s.buckets != nil {
		alloc.FreeBuckets(s.buckets)
		s.buckets = nil
	}
}

// insertResult mirrors the source's HmapResult: a pointer to the
// relevant bucket plus whether the key already existed.
type insertResult struct {
	entry  *bucket
	exists bool
}

// insert places key/value into s using Robin Hood displacement: an
// intruder with a larger running offset steals the slot of any
// resident with a smaller offset ("rich steals from poor"), and the
// displaced resident continues probing from there with its own offset
// incremented. landedAt records the slot the caller's own key is placed
// in: the first slot it steals, or the empty slot the loop stops at if
// it never steals. Later swaps in the same call only touch slots further
// along the chain, so the returned entry holds the caller's key rather
// than a resident displaced past it. maxOffset is raised to the largest
// offset placed anywhere during the call, not only the last one.
func (s *space) insert(alloc Allocator, key uint32, value int32) insertResult {
	s.ensureAllocated(alloc)

	index := hindex(key, s.shift, s.mask)
	candidate := bucket{key: key, value: value, offset: 0, inuse: true}
	landedAt := -1

	for s.buckets[index].inuse {
		if s.buckets[index].key == candidate.key {
			return insertResult{entry: &s.buckets[index], exists: true}
		}

		if s.buckets[index].offset < candidate.offset {
			if landedAt < 0 {
				landedAt = int(index)
			}
			if candidate.offset > s.maxOffset {
				s.maxOffset = candidate.offset
			}
			s.buckets[index], candidate = candidate, s.buckets[index]
		}

		index = (index + 1) & s.mask
		candidate.offset++
	}

	if candidate.offset > s.maxOffset {
		s.maxOffset = candidate.offset
	}

	s.buckets[index] = candidate
	if landedAt < 0 {
		landedAt = int(index)
	}

	return insertResult{entry: &s.buckets[landedAt]}
}

// fetch scans from key's home slot for at most offsetBound+1 slots,
// wrapping on mask, and returns the first in-use bucket matching key.
// The scan deliberately does not stop at the first empty slot: the
// previous space during migration is lazily cleared rather than
// backward-shifted, so it can contain gaps that do not terminate a
// probe chain.
func (s *space) fetch(key, offsetBound uint32) *bucket {
	if s.buckets == nil {
		return nil
	}

	index := hindex(key, s.shift, s.mask)
	for offset := uint32(0); offset <= offsetBound; offset++ {
		b := &s.buckets[index]
		if b.inuse && b.key == key {
			return b
		}
		index = (index + 1) & s.mask
	}

	return nil
}

// remove deletes key from s using backward-shift deletion: after
// clearing the matched slot, every following resident with a positive
// offset is shifted one slot left and has its offset decremented,
// until an empty slot or a zero-offset resident is reached. This is
// only valid on a space without lazy-deletion gaps (the current
// space) — see Map.Remove for why it must never be called on the
// previous space while a migration is active.
func (s *space) remove(key uint32) bool {
	if s.buckets == nil {
		return false
	}

	index := hindex(key, s.shift, s.mask)
	var prev uint32
	found := false

	for offset := uint32(0); offset < s.offsetLimit && s.buckets[index].inuse; offset++ {
		prev = index
		index = (index + 1) & s.mask
		if s.buckets[prev].key == key {
			s.buckets[prev] = bucket{}
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for s.buckets[index].inuse && s.buckets[index].offset > 0 {
		s.buckets[prev] = s.buckets[index]
		s.buckets[prev].offset--
		s.buckets[index] = bucket{}
		prev = index
		index = (index + 1) & s.mask
	}

	return true
}
