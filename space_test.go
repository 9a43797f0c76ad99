// Modifications copyright (c) Arista Networks, Inc. 2022
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSpace(t *testing.T, log2size uint32) *space {
	t.Helper()
	s := &space{}
	s.init(log2size, 1)
	return s
}

func TestHindexDistributesTopBits(t *testing.T) {
	// Keys that only differ in their high bits must not all collide
	// on the same home slot after the XOR fold.
	shift := uint32(27) // log2size = 5
	mask := uint32(31)
	seen := map[uint32]bool{}
	for k := uint32(0); k < 32; k++ {
		seen[hindex(k<<27, shift, mask)] = true
	}
	require.Greater(t, len(seen), 1, "expected hindex to spread high-bit-only keys across slots")
}

func TestSpaceInsertRobinHoodOrdering(t *testing.T) {
	s := newTestSpace(t, 5)
	alloc := defaultAllocator{}

	// Keys are crafted to land on the same home slot (index 0) for a
	// log2size-5 space, so every insert after the first probes past all
	// earlier ones and the chain's offsets run 0, 1, 2, ...
	home := uint32(0)
	keys := collideKeys(t, s, home, 6)

	for i, k := range keys {
		res := s.insert(alloc, k, int32(i))
		require.False(t, res.exists)
	}

	assertRobinHoodOrdering(t, s)
}

func TestSpaceInsertExistingKeyIsNoop(t *testing.T) {
	s := newTestSpace(t, 5)
	alloc := defaultAllocator{}

	res := s.insert(alloc, 42, 1)
	require.False(t, res.exists)

	res2 := s.insert(alloc, 42, 2)
	require.True(t, res2.exists)
	require.Equal(t, int32(1), res2.entry.value, "existing value must not be overwritten")
}

func TestSpaceFetchDoesNotStopAtEmptySlot(t *testing.T) {
	s := newTestSpace(t, 5)
	alloc := defaultAllocator{}

	keys := collideKeys(t, s, 0, 4)
	for i, k := range keys {
		s.insert(alloc, k, int32(i))
	}

	// Simulate the lazy-deletion gap a migrating previous space can
	// have: clear the chain's home slot (its first bucket) without
	// backward-shifting, then confirm a key placed further along the
	// chain is still found.
	home := hindex(keys[0], s.shift, s.mask)
	s.buckets[home].inuse = false

	last := keys[len(keys)-1]
	entry := s.fetch(last, s.maxOffset)
	require.NotNil(t, entry, "fetch must see past a lazily-cleared gap")
	require.Equal(t, last, entry.key)
}

func TestSpaceRemoveBackwardShift(t *testing.T) {
	s := newTestSpace(t, 5)
	alloc := defaultAllocator{}

	keys := collideKeys(t, s, 0, 5)
	for i, k := range keys {
		s.insert(alloc, k, int32(i))
	}

	mid := keys[2]
	require.True(t, s.remove(mid))

	for _, k := range keys {
		if k == mid {
			continue
		}
		entry := s.fetch(k, s.maxOffset)
		require.NotNil(t, entry, "key %d should survive removal of a neighbor", k)
	}
	assertRobinHoodOrdering(t, s)

	require.False(t, s.remove(mid), "removing an absent key must report false")
}

// collideKeys returns n distinct keys whose home slot in s is exactly
// home, by brute-force search — used to exercise Robin Hood
// displacement deterministically instead of hoping random keys
// collide.
func collideKeys(t *testing.T, s *space, home uint32, n int) []uint32 {
	t.Helper()
	keys := make([]uint32, 0, n)
	for k := uint32(1); len(keys) < n; k++ {
		if hindex(k, s.shift, s.mask) == home {
			keys = append(keys, k)
		}
	}
	return keys
}

// assertRobinHoodOrdering walks every pair of adjacent live buckets in
// s and checks that a bucket's offset is at most one more than its
// right-hand neighbor's (property P5).
func assertRobinHoodOrdering(t *testing.T, s *space) {
	t.Helper()
	for i := uint32(0); i < s.size; i++ {
		if !s.buckets[i].inuse {
			continue
		}
		next := (i + 1) & s.mask
		if !s.buckets[next].inuse {
			continue
		}
		require.LessOrEqual(t, s.buckets[i].offset, s.buckets[next].offset+1,
			"slot %d (offset %d) and slot %d (offset %d) violate Robin Hood ordering",
			i, s.buckets[i].offset, next, s.buckets[next].offset)
	}
}
