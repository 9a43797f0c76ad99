// Modifications copyright (c) Arista Networks, Inc. 2022
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import "math"

const (
	minLog2SizeDefault = 5
	minLog2SizeFloor   = 5
	minLog2SizeCeil    = 32

	growLoadDefault   = 0.7
	shrinkLoadDefault = 0.25

	offsetMultDefault = 1

	batchSizeMinimum = 4

	// migrateAll tells Map to fold an entire migration into the
	// resize call that starts it, rather than spreading it across
	// subsequent mutating operations.
	migrateAll = 0

	dirGrow   = 1
	dirShrink = -1
)

// Entry is a pointer into a Map's live bucket storage, returned by Put
// and Get. It is invalidated by any subsequent mutating call (Put,
// Remove, Free) on the same Map: a migration step or a resize may move
// or reuse the underlying memory.
type Entry = bucket

// Map is an open-addressed hash table from uint32 keys to int32
// values. See the package doc comment for the algorithm; see
// InitCustom / New for configuration.
//
// A Map is not safe for concurrent use.
type Map struct {
	spaces  [2]space
	current uint8

	count int

	minLog2Size uint32
	growLoad    float64
	shrinkLoad  float64
	offsetMult  uint32
	batchSize   uint32

	growCount   uint32
	shrinkCount uint32

	toMigrate  uint32
	migratePos uint32

	alloc Allocator
}

func (m *Map) currentSpace() *space  { return &m.spaces[m.current] }
func (m *Map) previousSpace() *space { return &m.spaces[1-m.current] }

// Len returns the number of live entries in m.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// InitDefault returns a new Map with default configuration:
// InitCustom(5, 0.7, 0.25, 1, 4).
func InitDefault() *Map {
	return InitCustom(minLog2SizeDefault, growLoadDefault, shrinkLoadDefault, offsetMultDefault, batchSizeMinimum)
}

// InitLog2 returns a new Map whose minimum size is 1<<log2size
// buckets, with every other parameter at its default.
func InitLog2(log2size uint32) *Map {
	return InitCustom(log2size, growLoadDefault, shrinkLoadDefault, offsetMultDefault, batchSizeMinimum)
}

// InitSize returns a new Map sized so that inserting minItems entries
// will not by itself trigger a grow: the smallest log2size such that
// minItems < growLoad * 2^log2size.
func InitSize(minItems uint32) *Map {
	log2size := log2Ceil(minItems)
	for float64(minItems) >= growLoadDefault*float64(uint32(1)<<log2size) {
		log2size++
	}
	return InitCustom(log2size, growLoadDefault, shrinkLoadDefault, offsetMultDefault, batchSizeMinimum)
}

// InitCustom returns a new Map with full control over sizing and load
// factors, validating and clamping parameters per the table in
// spec.md §4.5:
//
//   - log2size is clamped to [5, 32] and used as the map's minimum size.
//   - growLoad and shrinkLoad default to 0.7/0.25 if outside (0, 1);
//     shrinkLoad is then clamped to at most growLoad/2.
//   - offsetMult is clamped to at least 1.
//   - batchSize of 0 requests migrate-all-at-once; otherwise it is
//     clamped to at least ceil(growLoad/shrinkLoad)+1 and to an
//     absolute floor of 4.
func InitCustom(log2size uint32, growLoad, shrinkLoad float64, offsetMult, batchSize uint32) *Map {
	m := &Map{alloc: defaultAllocator{}}
	m.configure(log2size, growLoad, shrinkLoad, offsetMult, batchSize)
	m.currentSpace().init(m.minLog2Size, m.offsetMult)
	m.recomputeThresholds(m.currentSpace())
	return m
}

func (m *Map) configure(log2size uint32, growLoad, shrinkLoad float64, offsetMult, batchSize uint32) {
	if log2size < minLog2SizeFloor {
		log2size = minLog2SizeFloor
	}
	if log2size > minLog2SizeCeil {
		log2size = minLog2SizeCeil
	}
	m.minLog2Size = log2size

	if growLoad <= 0.0 || growLoad >= 1.0 {
		growLoad = growLoadDefault
	}
	if shrinkLoad <= 0.0 || shrinkLoad >= 1.0 {
		shrinkLoad = shrinkLoadDefault
	}
	if shrinkLoad > growLoad/2.0 {
		shrinkLoad = growLoad / 2.0
	}
	m.growLoad = growLoad
	m.shrinkLoad = shrinkLoad

	if offsetMult < 1 {
		offsetMult = 1
	}
	m.offsetMult = offsetMult

	if batchSize != migrateAll {
		floor := uint32(math.Ceil(growLoad/shrinkLoad)) + 1
		if batchSize < floor {
			batchSize = floor
		}
		if batchSize < batchSizeMinimum {
			batchSize = batchSizeMinimum
		}
	}
	m.batchSize = batchSize
}

// recomputeThresholds derives growCount/shrinkCount from s's size,
// clamping growCount to at most s.mask so the current space is never
// allowed to reach 100% occupancy (spec.md invariant §3.6).
func (m *Map) recomputeThresholds(s *space) {
	m.shrinkCount = uint32(float64(s.size) * m.shrinkLoad)
	growCount := uint32(float64(s.size) * m.growLoad)
	if growCount > s.mask {
		growCount = s.mask
	}
	m.growCount = growCount
}

// log2Ceil returns the smallest log2size such that 1<<log2size >= n,
// with a floor of 0.
func log2Ceil(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	size := uint32(1)
	var log2 uint32
	for size < n {
		size <<= 1
		log2++
	}
	return log2
}

// Get returns the entry for key and true, or nil and false if key is
// not present. Get does not advance an in-progress migration.
func (m *Map) Get(key uint32) (*Entry, bool) {
	current := m.currentSpace()
	if entry := current.fetch(key, current.maxOffset); entry != nil {
		return entry, true
	}
	if m.toMigrate > 0 {
		previous := m.previousSpace()
		if entry := previous.fetch(key, previous.maxOffset); entry != nil {
			return entry, true
		}
	}
	return nil, false
}

// Put inserts key/value into m. If key was already present, the
// existing entry is returned unmodified with exists == true and count
// is unchanged. Otherwise the new entry is returned with exists ==
// false and count is incremented.
//
// A Put call against the previous space during an in-progress
// migration is free: a hit there is reported as already-existing
// without advancing the migration, matching spec.md §4.3 step 1.
func (m *Map) Put(key uint32, value int32) (entry *Entry, exists bool) {
	if m.toMigrate > 0 {
		previous := m.previousSpace()
		if entry := previous.fetch(key, previous.maxOffset); entry != nil {
			return entry, true
		}
		m.migrateStep(m.batchSize)
	}

	current := m.currentSpace()
	result := current.insert(m.alloc, key, value)
	if result.exists {
		return result.entry, true
	}

	m.count++

	if m.toMigrate == 0 && (current.maxOffset == current.offsetLimit || uint32(m.count) >= m.growCount) {
		m.triggerResize(dirGrow)
	}

	return result.entry, false
}

// Remove deletes key from m, returning true if it was present.
//
// While a migration is active, the previous space is searched first
// and, on a hit, lazily cleared in place (inuse = false, no
// backward-shift) rather than properly removed: backward-shift
// deletion would break the lazy-gap invariant that other in-flight
// fetches against the previous space rely on (spec.md §4.2, §9).
//
// A removal that drains m to zero entries collapses both spaces
// immediately via collapseEmpty, regardless of the current space's
// size or whether a migration is mid-flight: the ordinary shrink-
// trigger guard (log2size > minLog2Size) never fires once a Map is
// already at its floor size, which would otherwise leave a live,
// never-freed bucket array sitting on an empty Map (spec.md §4.4 step
// 2, invariant §3.7).
func (m *Map) Remove(key uint32) bool {
	if m.toMigrate > 0 {
		previous := m.previousSpace()
		if entry := previous.fetch(key, previous.maxOffset); entry != nil {
			entry.inuse = false
			m.count--
			if m.count == 0 {
				m.collapseEmpty()
				return true
			}
			m.migrateStep(m.batchSize)
			return true
		}
		m.migrateStep(m.batchSize)
	}

	current := m.currentSpace()
	if current.remove(key) {
		m.count--
		if m.count == 0 {
			m.collapseEmpty()
		} else if m.toMigrate == 0 && uint32(m.count) <= m.shrinkCount && current.log2size > m.minLog2Size {
			m.triggerResize(dirShrink)
		}
		return true
	}

	return false
}

// Free releases both of m's bucket arrays and zeros its state. Free is
// idempotent and safe to call on an already-freed or zero-value Map.
func (m *Map) Free() {
	if m == nil {
		return
	}
	alloc := m.alloc
	if alloc == nil {
		alloc = defaultAllocator{}
	}
	m.spaces[0].release(alloc)
	m.spaces[1].release(alloc)
	*m = Map{}
}

// triggerResize begins a grow (dir == dirGrow) or shrink (dir ==
// dirShrink) of m, per spec.md §4.4. It is never called with m.count
// == 0: Put only calls it after incrementing count, and Remove routes
// the count == 0 case to collapseEmpty directly instead.
func (m *Map) triggerResize(dir int) {
	current := m.currentSpace()
	newLog2 := current.log2size

	if dir > 0 {
		newLog2++
	} else {
		newLog2--
	}
	if newLog2 < m.minLog2Size {
		newLog2 = m.minLog2Size
	}

	m.toMigrate = current.size
	m.migratePos = 0

	m.current = 1 - m.current
	next := m.currentSpace()
	next.init(newLog2, m.offsetMult)
	m.recomputeThresholds(next)

	if m.batchSize == migrateAll && m.toMigrate > 0 {
		m.migrateStep(m.toMigrate)
	}
}

// collapseEmpty releases both of m's bucket arrays and reinitializes
// the current space at minLog2Size with no migration pending. This is
// the empty-map special case (spec.md §4.4 step 2): called directly
// from Remove whenever a deletion drains m to zero entries, rather
// than through the gated shrink-trigger path in Remove, which cannot
// run once a space is already at minLog2Size.
func (m *Map) collapseEmpty() {
	m.spaces[0].release(m.alloc)
	m.spaces[1].release(m.alloc)
	m.toMigrate = 0
	m.migratePos = 0
	m.current = 0
	m.currentSpace().init(m.minLog2Size, m.offsetMult)
	m.recomputeThresholds(m.currentSpace())
}

// migrateStep moves up to batch entries from the previous space into
// the current space. When the previous space is fully drained, its
// bucket array is released and the migration cursor is cleared.
func (m *Map) migrateStep(batch uint32) {
	previous := m.previousSpace()
	current := m.currentSpace()

	moved := uint32(0)
	for m.toMigrate > 0 && moved < batch {
		entry := &previous.buckets[m.migratePos]
		if entry.inuse {
			current.insert(m.alloc, entry.key, entry.value)
			entry.inuse = false
		}
		m.migratePos++
		m.toMigrate--
		moved++
	}

	if m.toMigrate == 0 {
		previous.release(m.alloc)
		m.migratePos = 0
	}
}
