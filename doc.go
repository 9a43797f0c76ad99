// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hmap provides Map, an open-addressed hash table mapping
// uint32 keys to int32 values.
//
// Map uses Robin Hood linear probing (no tombstones, backward-shift
// deletion) over a Fibonacci-mix index function, and grows or shrinks
// by maintaining two bucket arrays — a current space and a previous
// space — migrating entries from the previous space into the current
// one a few at a time on every mutating call. This bounds the latency
// of any single Put or Remove even while the table is resizing, at the
// cost of up to two probes per read while a migration is in flight.
//
// The following requirements are the caller's responsibility:
//   - Keys are uint32. If your keys are not already uniformly
//     distributed 32-bit digests (strings, UUIDs, sequential IDs),
//     reduce them with a digest function first; see the keyhash
//     subpackage for a ready-made one.
//   - Map is not safe for concurrent use. Callers needing concurrent
//     access must serialize it externally.
//   - Entry pointers returned by Put and Get are invalidated by any
//     subsequent mutating call (Put, Remove, Free) on the same Map.
package hmap

// This file intentionally carries only the package doc comment. See
// space.go for the bucket/space primitives, map.go for the Map type,
// migration, and configuration, and dump.go for the diagnostic sink.
