// Package keyhash reduces arbitrary byte and string keys to the
// uint32 digests that hmap.Map expects as keys.
//
// The hmap package doc leaves it to callers whose keys are not already
// uniformly distributed 32-bit digests to reduce them first; this
// package is that reduction step for callers who have not already done
// it themselves.
// Use it when your natural key is a string, a byte slice, or anything
// else whose raw bits would not spread uniformly across hmap's
// Fibonacci-mix index function — sequential integers, common-prefix
// strings, and similar low-entropy keys are exactly the case a
// pre-hash pass is for.
package keyhash

import "github.com/cespare/xxhash/v2"

// Uint32 reduces b to a uint32 digest by XOR-folding the two halves of
// its 64-bit xxhash digest, rather than truncating, so that bits from
// both halves of the wider hash contribute to the result.
func Uint32(b []byte) uint32 {
	h := xxhash.Sum64(b)
	return uint32(h) ^ uint32(h>>32)
}

// String reduces s to a uint32 digest the same way Uint32 does, without
// requiring the caller to convert s to a []byte first.
func String(s string) uint32 {
	h := xxhash.Sum64String(s)
	return uint32(h) ^ uint32(h>>32)
}
