// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hmap

// Allocator is the seam through which Map obtains and releases its
// bucket arrays. The default allocator simply wraps make()/nil-out and
// lets Go's ordinary out-of-memory behavior stand, which matches the
// source implementation's contract of aborting the process on
// allocation failure (its xalloc layer calls exit(1) on a null
// return). A caller that wants to intercept allocation failure, pool
// bucket arrays, or use off-heap memory can supply its own Allocator.
type Allocator interface {
	// AllocBuckets returns a slice equivalent to make([]bucket, n),
	// with all entries zeroed (inuse == false).
	AllocBuckets(n int) []bucket

	// FreeBuckets may optionally release the memory backing v, which
	// is guaranteed to have come from a prior AllocBuckets call on
	// the same Allocator. The default allocator leaves this to the
	// garbage collector.
	FreeBuckets(v []bucket)
}

type defaultAllocator struct{}

func (defaultAllocator) AllocBuckets(n int) []bucket {
	return make([]bucket, n)
}

func (defaultAllocator) FreeBuckets(v []bucket) {}
