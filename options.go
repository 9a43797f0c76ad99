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

// Option configures a Map constructed via New. See WithMinLog2Size,
// WithGrowLoad, WithShrinkLoad, WithOffsetMult, WithBatchSize, and
// WithAllocator.
type Option interface {
	apply(*config)
}

// config accumulates Option values before a single call to
// Map.configure, so that New produces the same fully-validated result
// as InitCustom regardless of which options were supplied.
type config struct {
	log2size   uint32
	growLoad   float64
	shrinkLoad float64
	offsetMult uint32
	batchSize  uint32
	alloc      Allocator
}

func defaultConfig() config {
	return config{
		log2size:   minLog2SizeDefault,
		growLoad:   growLoadDefault,
		shrinkLoad: shrinkLoadDefault,
		offsetMult: offsetMultDefault,
		batchSize:  batchSizeMinimum,
	}
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithMinLog2Size sets the floor on the map's size in log2 buckets.
// Shrinks never reduce the map below this size. Defaults to 5.
func WithMinLog2Size(log2size uint32) Option {
	return optionFunc(func(c *config) { c.log2size = log2size })
}

// WithGrowLoad sets the fraction of the current size at which a grow
// is triggered. Defaults to 0.7.
func WithGrowLoad(growLoad float64) Option {
	return optionFunc(func(c *config) { c.growLoad = growLoad })
}

// WithShrinkLoad sets the fraction of the current size below which a
// shrink is triggered. Defaults to 0.25, and is always clamped to at
// most half of the grow load.
func WithShrinkLoad(shrinkLoad float64) Option {
	return optionFunc(func(c *config) { c.shrinkLoad = shrinkLoad })
}

// WithOffsetMult sets the probe-length ceiling multiplier: the
// ceiling is offsetMult * log2size. Defaults to 1.
func WithOffsetMult(offsetMult uint32) Option {
	return optionFunc(func(c *config) { c.offsetMult = offsetMult })
}

// WithBatchSize sets how many buckets are migrated per mutating
// operation while a resize is in progress. Zero requests a single
// synchronous migration at resize time instead of incremental
// migration. Defaults to 4, and is otherwise clamped to the batch-size
// safety floor derived from growLoad/shrinkLoad.
func WithBatchSize(batchSize uint32) Option {
	return optionFunc(func(c *config) { c.batchSize = batchSize })
}

// WithAllocator overrides the Allocator used for bucket-array
// allocation and release. Defaults to a plain make()-backed
// allocator.
func WithAllocator(alloc Allocator) Option {
	return optionFunc(func(c *config) { c.alloc = alloc })
}

// New returns a new Map configured by opts, defaulting unset fields
// the same way InitDefault does. This is the idiomatic entry point for
// callers who want to set only a subset of parameters; InitCustom
// remains available for callers porting code that used the
// positional-argument form.
func New(opts ...Option) *Map {
	c := defaultConfig()
	for _, opt := range opts {
		opt.apply(&c)
	}

	alloc := c.alloc
	if alloc == nil {
		alloc = defaultAllocator{}
	}

	m := &Map{alloc: alloc}
	m.configure(c.log2size, c.growLoad, c.shrinkLoad, c.offsetMult, c.batchSize)
	m.currentSpace().init(m.minLog2Size, m.offsetMult)
	m.recomputeThresholds(m.currentSpace())
	return m
}
