// Modifications copyright (c) Arista Networks, Inc. 2022
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpOmitsEmptiesByDefault(t *testing.T) {
	m := InitDefault()
	m.Put(1, 100)
	m.Put(2, 200)

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf, false))

	out := buf.String()
	require.Contains(t, out, "full")
	require.NotContains(t, out, "empty")
	require.Equal(t, 2, strings.Count(out, "full"))
}

func TestDumpIncludesEmptiesWhenAsked(t *testing.T) {
	m := InitDefault()
	m.Put(1, 100)

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf, true))

	require.Contains(t, buf.String(), "empty")
}

func TestDumpIncludesPreviousSpaceDuringMigration(t *testing.T) {
	m := InitCustom(5, 0.7, 0.25, 1, 4)
	for k := uint32(0); k < 200; k++ {
		m.Put(k, int32(k))
	}
	require.Greater(t, m.toMigrate, uint32(0))

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf, false))
	require.Contains(t, buf.String(), "migrating")
}
