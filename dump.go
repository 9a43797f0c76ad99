// Modifications copyright (c) Arista Networks, Inc. 2022
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import (
	"fmt"
	"io"
)

// Dump writes a diagnostic, human-readable listing of m's buckets to
// w: one line per space, per slot (or per in-use slot only, when
// includeEmpties is false), plus a header line per space. The format
// is advisory, not normative — it exists for debugging, not for any
// contract Map callers can rely on.
func (m *Map) Dump(w io.Writer, includeEmpties bool) error {
	current := m.currentSpace()
	previous := m.previousSpace()

	if _, err := fmt.Fprintf(w, "# count=%d current-size=%d current-log2=%d current-max-offset=%d\n",
		m.count, current.size, current.log2size, current.maxOffset); err != nil {
		return err
	}
	if err := dumpSpace(w, "cur", current, includeEmpties); err != nil {
		return err
	}

	if previous.buckets == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "# migrating toMigrate=%d previous-size=%d previous-log2=%d previous-max-offset=%d\n",
		m.toMigrate, previous.size, previous.log2size, previous.maxOffset); err != nil {
		return err
	}
	return dumpSpace(w, "prev", previous, includeEmpties)
}

func dumpSpace(w io.Writer, label string, s *space, includeEmpties bool) error {
	for i, b := range s.buckets {
		if !b.inuse && !includeEmpties {
			continue
		}
		state := "empty"
		if b.inuse {
			state = "full"
		}
		if _, err := fmt.Fprintf(w, "%s, #%06d, %s, 0x%08x (%d), %d, %d\n",
			label, i, state, b.key, b.key, b.value, b.offset); err != nil {
			return err
		}
	}
	return nil
}
