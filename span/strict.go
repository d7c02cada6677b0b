// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package span

import (
	"fmt"

	"github.com/platinasystems/regbus"
)

// A word is one register of a span in strict mode. Word 0 starts a
// transaction, restarting one left unfinished on the same span.
type word struct {
	e *entry
	i int
}

// fail drops the transaction in progress so the next one starts clean.
func (w *word) fail(format string, args ...interface{}) {
	if w.e.kind == readSpan {
		w.e.a.reading = nil
	} else {
		w.e.a.writing = nil
	}
	panic(fmt.Errorf("span: %s %#x word %d: %s", w.e.kind, w.e.start,
		w.i, fmt.Sprintf(format, args...)))
}

func (w *word) ReadRegister(addr regbus.Addr) uint16 {
	a := w.e.a
	if w.i == 0 {
		if a.reading != nil && a.reading != w.e {
			w.fail("overlaps read %#x at word %d", a.reading.start,
				a.rnext)
		}
		a.reading, a.rnext = w.e, 1
		return w.e.ReadRegister(addr)
	}
	if a.reading != w.e || a.rnext != w.i {
		w.fail("out of order")
	}
	a.rnext++
	if a.rnext == w.e.n {
		a.reading = nil
	}
	return a.buf[w.i]
}

func (w *word) WriteRegister(addr regbus.Addr, v uint16) {
	a := w.e.a
	if w.i == 0 {
		if a.writing != nil && a.writing != w.e {
			w.fail("overlaps write %#x at word %d", a.writing.start,
				a.wnext)
		}
		a.writing, a.wnext = w.e, 0
	}
	if a.writing != w.e || a.wnext != w.i {
		w.fail("out of order")
	}
	a.wnext++
	if w.i < w.e.n-1 {
		a.buf[w.i] = v
		return
	}
	a.writing = nil
	w.e.WriteRegister(addr, v)
}
