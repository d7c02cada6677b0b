// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package publish reports register writes as redis "field: value" strings.
package publish

import (
	"fmt"

	"github.com/platinasystems/regbus"
)

// Printer is satisfied by *publisher.Publisher.
type Printer interface {
	Print(...interface{}) (int, error)
}

type watch struct {
	addr regbus.Addr
	name string
	reg  regbus.HandlerEntry
	bit  regbus.HandlerEntry
}

type Writes struct {
	Bus *regbus.Bus
	Pub Printer

	watches []*watch
}

// Watch installs write and bit handlers that publish the named register as
// read back from the bus.
// Any other handler of addr is replaced.
func (w *Writes) Watch(addr regbus.Addr, name string) error {
	x := &watch{addr: addr, name: name}
	if err := w.Bus.InstallWriteHandler(addr, &x.reg, w); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	at, _ := w.Bus.AccessType(addr)
	if at&regbus.BitWrite != 0 {
		if err := w.Bus.InstallBitHandler(addr, &x.bit, w); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	w.watches = append(w.watches, x)
	return nil
}

func (w *Writes) RegisterWritten(addr regbus.Addr) {
	w.Print(w.name(addr), ": ", Word(w.Bus.GetRegister(addr)))
}

func (w *Writes) BitWritten(addr regbus.Addr, mask uint16) {
	v := w.Bus.GetRegister(addr)
	w.Print(w.name(addr), ".", bitIndex(mask), ": ", v&mask != 0)
}

// Print publishes unless Pub is nil.
func (w *Writes) Print(args ...interface{}) {
	if w.Pub != nil {
		w.Pub.Print(args...)
	}
}

func (w *Writes) name(addr regbus.Addr) string {
	for _, x := range w.watches {
		if x.addr == addr {
			return x.name
		}
	}
	return fmt.Sprintf("%#x", uint16(addr))
}

func bitIndex(mask uint16) (i int) {
	for mask > 1 {
		mask >>= 1
		i++
	}
	return
}

// Word formats a register value.
func Word(v uint16) string { return fmt.Sprintf("%#04x", v) }
