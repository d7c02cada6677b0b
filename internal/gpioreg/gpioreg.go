// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package gpioreg maps GPIO pins onto the bits of a bus register.
package gpioreg

import (
	"fmt"

	"github.com/platinasystems/gpio"
	"github.com/platinasystems/log"
	"github.com/platinasystems/regbus"
)

type Pin interface {
	Value() (bool, error)
	SetValue(bool) error
}

type pin struct {
	value    func() (bool, error)
	setValue func(bool) error
}

func (p pin) Value() (bool, error)  { return p.value() }
func (p pin) SetValue(v bool) error { return p.setValue(v) }

// Lookup finds a pin by name; it's replaced by tests.
var Lookup = func(name string) (Pin, bool) {
	p, found := gpio.Pins[name]
	if !found {
		return nil, false
	}
	return pin{p.Value, p.SetValue}, true
}

// Register holds the pin states, bit i for Pins[i]. Bit and register writes
// drive the pins; Refresh samples them.
type Register struct {
	Addr regbus.Addr
	Name string
	Pins []string

	value uint16
	pins  []Pin
	bit   regbus.HandlerEntry
	reg   regbus.HandlerEntry
}

func (r *Register) Attach(b *regbus.Bus) error {
	if len(r.Pins) > 16 {
		return fmt.Errorf("%s: %d pins: %w", r.Name, len(r.Pins),
			regbus.ErrValidation)
	}
	r.pins = make([]Pin, len(r.Pins))
	for i, name := range r.Pins {
		p, found := Lookup(name)
		if !found {
			return fmt.Errorf("%s: %s: not found", r.Name, name)
		}
		r.pins[i] = p
	}
	for _, err := range []error{
		b.RedirectPointer(r.Addr, &r.value),
		b.EnableBitWrite(r.Addr),
		b.InstallBitHandler(r.Addr, &r.bit, r),
		b.InstallWriteHandler(r.Addr, &r.reg, r),
	} {
		if err != nil {
			return fmt.Errorf("%s: %w", r.Name, err)
		}
	}
	return nil
}

// BitWritten drives the pin of the written bit.
func (r *Register) BitWritten(_ regbus.Addr, mask uint16) {
	for i, p := range r.pins {
		if mask == 1<<uint(i) {
			r.set(i, p)
		}
	}
}

// RegisterWritten drives all pins.
func (r *Register) RegisterWritten(regbus.Addr) {
	for i, p := range r.pins {
		r.set(i, p)
	}
}

func (r *Register) set(i int, p Pin) {
	if err := p.SetValue(r.value&(1<<uint(i)) != 0); err != nil {
		log.Print("daemon", "err", r.Pins[i], ": ", err)
	}
}

// Refresh samples the pins into the register. The caller must hold the bus
// lock.
func (r *Register) Refresh() error {
	var v uint16
	for i, p := range r.pins {
		t, err := p.Value()
		if err != nil {
			return fmt.Errorf("%s: %w", r.Pins[i], err)
		}
		if t {
			v |= 1 << uint(i)
		}
	}
	r.value = v
	return nil
}
