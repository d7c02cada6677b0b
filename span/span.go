// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package span carries values wider than one register over consecutive bus
// registers.
//
// A read span redirects its first register to a function that returns word
// 0 of the target and copies the rest into the assembler's buffer; the
// following registers read the buffer. A write span writes all but its last
// register into the buffer; writing the last register completes the value
// and hands the words to a Finisher.
//
// All spans of an Assembler share one buffer. A transaction must access its
// registers in address order, starting with the first, and must not overlap
// another transaction of the same assembler. With Config.Strict the
// assembler panics when a transaction breaks these rules.
package span

import (
	"fmt"

	"github.com/platinasystems/regbus"
)

// Finisher receives the words of a completed write span. The words are only
// valid for the duration of the call.
type Finisher interface {
	FinishSpan(base regbus.Addr, words []uint16)
}

type FinisherFunc func(regbus.Addr, []uint16)

func (f FinisherFunc) FinishSpan(base regbus.Addr, words []uint16) {
	f(base, words)
}

const (
	DefaultMaxLength = 16
	DefaultMaxCount  = 8
)

type Config struct {
	// MaxLength is the longest span in bytes.
	MaxLength int
	// MaxCount is the number of spans that may be registered.
	MaxCount int
	// Strict checks transaction order through per register callbacks.
	Strict bool
}

type kind uint8

const (
	readSpan kind = iota + 1
	writeSpan
)

func (k kind) String() string {
	if k == readSpan {
		return "read"
	}
	return "write"
}

type entry struct {
	a        *Assembler
	kind     kind
	start    regbus.Addr
	n        int
	target   []uint16
	finisher Finisher
	words    []word
}

type Assembler struct {
	bus     *regbus.Bus
	cfg     Config
	buf     []uint16
	entries []entry
	count   int

	reading *entry
	rnext   int
	writing *entry
	wnext   int
}

// New returns an assembler of the given bus. Zero fields of cfg take their
// default; a MaxLength that isn't an even number of at least 4 bytes panics.
func New(bus *regbus.Bus, cfg Config) *Assembler {
	if cfg.MaxLength == 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.MaxCount == 0 {
		cfg.MaxCount = DefaultMaxCount
	}
	if cfg.MaxLength < 4 || cfg.MaxLength%2 != 0 || cfg.MaxCount < 0 {
		panic(fmt.Errorf("span: invalid config %+v", cfg))
	}
	return &Assembler{
		bus:     bus,
		cfg:     cfg,
		buf:     make([]uint16, cfg.MaxLength/2),
		entries: make([]entry, cfg.MaxCount),
	}
}

func (a *Assembler) Config() Config { return a.cfg }

// Len returns the number of registered spans.
func (a *Assembler) Len() int { return a.count }

func (a *Assembler) validate(start regbus.Addr, length int) (int, error) {
	if length < 4 || length%2 != 0 || length > a.cfg.MaxLength {
		return 0, regbus.ErrValidation
	}
	n := length / 2
	if int(start)+n > a.bus.Len() {
		return 0, regbus.ErrRange
	}
	if a.count >= len(a.entries) || a.find(start) != nil {
		return 0, regbus.ErrValidation
	}
	return n, nil
}

func (a *Assembler) find(start regbus.Addr) *entry {
	for i := 0; i < a.count; i++ {
		if a.entries[i].start == start {
			return &a.entries[i]
		}
	}
	return nil
}

func (a *Assembler) add(e entry) *entry {
	p := &a.entries[a.count]
	*p = e
	p.a = a
	a.count++
	if a.cfg.Strict {
		p.words = make([]word, p.n)
		for i := range p.words {
			p.words[i] = word{e: p, i: i}
		}
	}
	return p
}

// RegisterRead redirects registers start .. start+length/2-1 to read the
// first length/2 words of target. Target is copied at each read of start.
func (a *Assembler) RegisterRead(start regbus.Addr, target []uint16, length int) error {
	n, err := a.validate(start, length)
	if err != nil {
		return err
	}
	if len(target) < n {
		return regbus.ErrValidation
	}
	e := a.add(entry{kind: readSpan, start: start, n: n, target: target})
	if a.cfg.Strict {
		for i := range e.words {
			a.bus.RedirectReadFunction(start+regbus.Addr(i), &e.words[i])
		}
		return nil
	}
	a.bus.RedirectReadFunction(start, e)
	for i := 1; i < n; i++ {
		a.bus.RedirectReadPointer(start+regbus.Addr(i), &a.buf[i])
	}
	return nil
}

// RegisterWrite redirects registers start .. start+length/2-1 to assemble a
// value of length bytes and pass it to f once the last register is written.
func (a *Assembler) RegisterWrite(start regbus.Addr, length int, f Finisher) error {
	n, err := a.validate(start, length)
	if err != nil {
		return err
	}
	if ff, ok := f.(FinisherFunc); f == nil || ok && ff == nil {
		return regbus.ErrNullTarget
	}
	e := a.add(entry{kind: writeSpan, start: start, n: n, finisher: f})
	if a.cfg.Strict {
		for i := range e.words {
			a.bus.RedirectWriteFunction(start+regbus.Addr(i), &e.words[i])
		}
		return nil
	}
	for i := 0; i < n-1; i++ {
		a.bus.RedirectWritePointer(start+regbus.Addr(i), &a.buf[i])
	}
	a.bus.RedirectWriteFunction(start+regbus.Addr(n-1), e)
	return nil
}

// ReadRegister prepares the buffer and returns word 0 of a read span.
func (e *entry) ReadRegister(regbus.Addr) uint16 {
	copy(e.a.buf[1:e.n], e.target[1:e.n])
	return e.target[0]
}

// WriteRegister stores the last word of a write span and finishes it.
func (e *entry) WriteRegister(_ regbus.Addr, v uint16) {
	buf := e.a.buf[:e.n]
	buf[e.n-1] = v
	e.finisher.FinishSpan(e.start, buf)
}
