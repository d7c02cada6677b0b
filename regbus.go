// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package regbus provides a virtual register bus, a fixed size map of 16-bit
// registers that protocol responders such as a MODBUS slave read and write
// on behalf of a device application.
//
// Each register is backed by bus storage, by a pointer to application
// storage, or by a callback; the register's AccessType selects which, and
// what writes are allowed. Bits are addressed as (register << 4) | index.
// After a successful write, at most one installed handler is called.
//
// A Bus has no locks. Configure it before use and serialize all access from
// one goroutine or behind one mutex. Callbacks run inside the access call and
// must not block.
package regbus

import (
	"fmt"

	"github.com/platinasystems/regbus/avl"
	"github.com/platinasystems/regbus/descriptor"
)

const Version = "0.2.0"

type Addr uint16

type BitAddr uint32

// Bit returns the address of bit i of register addr.
func Bit(addr Addr, i uint) BitAddr {
	return BitAddr(addr)<<4 | BitAddr(i&15)
}

// Split returns the register and mask of a bit address.
func (b BitAddr) Split() (Addr, uint16) {
	return Addr(b >> 4), 1 << (b & 15)
}

// Invalid is read from registers that are absent, unreadable or unbacked.
const Invalid uint16 = 0xFFFF

// MaxRegisters is the most registers addressable by a Bus.
const MaxRegisters = 1 << 16

// ExceptionStatus request flags.
const (
	KeepAliveRequest uint8 = 0x01
	TimeSyncRequest  uint8 = 0x02
)

type Reader interface {
	ReadRegister(Addr) uint16
}

type ReaderFunc func(Addr) uint16

func (f ReaderFunc) ReadRegister(addr Addr) uint16 { return f(addr) }

type Writer interface {
	WriteRegister(Addr, uint16)
}

type WriterFunc func(Addr, uint16)

func (f WriterFunc) WriteRegister(addr Addr, v uint16) { f(addr, v) }

type Bus struct {
	slots []slot
	at    []AccessType

	registerHandlers avl.Tree
	bitHandlers      avl.Tree

	descriptors *descriptor.Registry
	version     descriptor.Entry

	// Diagnostic and ExceptionStatus are carried for the protocol layer;
	// the bus itself never reads them.
	Diagnostic      uint16
	ExceptionStatus uint8
}

type Option func(*Bus)

// WithDescriptors publishes the library version in the given registry at
// each Init.
func WithDescriptors(r *descriptor.Registry) Option {
	return func(b *Bus) {
		b.descriptors = r
	}
}

// New returns an initialized bus of n registers.
func New(n int, opts ...Option) *Bus {
	if n <= 0 || n > MaxRegisters {
		panic(fmt.Errorf("regbus: %d registers out of range", n))
	}
	b := &Bus{
		slots: make([]slot, n),
		at:    make([]AccessType, n),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Init()
	return b
}

// Init zeroes all registers and access types and forgets all handlers.
func (b *Bus) Init() {
	for i := range b.slots {
		b.slots[i] = slot{}
		b.at[i] = 0
	}
	b.registerHandlers.Reset()
	b.bitHandlers.Reset()
	b.Diagnostic = 0
	b.ExceptionStatus = 0
	if b.descriptors != nil {
		b.version.Tag = descriptor.LibVersion
		b.version.Value = []byte(Version)
		b.descriptors.Install(&b.version)
	}
}

// Len returns the number of registers.
func (b *Bus) Len() int { return len(b.slots) }

// Bits returns the number of bit addresses.
func (b *Bus) Bits() int { return 16 * len(b.slots) }

func (b *Bus) valid(addr Addr) bool { return int(addr) < len(b.slots) }

// AccessType returns the access configuration of a register.
func (b *Bus) AccessType(addr Addr) (AccessType, error) {
	if !b.valid(addr) {
		return 0, ErrRange
	}
	return b.at[addr], nil
}

// Store sets the bus storage of a register, replacing any pointer or callback,
// regardless of its access type and without running handlers.
func (b *Bus) Store(addr Addr, v uint16) error {
	if !b.valid(addr) {
		return ErrRange
	}
	b.slots[addr].setValue(v)
	return nil
}

// Load returns the bus storage of a register regardless of its access type.
// Registers backed by a pointer or callback load as Invalid.
func (b *Bus) Load(addr Addr) uint16 {
	if !b.valid(addr) {
		return Invalid
	}
	if v, ok := b.slots[addr].immediate(); ok {
		return v
	}
	return Invalid
}
