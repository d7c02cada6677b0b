// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbus

import "github.com/platinasystems/regbus/avl"

// WriteHandler is called after a successful write of a register.
type WriteHandler interface {
	RegisterWritten(Addr)
}

type WriteHandlerFunc func(Addr)

func (f WriteHandlerFunc) RegisterWritten(addr Addr) { f(addr) }

// BitHandler is called after a successful bit write with the register and
// the mask of the written bit.
type BitHandler interface {
	BitWritten(addr Addr, mask uint16)
}

type BitHandlerFunc func(Addr, uint16)

func (f BitHandlerFunc) BitWritten(addr Addr, mask uint16) { f(addr, mask) }

// HandlerEntry is the caller owned storage of an installed handler. It must
// remain valid, and not be installed again elsewhere, while the bus is in
// use.
type HandlerEntry struct {
	node avl.Node
}

// InstallWriteHandler sets the register write handler flag of addr and
// links the entry with handler h, replacing any previous one. A nil h
// installs an inert entry.
func (b *Bus) InstallWriteHandler(addr Addr, e *HandlerEntry, h WriteHandler) error {
	if !b.valid(addr) {
		return ErrRange
	}
	if e == nil {
		return ErrNullTarget
	}
	if f, ok := h.(WriteHandlerFunc); ok && f == nil {
		h = nil
	}
	e.node.Key = uint32(addr)
	e.node.Value = h
	b.registerHandlers.Insert(&e.node)
	b.at[addr] |= RegisterWriteHandler
	return nil
}

// InstallBitHandler is like InstallWriteHandler for bit writes. Once
// installed, bit writes of addr no longer reach its register write handler.
func (b *Bus) InstallBitHandler(addr Addr, e *HandlerEntry, h BitHandler) error {
	if !b.valid(addr) {
		return ErrRange
	}
	if e == nil {
		return ErrNullTarget
	}
	if f, ok := h.(BitHandlerFunc); ok && f == nil {
		h = nil
	}
	e.node.Key = uint32(addr)
	e.node.Value = h
	b.bitHandlers.Insert(&e.node)
	b.at[addr] |= BitWriteHandler
	return nil
}

func (b *Bus) dispatch(addr Addr, mask uint16, bit bool) {
	at := b.at[addr]
	if bit && at&BitWriteHandler != 0 {
		if n := b.bitHandlers.Find(uint32(addr)); n != nil {
			if h, ok := n.Value.(BitHandler); ok && h != nil {
				h.BitWritten(addr, mask)
			}
		}
		return
	}
	if at&RegisterWriteHandler != 0 {
		if n := b.registerHandlers.Find(uint32(addr)); n != nil {
			if h, ok := n.Value.(WriteHandler); ok && h != nil {
				h.RegisterWritten(addr)
			}
		}
	}
}
