// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbus

func (b *Bus) setRead(addr Addr, mode AccessType) error {
	if !b.valid(addr) {
		return ErrRange
	}
	b.at[addr] = b.at[addr]&^ReadMask | mode
	return nil
}

func (b *Bus) setWrite(addr Addr, mode AccessType) error {
	if !b.valid(addr) {
		return ErrRange
	}
	b.at[addr] = b.at[addr]&^WriteMask | mode
	return nil
}

// EnableRead reads the register from bus storage.
func (b *Bus) EnableRead(addr Addr) error { return b.setRead(addr, ReadNormal) }

func (b *Bus) DisableRead(addr Addr) error { return b.setRead(addr, ReadNone) }

// RedirectReadPointer reads the register from *p. A nil p reads as Invalid.
func (b *Bus) RedirectReadPointer(addr Addr, p *uint16) error {
	if err := b.setRead(addr, ReadPointer); err != nil {
		return err
	}
	b.slots[addr].setRef(p)
	return nil
}

// RedirectReadFunction reads the register from r and disables its write.
func (b *Bus) RedirectReadFunction(addr Addr, r Reader) error {
	if err := b.setRead(addr, ReadFunction); err != nil {
		return err
	}
	if f, ok := r.(ReaderFunc); ok && f == nil {
		r = nil
	}
	b.slots[addr].setReader(r)
	b.at[addr] &^= WriteMask
	return nil
}

// EnableWrite writes the register to bus storage.
func (b *Bus) EnableWrite(addr Addr) error { return b.setWrite(addr, WriteNormal) }

// DisableWrite makes the register read-only.
func (b *Bus) DisableWrite(addr Addr) error { return b.setWrite(addr, WriteReadOnly) }

// RedirectWritePointer writes the register to *p.
func (b *Bus) RedirectWritePointer(addr Addr, p *uint16) error {
	if err := b.setWrite(addr, WritePointer); err != nil {
		return err
	}
	b.slots[addr].setRef(p)
	return nil
}

// RedirectWriteFunction writes the register through w and disables its read.
func (b *Bus) RedirectWriteFunction(addr Addr, w Writer) error {
	if err := b.setWrite(addr, WriteFunction); err != nil {
		return err
	}
	if f, ok := w.(WriterFunc); ok && f == nil {
		w = nil
	}
	b.slots[addr].setWriter(w)
	b.at[addr] &^= ReadMask
	return nil
}

// RedirectPointer reads and writes the register through *p.
func (b *Bus) RedirectPointer(addr Addr, p *uint16) error {
	if !b.valid(addr) {
		return ErrRange
	}
	b.at[addr] = b.at[addr]&^(ReadMask|WriteMask) | ReadPointer | WritePointer
	b.slots[addr].setRef(p)
	return nil
}

func (b *Bus) EnableBitWrite(addr Addr) error {
	if !b.valid(addr) {
		return ErrRange
	}
	b.at[addr] |= BitWrite
	return nil
}

func (b *Bus) DisableBitWrite(addr Addr) error {
	if !b.valid(addr) {
		return ErrRange
	}
	b.at[addr] &^= BitWrite
	return nil
}
