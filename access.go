// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbus

// GetRegister returns the register value, or Invalid if the address is out
// of range, the register isn't readable, or its backing is absent.
func (b *Bus) GetRegister(addr Addr) uint16 {
	if !b.valid(addr) {
		return Invalid
	}
	s := &b.slots[addr]
	switch b.at[addr].ReadMode() {
	case ReadNormal:
		if v, ok := s.immediate(); ok {
			return v
		}
	case ReadPointer:
		if p := s.reference(); p != nil {
			return *p
		}
	case ReadFunction:
		if r := s.readFunc(); r != nil {
			return r.ReadRegister(addr)
		}
	}
	return Invalid
}

// SetRegister writes the register according to its write mode then runs its
// write handler.
func (b *Bus) SetRegister(addr Addr, v uint16) error {
	if !b.valid(addr) {
		return ErrRange
	}
	s := &b.slots[addr]
	switch b.at[addr].WriteMode() {
	case WriteNormal:
		s.setValue(v)
	case WritePointer:
		p := s.reference()
		if p == nil {
			return ErrNullTarget
		}
		*p = v
	case WriteFunction:
		w := s.writeFunc()
		if w == nil {
			return ErrNullTarget
		}
		w.WriteRegister(addr, v)
	default:
		return ErrAccess
	}
	b.dispatch(addr, 0, false)
	return nil
}

func (b *Bus) bit(addrb BitAddr) (Addr, uint16, error) {
	if uint64(addrb) >= uint64(b.Bits()) {
		return 0, 0, ErrRange
	}
	addr, mask := addrb.Split()
	return addr, mask, nil
}

// GetBit returns the state of a bit in a normal or pointer read register.
func (b *Bus) GetBit(addrb BitAddr) (bool, error) {
	addr, mask, err := b.bit(addrb)
	if err != nil {
		return false, err
	}
	s := &b.slots[addr]
	switch b.at[addr].ReadMode() {
	case ReadNormal:
		v, ok := s.immediate()
		if !ok {
			return false, ErrNullTarget
		}
		return v&mask != 0, nil
	case ReadPointer:
		p := s.reference()
		if p == nil {
			return false, ErrNullTarget
		}
		return *p&mask != 0, nil
	}
	return false, ErrAccess
}

func (b *Bus) SetBit(addrb BitAddr) error { return b.writeBit(addrb, true) }

func (b *Bus) ClearBit(addrb BitAddr) error { return b.writeBit(addrb, false) }

// WriteBit sets or clears a bit.
func (b *Bus) WriteBit(addrb BitAddr, set bool) error {
	return b.writeBit(addrb, set)
}

func (b *Bus) writeBit(addrb BitAddr, set bool) error {
	addr, mask, err := b.bit(addrb)
	if err != nil {
		return err
	}
	at := b.at[addr]
	if at&BitWrite == 0 {
		return ErrAccess
	}
	s := &b.slots[addr]
	var w *uint16
	switch at.WriteMode() {
	case WriteNormal:
		if _, ok := s.immediate(); !ok {
			s.setValue(0)
		}
		w = &s.value
	case WritePointer:
		if w = s.reference(); w == nil {
			return ErrNullTarget
		}
	default:
		return ErrInvalidMode
	}
	if set {
		*w |= mask
	} else {
		*w &^= mask
	}
	b.dispatch(addr, mask, true)
	return nil
}
