// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbus

import "strings"

// AccessType is the per register access configuration.
//
//	bits 0-1	read mode
//	bit 2		bit write enable
//	bit 3		bit write handler
//	bits 4-5	write mode
//	bit 6		reserved
//	bit 7		register write handler
type AccessType uint8

const (
	ReadNone     AccessType = 0x00
	ReadNormal   AccessType = 0x01
	ReadPointer  AccessType = 0x02
	ReadFunction AccessType = 0x03
	ReadMask     AccessType = 0x03

	BitWrite        AccessType = 0x04
	BitWriteHandler AccessType = 0x08

	WriteReadOnly AccessType = 0x00
	WriteNormal   AccessType = 0x10
	WritePointer  AccessType = 0x20
	WriteFunction AccessType = 0x30
	WriteMask     AccessType = 0x30

	// Reserved for pre-write validation; never set by this package.
	WriteValidate AccessType = 0x40

	RegisterWriteHandler AccessType = 0x80
)

func (at AccessType) ReadMode() AccessType  { return at & ReadMask }
func (at AccessType) WriteMode() AccessType { return at & WriteMask }

var modeNames = [4]string{"none", "normal", "pointer", "function"}

// String formats as "r:MODE w:MODE" followed by any set flags.
func (at AccessType) String() string {
	var sb strings.Builder
	sb.WriteString("r:")
	sb.WriteString(modeNames[at&ReadMask])
	sb.WriteString(" w:")
	if wm := at.WriteMode() >> 4; wm == 0 {
		sb.WriteString("ro")
	} else {
		sb.WriteString(modeNames[wm])
	}
	for _, f := range []struct {
		bit  AccessType
		name string
	}{
		{BitWrite, "bit"},
		{BitWriteHandler, "bit-handler"},
		{WriteValidate, "validate"},
		{RegisterWriteHandler, "handler"},
	} {
		if at&f.bit != 0 {
			sb.WriteString(", ")
			sb.WriteString(f.name)
		}
	}
	return sb.String()
}
