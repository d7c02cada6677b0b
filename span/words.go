// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package span

import (
	"fmt"
	"strings"
)

// Wide values are carried low word first.

func PutUint32(w []uint16, v uint32) {
	_ = w[1]
	w[0] = uint16(v)
	w[1] = uint16(v >> 16)
}

func Uint32(w []uint16) uint32 {
	_ = w[1]
	return uint32(w[0]) | uint32(w[1])<<16
}

func PutUint64(w []uint16, v uint64) {
	_ = w[3]
	w[0] = uint16(v)
	w[1] = uint16(v >> 16)
	w[2] = uint16(v >> 32)
	w[3] = uint16(v >> 48)
}

func Uint64(w []uint16) uint64 {
	_ = w[3]
	return uint64(w[0]) | uint64(w[1])<<16 | uint64(w[2])<<32 |
		uint64(w[3])<<48
}

// Format prints words as one hex value, most significant word first.
func Format(w []uint16) string {
	var sb strings.Builder
	sb.WriteString("0x")
	for i := len(w) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%04x", w[i])
	}
	return sb.String()
}
