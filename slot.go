// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbus

type slotKind uint8

const (
	slotValue slotKind = iota
	slotRef
	slotReader
	slotWriter
)

// A slot is the backing store of one register. Its kind is always set with
// the payload, and each accessor returns the zero value when asked for a
// payload of another kind.
type slot struct {
	kind   slotKind
	value  uint16
	ref    *uint16
	reader Reader
	writer Writer
}

func (s *slot) setValue(v uint16)  { *s = slot{kind: slotValue, value: v} }
func (s *slot) setRef(p *uint16)   { *s = slot{kind: slotRef, ref: p} }
func (s *slot) setReader(r Reader) { *s = slot{kind: slotReader, reader: r} }
func (s *slot) setWriter(w Writer) { *s = slot{kind: slotWriter, writer: w} }

func (s *slot) immediate() (uint16, bool) {
	return s.value, s.kind == slotValue
}

func (s *slot) reference() *uint16 {
	if s.kind != slotRef {
		return nil
	}
	return s.ref
}

func (s *slot) readFunc() Reader {
	if s.kind != slotReader {
		return nil
	}
	return s.reader
}

func (s *slot) writeFunc() Writer {
	if s.kind != slotWriter {
		return nil
	}
	return s.writer
}
