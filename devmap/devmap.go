// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package devmap loads a device register map from an HCL file, e.g.
//
//	registers = 64
//
//	register "0x10" {
//		name  = "setpoint"
//		write = "normal"
//		bits  = true
//		value = 256
//		publish = true
//	}
//
//	span "uptime" {
//		read   = "0x20"
//		length = 8
//	}
//
//	i2c "0x30" {
//		name    = "temp"
//		bus     = 0
//		address = 72
//		command = 0
//	}
//
//	gpio "0x40" {
//		name = "leds"
//		pins = ["SYS_LED_GREEN", "SYS_LED_RED"]
//	}
//
//	board {
//		bus     = 0
//		address = 85
//	}
//
//	descriptor "0x00" {
//		value = "SN-0001"
//	}
package devmap

import (
	"fmt"
	"io/ioutil"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/platinasystems/regbus"
	"github.com/platinasystems/regbus/descriptor"
	"github.com/platinasystems/regbus/span"
	"github.com/platinasystems/url"
)

type Map struct {
	Registers     int  `hcl:"registers"`
	SpanMaxLength int  `hcl:"span_max_length,optional"`
	SpanMaxCount  int  `hcl:"span_max_count,optional"`
	StrictSpans   bool `hcl:"strict_spans,optional"`

	Register   []*Register   `hcl:"register,block"`
	Span       []*Span       `hcl:"span,block"`
	I2C        []*I2C        `hcl:"i2c,block"`
	GPIO       []*GPIO       `hcl:"gpio,block"`
	Board      []*Board      `hcl:"board,block"`
	Descriptor []*Descriptor `hcl:"descriptor,block"`

	byName map[string]regbus.Addr
	byAddr map[regbus.Addr]string
}

// Register is a register backed by bus storage.
type Register struct {
	Label   string `hcl:"addr,label"`
	Name    string `hcl:"name,optional"`
	Read    string `hcl:"read,optional"`
	Write   string `hcl:"write,optional"`
	Bits    bool   `hcl:"bits,optional"`
	Value   int    `hcl:"value,optional"`
	Publish bool   `hcl:"publish,optional"`

	Addr regbus.Addr
}

// Span is a wide value kept by the map, readable and or writable through
// spans of registers.
type Span struct {
	Name    string `hcl:"name,label"`
	ReadAt  string `hcl:"read,optional"`
	WriteAt string `hcl:"write,optional"`
	Length  int    `hcl:"length"`
	Publish bool   `hcl:"publish,optional"`

	Read, Write regbus.Addr
	Readable    bool
	Writable    bool
	Words       []uint16
}

// I2C is a register backed by an SMBus device command.
type I2C struct {
	Label    string `hcl:"addr,label"`
	Name     string `hcl:"name,optional"`
	Bus      int    `hcl:"bus"`
	Address  int    `hcl:"address"`
	Command  int    `hcl:"command"`
	Byte     bool   `hcl:"byte,optional"`
	Writable bool   `hcl:"writable,optional"`

	Addr regbus.Addr
}

// GPIO is a register whose bits are the named pins, bit 0 first.
type GPIO struct {
	Label string   `hcl:"addr,label"`
	Name  string   `hcl:"name,optional"`
	Pins  []string `hcl:"pins"`

	Addr regbus.Addr
}

// Board is an identity EEPROM.
type Board struct {
	Bus     int `hcl:"bus"`
	Address int `hcl:"address"`
}

type Descriptor struct {
	Label string `hcl:"tag,label"`
	Value string `hcl:"value"`

	Entry descriptor.Entry
}

// Load parses the map read from the named file or url.
func Load(fn string) (*Map, error) {
	f, err := url.Open(fn)
	if err != nil {
		return nil, err
	}
	b, err := ioutil.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}
	return Parse(b, fn)
}

// Parse decodes and validates map source; fn names the source in errors.
func Parse(src []byte, fn string) (*Map, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, fn)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: parse: %w", fn, diags)
	}
	m := new(Map)
	if diags = gohcl.DecodeBody(f.Body, nil, m); diags.HasErrors() {
		return nil, fmt.Errorf("%s: decode: %w", fn, diags)
	}
	if err := m.resolve(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return m, nil
}

// ParseAddr parses a decimal, 0x hex, or 0 octal register address.
func ParseAddr(s string) (regbus.Addr, error) {
	u, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("address %q: %w", s, err)
	}
	return regbus.Addr(u), nil
}

func (m *Map) resolve() error {
	var result *multierror.Error
	fail := func(format string, args ...interface{}) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}
	if m.Registers <= 0 || m.Registers > regbus.MaxRegisters {
		return fmt.Errorf("registers: %d out of range", m.Registers)
	}
	m.byName = make(map[string]regbus.Addr)
	m.byAddr = make(map[regbus.Addr]string)
	claim := func(label, name string, n int) (regbus.Addr, bool) {
		addr, err := ParseAddr(label)
		if err != nil {
			fail("%w", err)
			return 0, false
		}
		if int(addr)+n > m.Registers {
			fail("%s: %w", label, regbus.ErrRange)
			return 0, false
		}
		if len(name) == 0 {
			name = fmt.Sprintf("%#x", addr)
		}
		if _, found := m.byName[name]; found {
			fail("%s: duplicate name %q", label, name)
			return 0, false
		}
		for i := 0; i < n; i++ {
			a := addr + regbus.Addr(i)
			if other, found := m.byAddr[a]; found {
				fail("%s: %#x already used by %s", label, a, other)
				return 0, false
			}
		}
		for i := 0; i < n; i++ {
			a := addr + regbus.Addr(i)
			s := name
			if i > 0 {
				s = fmt.Sprint(name, "+", i)
			}
			m.byAddr[a] = s
			m.byName[s] = a
		}
		return addr, true
	}
	for _, r := range m.Register {
		r.Addr, _ = claim(r.Label, r.Name, 1)
		if r.Value < 0 || r.Value > 0xffff {
			fail("%s: value %d out of range", r.Label, r.Value)
		}
		if _, err := r.AccessType(); err != nil {
			fail("%s: %w", r.Label, err)
		}
	}
	for _, s := range m.Span {
		if s.Length < 4 || s.Length%2 != 0 {
			fail("span %s: length %d: %w", s.Name, s.Length,
				regbus.ErrValidation)
			continue
		}
		if len(s.ReadAt) == 0 && len(s.WriteAt) == 0 {
			fail("span %s: neither read nor write", s.Name)
			continue
		}
		n := s.Length / 2
		s.Words = make([]uint16, n)
		if len(s.ReadAt) > 0 {
			s.Read, s.Readable = claim(s.ReadAt, s.Name, n)
		}
		if len(s.WriteAt) > 0 {
			name := s.Name
			if s.Readable {
				name += ".write"
			}
			s.Write, s.Writable = claim(s.WriteAt, name, n)
		}
	}
	for _, x := range m.I2C {
		x.Addr, _ = claim(x.Label, x.Name, 1)
		if x.Command < 0 || x.Command > 0xff {
			fail("%s: command %#x out of range", x.Label, x.Command)
		}
	}
	for _, g := range m.GPIO {
		g.Addr, _ = claim(g.Label, g.Name, 1)
		if len(g.Pins) > 16 {
			fail("%s: %d pins exceed a register", g.Label,
				len(g.Pins))
		}
	}
	for _, d := range m.Descriptor {
		tag, err := strconv.ParseUint(d.Label, 0, 8)
		if err != nil {
			fail("descriptor %q: %w", d.Label, err)
			continue
		}
		d.Entry.Tag = descriptor.Tag(tag)
		d.Entry.Value = []byte(d.Value)
	}
	return result.ErrorOrNil()
}

// AccessType returns the read and write modes of the register; read
// defaults to normal and write to read-only.
func (r *Register) AccessType() (regbus.AccessType, error) {
	var at regbus.AccessType
	switch r.Read {
	case "", "normal":
		at |= regbus.ReadNormal
	case "none":
	default:
		return 0, fmt.Errorf("read %q: %w", r.Read, regbus.ErrAccess)
	}
	switch r.Write {
	case "", "ro":
	case "normal":
		at |= regbus.WriteNormal
	default:
		return 0, fmt.Errorf("write %q: %w", r.Write, regbus.ErrAccess)
	}
	if r.Bits {
		at |= regbus.BitWrite
	}
	return at, nil
}

// Lookup returns the address of a named register, span, or span word.
func (m *Map) Lookup(name string) (regbus.Addr, bool) {
	addr, found := m.byName[name]
	return addr, found
}

// Name returns the name of a mapped register, or "" if unmapped.
func (m *Map) Name(addr regbus.Addr) string {
	return m.byAddr[addr]
}

// Names returns the register names in address order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.byAddr))
	for a := 0; a < m.Registers; a++ {
		if name, found := m.byAddr[regbus.Addr(a)]; found {
			names = append(names, name)
		}
	}
	return names
}

// New returns a bus configured with the map's storage registers.
func (m *Map) New(opts ...regbus.Option) (*regbus.Bus, error) {
	b := regbus.New(m.Registers, opts...)
	return b, m.Apply(b)
}

// Apply configures the storage registers of the map on the bus.
func (m *Map) Apply(b *regbus.Bus) error {
	var result *multierror.Error
	for _, r := range m.Register {
		at, _ := r.AccessType()
		if err := r.apply(b, at); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("register %s: %w", r.Label, err))
		}
	}
	return result.ErrorOrNil()
}

func (r *Register) apply(b *regbus.Bus, at regbus.AccessType) error {
	if err := b.Store(r.Addr, uint16(r.Value)); err != nil {
		return err
	}
	var err error
	if at.ReadMode() == regbus.ReadNormal {
		err = b.EnableRead(r.Addr)
	} else {
		err = b.DisableRead(r.Addr)
	}
	if err != nil {
		return err
	}
	if at.WriteMode() == regbus.WriteNormal {
		err = b.EnableWrite(r.Addr)
	} else {
		err = b.DisableWrite(r.Addr)
	}
	if err != nil {
		return err
	}
	if at&regbus.BitWrite != 0 {
		return b.EnableBitWrite(r.Addr)
	}
	return nil
}

// SpanConfig returns the span assembler configuration of the map.
func (m *Map) SpanConfig() span.Config {
	return span.Config{
		MaxLength: m.SpanMaxLength,
		MaxCount:  m.SpanMaxCount,
		Strict:    m.StrictSpans,
	}
}

// ApplySpans registers the map's spans. Written spans are stored in the
// span's Words, then passed to fn if not nil.
func (m *Map) ApplySpans(a *span.Assembler, fn func(*Span)) error {
	var result *multierror.Error
	for _, s := range m.Span {
		s := s
		if s.Readable {
			if err := a.RegisterRead(s.Read, s.Words, s.Length); err != nil {
				result = multierror.Append(result,
					fmt.Errorf("span %s read: %w", s.Name, err))
			}
		}
		if s.Writable {
			err := a.RegisterWrite(s.Write, s.Length,
				span.FinisherFunc(func(_ regbus.Addr, w []uint16) {
					copy(s.Words, w)
					if fn != nil {
						fn(s)
					}
				}))
			if err != nil {
				result = multierror.Append(result,
					fmt.Errorf("span %s write: %w", s.Name, err))
			}
		}
	}
	return result.ErrorOrNil()
}

// InstallDescriptors installs the map's descriptor entries.
func (m *Map) InstallDescriptors(r *descriptor.Registry) {
	for _, d := range m.Descriptor {
		r.Install(&d.Entry)
	}
}

// Boards returns the map's identity EEPROMs.
func (m *Map) Boards() []*descriptor.Board {
	boards := make([]*descriptor.Board, 0, len(m.Board))
	for _, b := range m.Board {
		boards = append(boards, &descriptor.Board{
			BusIndex:   b.Bus,
			BusAddress: b.Address,
		})
	}
	return boards
}
