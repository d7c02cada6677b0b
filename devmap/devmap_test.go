// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package devmap

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/platinasystems/regbus"
	"github.com/platinasystems/regbus/descriptor"
	"github.com/platinasystems/regbus/internal/test"
	"github.com/platinasystems/regbus/span"
)

const example = `
registers = 64
span_max_length = 8

register "0x10" {
  name    = "setpoint"
  write   = "normal"
  bits    = true
  value   = 256
  publish = true
}

register "17" {
  read = "none"
}

span "uptime" {
  read   = "0x20"
  write  = "0x28"
  length = 8
}

i2c "0x30" {
  name    = "temp"
  bus     = 0
  address = 72
  command = 0
}

gpio "0x31" {
  name = "leds"
  pins = ["SYS_LED_GREEN", "SYS_LED_RED"]
}

board {
  bus     = 0
  address = 85
}

descriptor "0x00" {
  value = "SN-0001"
}
`

func TestParse(t *testing.T) {
	assert := test.Assert{TB: t}
	m, err := Parse([]byte(example), "example.hcl")
	assert.Nil(err)
	assert.True(m.Registers == 64)
	want := []string{
		"setpoint", "0x11",
		"uptime", "uptime+1", "uptime+2", "uptime+3",
		"uptime.write", "uptime.write+1", "uptime.write+2",
		"uptime.write+3",
		"temp", "leds",
	}
	if diff := cmp.Diff(want, m.Names()); diff != "" {
		t.Error("names (-want +got):\n", diff)
	}
	addr, found := m.Lookup("temp")
	assert.True(found && addr == 0x30)
	assert.Equal(m.Name(0x22), "uptime+2")
	assert.Equal(m.Name(0), "")
	assert.True(m.I2C[0].Address == 0x48)
	assert.True(len(m.Span[0].Words) == 4)
	boards := m.Boards()
	assert.True(len(boards) == 1 && boards[0].BusAddress == 0x55)
}

func TestLoad(t *testing.T) {
	assert := test.Assert{TB: t}
	fn := filepath.Join(t.TempDir(), "regbus.hcl")
	assert.Nil(ioutil.WriteFile(fn, []byte(example), 0644))
	m, err := Load(fn)
	assert.Nil(err)
	assert.True(m.Registers == 64)
	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.True(err != nil)
}

func TestApply(t *testing.T) {
	assert := test.Assert{TB: t}
	m, err := Parse([]byte(example), "example.hcl")
	assert.Nil(err)
	var r descriptor.Registry
	b, err := m.New(regbus.WithDescriptors(&r))
	assert.Nil(err)

	at, _ := b.AccessType(0x10)
	assert.Equal(at.String(), "r:normal w:normal, bit")
	assert.Word(b.GetRegister(0x10), 256)
	assert.Nil(b.SetBit(regbus.Bit(0x10, 0)))
	assert.Word(b.GetRegister(0x10), 257)

	at, _ = b.AccessType(0x11)
	assert.Equal(at.String(), "r:none w:ro")

	a := span.New(b, m.SpanConfig())
	var finished *Span
	assert.Nil(m.ApplySpans(a, func(s *Span) { finished = s }))
	for i, v := range []uint16{1, 2, 3, 4} {
		assert.Nil(b.SetRegister(0x28+regbus.Addr(i), v))
	}
	assert.True(finished == m.Span[0])
	assert.True(span.Uint64(m.Span[0].Words) == 0x0004000300020001)
	assert.Word(b.GetRegister(0x20), 1)
	assert.Word(b.GetRegister(0x23), 4)

	m.InstallDescriptors(&r)
	buf := make([]byte, 32)
	n := r.Read(r.Find(descriptor.SerialNumber), buf)
	assert.Equal(string(buf[:n]), "SN-0001")
	n = r.Read(r.Find(descriptor.LibVersion), buf)
	assert.Equal(string(buf[:n]), regbus.Version)
}

func TestErrors(t *testing.T) {
	for _, x := range []struct {
		name, src string
		expect    []string
	}{
		{
			"range",
			`registers = 16
			register "0x10" {}`,
			[]string{"0x10: address out of range"},
		},
		{
			"overlap",
			`registers = 16
			register "4" { name = "a" }
			span "b" {
				read = "2"
				length = 8
			}
			i2c "0x4" {
				name = "a"
				bus = 0
				address = 1
				command = 300
			}`,
			[]string{
				"2: 0x4 already used by a",
				"0x4: duplicate name \"a\"",
				"0x4: command 0x12c out of range",
			},
		},
		{
			"values",
			`registers = 16
			register "1" {
				read = "sometimes"
				value = 70000
			}
			span "s" { length = 6 }
			span "t" {
				write = "8"
				length = 5
			}
			descriptor "tag" { value = "" }`,
			[]string{
				"1: value 70000 out of range",
				"1: read \"sometimes\": access denied",
				"span s: neither read nor write",
				"span t: length 5: validation failed",
				"descriptor \"tag\"",
			},
		},
	} {
		_, err := Parse([]byte(x.src), x.name)
		if err == nil {
			t.Error(x.name, ": no error")
			continue
		}
		for _, s := range x.expect {
			if !strings.Contains(err.Error(), s) {
				t.Errorf("%s: %q missing from:\n%v", x.name, s, err)
			}
		}
	}
	if _, err := Parse([]byte("registers = 0"), "zero"); err == nil {
		t.Error("zero registers accepted")
	}
	if _, err := Parse([]byte("register {"), "syntax"); err == nil {
		t.Error("syntax error accepted")
	}
}
