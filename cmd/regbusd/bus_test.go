// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbusd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
	"github.com/platinasystems/regbus"
	"github.com/platinasystems/regbus/devmap"
	"github.com/platinasystems/regbus/internal/test"
)

const src = `
registers = 32

register "0" {
  name    = "setpoint"
  write   = "normal"
  bits    = true
  publish = true
}

span "counter" {
  write   = "0x10"
  length  = 4
  publish = true
}

i2c "0x20" {
  name     = "fan"
  bus      = 1
  address  = 47
  command  = 3
  writable = true
}

descriptor "0" {
  value = "SN-42"
}
`

type lines []string

func (p *lines) Print(args ...interface{}) (int, error) {
	s := fmt.Sprint(args...)
	*p = append(*p, s)
	return len(s), nil
}

func (p lines) has(s string) bool {
	for _, l := range p {
		if l == s {
			return true
		}
	}
	return false
}

func setup(t *testing.T) (*Bus, *lines) {
	m, err := devmap.Parse([]byte(src), "test.hcl")
	test.Assert{TB: t}.Nil(err)
	pub := new(lines)
	b, err := NewBus(m, pub, 0)
	test.Assert{TB: t}.Nil(err)
	return b, pub
}

func TestNewBus(t *testing.T) {
	assert := test.Assert{TB: t}
	b, pub := setup(t)
	assert.True(len(b.Poller.Registers) == 1)
	assert.True(b.Spans.Len() == 1)

	_, err := b.Redisd.Hset("regbus", "setpoint", []byte("0x42"))
	assert.Nil(err)
	_, err = b.Redisd.Hset("regbus", "setpoint.15", []byte("1"))
	assert.Nil(err)
	_, err = b.Redisd.Hset("regbus", "counter", []byte("0x5678"))
	assert.Nil(err)
	_, err = b.Redisd.Hset("regbus", "counter+1", []byte("0x1234"))
	assert.Nil(err)
	assert.True(pub.has("setpoint: 0x0042"))
	assert.True(pub.has("setpoint.15: true"))
	assert.True(pub.has("counter: 0x12345678"))

	_, err = b.Redisd.Hset("regbus", "fan", []byte("9"))
	assert.Nil(err)
	v, err := b.Redisd.Hget("regbus", "fan")
	assert.Nil(err)
	assert.Equal(string(v), "0x0009")

	b.PublishDescriptors()
	assert.True(pub.has("regbus.descriptor.0x00: SN-42"))
	assert.True(pub.has("regbus.descriptor.0x01: " + regbus.Version))
}

func TestInfoHset(t *testing.T) {
	assert := test.Assert{TB: t}
	var i Info
	var r reply.Hset
	assert.Error(i.Hset(args.Hset{Key: "platina", Field: "regbus.setpoint",
		Value: []byte("1")}, &r), "regbus.setpoint: not ready")
	i.bus, _ = setup(t)
	assert.Nil(i.Hset(args.Hset{Key: "platina", Field: "regbus.setpoint",
		Value: []byte("7")}, &r))
	assert.True(r == 1)
	assert.Word(i.bus.Bus.GetRegister(0), 7)
	err := i.Hset(args.Hset{Key: "platina", Field: "fan.speed",
		Value: []byte("7")}, &r)
	assert.True(err != nil && strings.HasPrefix(err.Error(), "cannot hset"))
}

func TestPollFlag(t *testing.T) {
	assert := test.Assert{TB: t}
	assert.Error(new(Command).Main("-poll", "0s"),
		"-poll 0s: must be positive")
	assert.True(new(Command).Main("-poll", "often") != nil)
}
