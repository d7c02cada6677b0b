// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbusd

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/platinasystems/log"
	"github.com/platinasystems/regbus"
	"github.com/platinasystems/regbus/descriptor"
	"github.com/platinasystems/regbus/devmap"
	"github.com/platinasystems/regbus/internal/gpioreg"
	"github.com/platinasystems/regbus/internal/i2creg"
	"github.com/platinasystems/regbus/internal/publish"
	"github.com/platinasystems/regbus/redisd"
	"github.com/platinasystems/regbus/span"
)

// Bus is a register bus assembled from a device map.
type Bus struct {
	sync.Mutex

	Map         *devmap.Map
	Bus         *regbus.Bus
	Descriptors descriptor.Registry
	Spans       *span.Assembler
	Poller      i2creg.Poller
	GPIO        []*gpioreg.Register
	Writes      publish.Writes
	Redisd      redisd.Redisd
}

// NewBus configures a bus with the storage, span, i2c, and gpio registers
// of the map. Registers and spans marked for publishing print their writes
// to pub, if not nil. Board EEPROM failures are logged, not returned.
func NewBus(m *devmap.Map, pub publish.Printer, interval time.Duration) (*Bus, error) {
	var result *multierror.Error
	b := &Bus{Map: m}
	bus, err := m.New(regbus.WithDescriptors(&b.Descriptors))
	if err != nil {
		return nil, err
	}
	b.Bus = bus
	m.InstallDescriptors(&b.Descriptors)
	if err = descriptor.LoadBoards(&b.Descriptors, m.Boards()...); err != nil {
		log.Print("daemon", "warning", err)
	}

	b.Writes.Bus = bus
	b.Writes.Pub = pub
	b.Spans = span.New(bus, m.SpanConfig())
	err = m.ApplySpans(b.Spans, func(s *devmap.Span) {
		if s.Publish {
			b.Writes.Print(s.Name, ": ", span.Format(s.Words))
		}
	})
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, r := range m.Register {
		if r.Publish {
			if err = b.Writes.Watch(r.Addr, m.Name(r.Addr)); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	b.Poller.Interval = interval
	b.Poller.Mutex = &b.Mutex
	for _, x := range m.I2C {
		b.Poller.Registers = append(b.Poller.Registers, &i2creg.Register{
			Addr:     x.Addr,
			Name:     m.Name(x.Addr),
			Bus:      x.Bus,
			Address:  x.Address,
			Command:  uint8(x.Command),
			Byte:     x.Byte,
			Writable: x.Writable,
		})
	}
	if err = b.Poller.Attach(bus); err != nil {
		result = multierror.Append(result, err)
	}
	for _, x := range m.GPIO {
		r := &gpioreg.Register{
			Addr: x.Addr,
			Name: m.Name(x.Addr),
			Pins: x.Pins,
		}
		if err = r.Attach(bus); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		b.GPIO = append(b.GPIO, r)
	}

	b.Redisd.Bus = bus
	b.Redisd.Names = m
	b.Redisd.Mutex = &b.Mutex
	b.Redisd.Key = redisd.DefaultKey
	return b, result.ErrorOrNil()
}

// Refresh samples the gpio registers.
func (b *Bus) Refresh() {
	b.Lock()
	defer b.Unlock()
	for _, r := range b.GPIO {
		if err := r.Refresh(); err != nil {
			log.Print("daemon", "err", r.Name, ": ", err)
		}
	}
}

// PublishDescriptors prints each descriptor as "regbus.descriptor.TAG".
func (b *Bus) PublishDescriptors() {
	buf := make([]byte, descriptor.MaxRead)
	b.Descriptors.Each(func(e *descriptor.Entry) bool {
		n := b.Descriptors.Read(e, buf)
		b.Writes.Print(fmt.Sprintf("regbus.descriptor.%#02x: ", uint8(e.Tag)),
			string(buf[:n]))
		return true
	})
}
