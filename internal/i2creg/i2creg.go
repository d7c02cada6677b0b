// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package i2creg backs bus registers with SMBus device commands.
//
// Device access is too slow for a bus callback, so each register reads and
// writes a cached word. A poller refreshes the cache from the device and
// flushes written words to it outside of bus access.
package i2creg

import (
	"fmt"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/i2c"
	"github.com/platinasystems/log"
	"github.com/platinasystems/regbus"
)

const DefaultInterval = time.Second

// SMBus performs a single command transfer.
type SMBus interface {
	Read(bus, addr int, cmd uint8, byteData bool) (uint16, error)
	Write(bus, addr int, cmd uint8, byteData bool, v uint16) error
}

type Register struct {
	Addr     regbus.Addr
	Name     string
	Bus      int
	Address  int
	Command  uint8
	Byte     bool
	Writable bool

	value uint16
	dirty bool
	entry regbus.HandlerEntry
}

// RegisterWritten marks the cached word for the next flush.
func (r *Register) RegisterWritten(regbus.Addr) { r.dirty = true }

func (r *Register) String() string {
	return fmt.Sprintf("%s i2c %d.%#x[%#x]", r.Name, r.Bus, r.Address,
		r.Command)
}

type Poller struct {
	Registers []*Register
	// Interval between polls, default: DefaultInterval
	Interval time.Duration
	// Mutex serializes bus access with the other bus users.
	Mutex sync.Locker
	SMBus SMBus

	backoff backoff.Backoff
	log     *log.RateLimited
}

// Attach points each register at its cached word; writable registers also
// accept bit writes.
func (p *Poller) Attach(b *regbus.Bus) error {
	for _, r := range p.Registers {
		err := b.RedirectPointer(r.Addr, &r.value)
		if err == nil && !r.Writable {
			err = b.DisableWrite(r.Addr)
		}
		if err == nil && r.Writable {
			err = b.EnableBitWrite(r.Addr)
		}
		if err == nil && r.Writable {
			err = b.InstallWriteHandler(r.Addr, &r.entry, r)
		}
		if err != nil {
			return fmt.Errorf("%v: %w", r, err)
		}
	}
	if p.SMBus == nil {
		p.SMBus = Bus{}
	}
	if p.Mutex == nil {
		p.Mutex = new(sync.Mutex)
	}
	if p.Interval <= 0 {
		p.Interval = DefaultInterval
	}
	p.backoff = backoff.Backoff{
		Min:    p.Interval,
		Max:    32 * p.Interval,
		Factor: 2,
		Jitter: true,
	}
	return nil
}

type pending struct {
	r      *Register
	v      uint16
	write  bool
	failed bool
}

// Poll flushes written registers then refreshes the rest. It returns the
// number of failed transfers.
func (p *Poller) Poll() (failed int) {
	todo := make([]pending, len(p.Registers))
	p.Mutex.Lock()
	for i, r := range p.Registers {
		todo[i] = pending{r: r, v: r.value, write: r.dirty}
		r.dirty = false
	}
	p.Mutex.Unlock()

	for i := range todo {
		x := &todo[i]
		var err error
		if x.write {
			err = p.SMBus.Write(x.r.Bus, x.r.Address, x.r.Command,
				x.r.Byte, x.v)
		} else {
			x.v, err = p.SMBus.Read(x.r.Bus, x.r.Address,
				x.r.Command, x.r.Byte)
		}
		if err != nil {
			failed++
			p.logf("%v: %v", x.r, err)
			x.failed = true
		}
	}

	p.Mutex.Lock()
	defer p.Mutex.Unlock()
	for _, x := range todo {
		switch {
		case x.failed && x.write:
			x.r.dirty = true
		case x.failed, x.write, x.r.dirty:
			// keep the cached word; dirty if rewritten during transfer
		default:
			x.r.value = x.v
		}
	}
	return
}

func (p *Poller) logf(format string, args ...interface{}) {
	if p.log != nil {
		p.log.Printf(append([]interface{}{"daemon", "err", format}, args...)...)
	} else {
		log.Printf(append([]interface{}{"daemon", "err", format}, args...)...)
	}
}

// Run polls each interval until stop is closed, backing off while
// transfers fail.
func (p *Poller) Run(stop <-chan struct{}) {
	p.log = log.NewRateLimited(10, time.Minute)
	defer p.log.Close()
	t := time.NewTimer(p.Interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}
		d := p.Interval
		if p.Poll() > 0 {
			d = p.backoff.Duration()
		} else {
			p.backoff.Reset()
		}
		t.Reset(d)
	}
}

// Bus is the SMBus of the host i2c adapters.
type Bus struct{}

func (Bus) do(bus, addr int, rw i2c.RW, cmd uint8, size i2c.SMBusSize,
	data *i2c.SMBusData) error {
	var b i2c.Bus
	i2c.Lock.Lock()
	defer i2c.Lock.Unlock()
	if err := b.Open(bus); err != nil {
		return err
	}
	defer b.Close()
	if err := b.ForceSlaveAddress(addr); err != nil {
		return err
	}
	return b.Do(rw, cmd, size, data)
}

func size(byteData bool) i2c.SMBusSize {
	if byteData {
		return i2c.ByteData
	}
	return i2c.WordData
}

func (b Bus) Read(bus, addr int, cmd uint8, byteData bool) (uint16, error) {
	var data i2c.SMBusData
	if err := b.do(bus, addr, i2c.Read, cmd, size(byteData), &data); err != nil {
		return 0, err
	}
	if byteData {
		return uint16(data[0]), nil
	}
	return uint16(data[0]) | uint16(data[1])<<8, nil
}

func (b Bus) Write(bus, addr int, cmd uint8, byteData bool, v uint16) error {
	var data i2c.SMBusData
	data[0] = byte(v)
	data[1] = byte(v >> 8)
	return b.do(bus, addr, i2c.Write, cmd, size(byteData), &data)
}
