// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package redisd serves bus registers as the fields of a redis hash.
//
// A field is a register name, an address, or either followed by ".BIT" to
// address a single bit, e.g.
//
//	HGET regbus setpoint
//	HSET regbus 0x10 0x0200
//	HSET regbus setpoint.9 true
package redisd

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	grs "github.com/platinasystems/go-redis-server"
	"github.com/platinasystems/regbus"
)

const DefaultKey = "regbus"

// Namer maps register names and addresses.
type Namer interface {
	Lookup(string) (regbus.Addr, bool)
	Name(regbus.Addr) string
	Names() []string
}

type Redisd struct {
	Bus *regbus.Bus
	// Names is optional; without it, fields are addresses.
	Names Namer
	// Mutex serializes bus access with the other bus users; without it,
	// access is only serialized among the server's clients.
	Mutex sync.Locker
	// Key is the hash name, default: DefaultKey
	Key string

	mutex sync.Mutex
}

type field struct {
	addr regbus.Addr
	bit  int
}

func (redisd *Redisd) key() string {
	if len(redisd.Key) == 0 {
		return DefaultKey
	}
	return redisd.Key
}

func (redisd *Redisd) locker() sync.Locker {
	if redisd.Mutex != nil {
		return redisd.Mutex
	}
	return &redisd.mutex
}

// access runs fn with the bus locked. A panic from a register callback, such
// as a strict span out of order, is returned as the error.
func (redisd *Redisd) access(fn func() error) (err error) {
	l := redisd.locker()
	l.Lock()
	defer l.Unlock()
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	return fn()
}

func (redisd *Redisd) check(key string) error {
	if key != redisd.key() {
		return fmt.Errorf("%s: not found", key)
	}
	return nil
}

func (redisd *Redisd) lookup(s string) (regbus.Addr, bool) {
	if redisd.Names != nil {
		if addr, found := redisd.Names.Lookup(s); found {
			return addr, true
		}
	}
	u, err := strconv.ParseUint(s, 0, 16)
	if err != nil || int(u) >= redisd.Bus.Len() {
		return 0, false
	}
	return regbus.Addr(u), true
}

func (redisd *Redisd) parse(s string) (field, error) {
	if addr, found := redisd.lookup(s); found {
		return field{addr, -1}, nil
	}
	if dot := strings.LastIndex(s, "."); dot > 0 {
		i, err := strconv.Atoi(s[dot+1:])
		if err == nil && i >= 0 && i < 16 {
			if addr, found := redisd.lookup(s[:dot]); found {
				return field{addr, i}, nil
			}
		}
	}
	return field{}, fmt.Errorf("%s: not found", s)
}

func (redisd *Redisd) name(addr regbus.Addr) string {
	if redisd.Names != nil {
		if s := redisd.Names.Name(addr); len(s) > 0 {
			return s
		}
	}
	return fmt.Sprintf("%#x", uint16(addr))
}

func (redisd *Redisd) names() []string {
	if redisd.Names != nil {
		return redisd.Names.Names()
	}
	names := make([]string, redisd.Bus.Len())
	for i := range names {
		names[i] = redisd.name(regbus.Addr(i))
	}
	return names
}

// get returns the formatted field; the caller must hold the lock.
func (redisd *Redisd) get(f field) (string, error) {
	if f.bit >= 0 {
		t, err := redisd.Bus.GetBit(regbus.Bit(f.addr, uint(f.bit)))
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(t), nil
	}
	at, err := redisd.Bus.AccessType(f.addr)
	if err != nil {
		return "", err
	}
	if at.ReadMode() == regbus.ReadNone {
		return "", regbus.ErrAccess
	}
	return fmt.Sprintf("%#04x", redisd.Bus.GetRegister(f.addr)), nil
}

func (redisd *Redisd) set(s string, value []byte) error {
	f, err := redisd.parse(s)
	if err != nil {
		return err
	}
	if f.bit >= 0 {
		t, err := strconv.ParseBool(string(value))
		if err != nil {
			return fmt.Errorf("%s: %q: %w", s, value, regbus.ErrValidation)
		}
		err = redisd.access(func() error {
			return redisd.Bus.WriteBit(regbus.Bit(f.addr, uint(f.bit)), t)
		})
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		return nil
	}
	u, err := strconv.ParseUint(string(value), 0, 16)
	if err != nil {
		return fmt.Errorf("%s: %q: %w", s, value, regbus.ErrValidation)
	}
	err = redisd.access(func() error {
		return redisd.Bus.SetRegister(f.addr, uint16(u))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}
	return nil
}

func (redisd *Redisd) Hexists(key, s string) (int, error) {
	if err := redisd.check(key); err != nil {
		return 0, err
	}
	if _, err := redisd.parse(s); err != nil {
		return 0, nil
	}
	return 1, nil
}

func (redisd *Redisd) Hget(key, s string) ([]byte, error) {
	if err := redisd.check(key); err != nil {
		return nil, err
	}
	f, err := redisd.parse(s)
	if err != nil {
		return nil, err
	}
	var v string
	err = redisd.access(func() (err error) {
		v, err = redisd.get(f)
		return
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	return []byte(v), nil
}

// Hgetall returns the readable registers.
func (redisd *Redisd) Hgetall(key string) ([][]byte, error) {
	if err := redisd.check(key); err != nil {
		return nil, err
	}
	names := redisd.names()
	bs := make([][]byte, 0, 2*len(names))
	for _, name := range names {
		addr, found := redisd.lookup(name)
		if !found {
			continue
		}
		var v string
		err := redisd.access(func() (err error) {
			v, err = redisd.get(field{addr, -1})
			return
		})
		if err == nil {
			bs = append(bs, []byte(name), []byte(v))
		}
	}
	return bs, nil
}

func (redisd *Redisd) Hkeys(key string) ([][]byte, error) {
	if err := redisd.check(key); err != nil {
		return nil, err
	}
	names := redisd.names()
	bs := make([][]byte, len(names))
	for i, name := range names {
		bs[i] = []byte(name)
	}
	return bs, nil
}

func (redisd *Redisd) Hset(key, s string, value []byte) (int, error) {
	if err := redisd.check(key); err != nil {
		return 0, err
	}
	if err := redisd.set(s, value); err != nil {
		return 0, err
	}
	return 1, nil
}

func (redisd *Redisd) Ping() (*grs.StatusReply, error) {
	return grs.NewStatusReply("PONG"), nil
}

// NewServer returns a redis server of the register hash. An empty host with
// the "unix" proto listens on the abstract socket "@regbusd".
//
// The server dispatches to every exported method of Redisd, so Redisd only
// exports redis commands.
func NewServer(redisd *Redisd, proto, host string, port int) (*grs.Server, error) {
	cfg := grs.DefaultConfig()
	cfg = cfg.Proto(proto)
	if proto == "unix" && len(host) == 0 {
		host = "@regbusd"
	}
	cfg = cfg.Host(host)
	if port > 0 {
		cfg = cfg.Port(port)
	}
	cfg = cfg.Handler(redisd)
	return grs.NewServer(cfg)
}
