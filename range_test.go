// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbus_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/platinasystems/regbus"
	"github.com/platinasystems/regbus/internal/test"
)

func TestRange(t *testing.T) {
	assert := test.Assert{TB: t}
	b := regbus.New(nregs)
	var ext uint16
	var e regbus.HandlerEntry
	r := regbus.ReaderFunc(func(regbus.Addr) uint16 { return 0 })
	w := regbus.WriterFunc(func(regbus.Addr, uint16) {})
	for _, a := range []regbus.Addr{nregs, nregs + 1, 0xffff} {
		for name, err := range map[string]error{
			"EnableRead":            b.EnableRead(a),
			"DisableRead":           b.DisableRead(a),
			"RedirectReadPointer":   b.RedirectReadPointer(a, &ext),
			"RedirectReadFunction":  b.RedirectReadFunction(a, r),
			"EnableWrite":           b.EnableWrite(a),
			"DisableWrite":          b.DisableWrite(a),
			"RedirectWritePointer":  b.RedirectWritePointer(a, &ext),
			"RedirectWriteFunction": b.RedirectWriteFunction(a, w),
			"RedirectPointer":       b.RedirectPointer(a, &ext),
			"EnableBitWrite":        b.EnableBitWrite(a),
			"DisableBitWrite":       b.DisableBitWrite(a),
			"InstallWriteHandler":   b.InstallWriteHandler(a, &e, nil),
			"InstallBitHandler":     b.InstallBitHandler(a, &e, nil),
			"SetRegister":           b.SetRegister(a, 0),
			"Store":                 b.Store(a, 0),
		} {
			if err != regbus.ErrRange {
				t.Errorf("%s(%#x): %v", name, a, err)
			}
		}
		assert.Word(b.GetRegister(a), regbus.Invalid)
		_, err := b.AccessType(a)
		assert.Error(err, regbus.ErrRange)
	}
	for _, x := range []regbus.BitAddr{nregs << 4, nregs<<4 | 15,
		regbus.BitAddr(b.Bits()) + 1, 0xfffff} {
		_, err := b.GetBit(x)
		assert.Error(err, regbus.ErrRange)
		assert.Error(b.SetBit(x), regbus.ErrRange)
		assert.Error(b.ClearBit(x), regbus.ErrRange)
	}
	// nothing in range was touched
	for a := regbus.Addr(0); a < nregs; a++ {
		at, _ := b.AccessType(a)
		assert.True(at == 0)
	}
}

func TestStatus(t *testing.T) {
	for _, x := range []struct {
		s    regbus.Status
		code int
	}{
		{regbus.OK, 0},
		{regbus.ErrRange, 1},
		{regbus.ErrAccess, 2},
		{regbus.ErrNullTarget, 3},
		{regbus.ErrInvalidMode, 4},
		{regbus.ErrValidation, 2},
	} {
		if x.s.Code() != x.code {
			t.Error("wrong code:", x.s, x.s.Code(), "!=", x.code)
		}
		if got := regbus.Code(fmt.Errorf("wrapped: %w", x.s)); x.s != regbus.OK && got != x.code {
			t.Error("wrong wrapped code:", x.s, got, "!=", x.code)
		}
	}
	if !errors.Is(regbus.ErrValidation, regbus.ErrAccess) {
		t.Error("validation isn't access denied")
	}
	if errors.Is(regbus.ErrAccess, regbus.ErrValidation) {
		t.Error("access denied is validation")
	}
	if regbus.Code(nil) != 0 {
		t.Error("nil isn't ok")
	}
	if s := regbus.Status(9).Error(); s != "status 9" {
		t.Error("wrong unknown status:", s)
	}
	if regbus.Code(errors.New("other")) != -1 {
		t.Error("foreign error has a code")
	}
}
