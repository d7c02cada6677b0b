// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package descriptor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tags(r *Registry) (tt []Tag) {
	r.Each(func(e *Entry) bool {
		tt = append(tt, e.Tag)
		return true
	})
	return
}

func TestInstallSorted(t *testing.T) {
	var r Registry
	entries := []Entry{
		{Tag: 0x30, Value: []byte("c")},
		{Tag: LibVersion, Value: []byte("0.2.0")},
		{Tag: 0x10, Value: []byte("b")},
		{Tag: SerialNumber, Value: []byte("SN1")},
		{Tag: 0x40, Value: []byte("d")},
	}
	for i := range entries {
		r.Install(&entries[i])
	}
	if diff := cmp.Diff([]Tag{0x00, 0x01, 0x10, 0x30, 0x40}, tags(&r)); diff != "" {
		t.Error("wrong order (-want +got):\n", diff)
	}
	if r.Len() != len(entries) {
		t.Error("wrong len:", r.Len())
	}
	if e := r.Find(0x10); e != &entries[2] {
		t.Error("wrong entry for 0x10:", e)
	}
	if e := r.Find(0x20); e != nil {
		t.Error("found missing tag:", e)
	}
}

func TestInstallReplace(t *testing.T) {
	var r Registry
	a := Entry{Tag: 5, Value: []byte("a")}
	b := Entry{Tag: 5, Value: []byte("b")}
	c := Entry{Tag: 9, Value: []byte("c")}
	r.Install(&a)
	r.Install(&c)
	r.Install(&b)
	r.Install(&b)
	if r.Len() != 2 {
		t.Error("wrong len:", r.Len())
	}
	if e := r.Find(5); e != &b {
		t.Error("replacement not found:", e)
	}
	if diff := cmp.Diff([]Tag{5, 9}, tags(&r)); diff != "" {
		t.Error("wrong tags (-want +got):\n", diff)
	}
}

func TestRead(t *testing.T) {
	var r Registry
	buf := make([]byte, 300)
	static := Entry{Tag: LibVersion, Value: []byte("0.2.0")}
	r.Install(&static)
	if n := r.Read(r.Find(LibVersion), buf); string(buf[:n]) != "0.2.0" {
		t.Errorf("wrong static read: %q", buf[:n])
	}
	var asked int
	fn := Entry{
		Tag: SerialNumber,
		Func: ReaderFunc(func(max int, dst []byte) int {
			asked = max
			return copy(dst, strings.Repeat("x", 500))
		}),
	}
	r.Install(&fn)
	n := r.Read(r.Find(SerialNumber), buf)
	if asked != MaxRead || n != MaxRead {
		t.Error("wrong func read:", asked, n)
	}
	if n = r.Read(&fn, buf[:4]); n != 4 {
		t.Error("short buffer not honored:", n)
	}
	if n = r.Read(nil, buf); n != 0 {
		t.Error("nil entry read:", n)
	}
}

func TestBoard(t *testing.T) {
	defer func(f func(int, int) (map[Tag]string, error)) {
		readBoard = f
	}(readBoard)
	readBoard = func(bus, addr int) (map[Tag]string, error) {
		if addr != 0x55 {
			return nil, errors.New("no device")
		}
		return map[Tag]string{
			BaseEthernetAddress: "02:46:8a:00:00:01",
			DeviceVersion:       "0x1",
			NEthernetAddress:    "132",
			ChassisType:         "0x0",
			BoardType:           "0x2",
		}, nil
	}
	var r Registry
	good := &Board{BusIndex: 0, BusAddress: 0x55}
	bad := &Board{BusIndex: 0, BusAddress: 0x51}
	err := LoadBoards(&r, good, bad)
	if err == nil || !strings.Contains(err.Error(), "eeprom 0.0x51") {
		t.Fatal("missing board error:", err)
	}
	want := []Tag{BaseEthernetAddress, DeviceVersion, NEthernetAddress,
		ChassisType, BoardType, InstanceUUID}
	if diff := cmp.Diff(want, tags(&r)); diff != "" {
		t.Error("wrong tags (-want +got):\n", diff)
	}
	buf := make([]byte, 64)
	n := r.Read(r.Find(InstanceUUID), buf)
	id := string(buf[:n])
	if len(id) != 36 {
		t.Errorf("bad uuid %q", id)
	}
	var again Registry
	if err = (&Board{BusAddress: 0x55}).Load(&again); err != nil {
		t.Fatal(err)
	}
	n = again.Read(again.Find(InstanceUUID), buf)
	if string(buf[:n]) != id {
		t.Error("uuid isn't stable:", string(buf[:n]), id)
	}
}
