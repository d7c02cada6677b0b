// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package descriptor keeps tagged device metadata in a list sorted by tag.
//
// Entries are owned by the caller and linked in place, so an entry must stay
// valid for as long as it is installed. Each entry either holds a static
// Value or reads its content through a Reader.
package descriptor

import "fmt"

type Tag uint8

const (
	SerialNumber Tag = 0x00
	LibVersion   Tag = 0x01
)

// MaxRead is the largest content a Reader is asked for.
const MaxRead = 240

type Reader interface {
	ReadDescriptor(max int, dst []byte) int
}

type ReaderFunc func(max int, dst []byte) int

func (f ReaderFunc) ReadDescriptor(max int, dst []byte) int {
	return f(max, dst)
}

type Entry struct {
	Tag   Tag
	Value []byte
	// Func, if not nil, supersedes Value.
	Func Reader

	next *Entry
}

func (e *Entry) String() string {
	if e.Func != nil {
		return fmt.Sprintf("%#02x: func", uint8(e.Tag))
	}
	return fmt.Sprintf("%#02x: %q", uint8(e.Tag), e.Value)
}

type Registry struct {
	root *Entry
	n    int
}

func (r *Registry) Len() int { return r.n }

// Install links the entry in tag order. An installed entry with the same tag
// is unlinked and replaced.
func (r *Registry) Install(e *Entry) {
	pp := &r.root
	for *pp != nil && (*pp).Tag < e.Tag {
		pp = &(*pp).next
	}
	if old := *pp; old != nil && old.Tag == e.Tag {
		if old == e {
			return
		}
		e.next = old.next
		old.next = nil
		*pp = e
		return
	}
	e.next = *pp
	*pp = e
	r.n++
}

// Find returns the entry with the given tag or nil.
func (r *Registry) Find(tag Tag) *Entry {
	for e := r.root; e != nil && e.Tag <= tag; e = e.next {
		if e.Tag == tag {
			return e
		}
	}
	return nil
}

// Read copies the entry content into dst and returns its length. Static
// values longer than dst are truncated; a Reader is asked for at most
// MaxRead bytes.
func (r *Registry) Read(e *Entry, dst []byte) int {
	if e == nil {
		return 0
	}
	if e.Func == nil {
		return copy(dst, e.Value)
	}
	max := len(dst)
	if max > MaxRead {
		max = MaxRead
	}
	n := e.Func.ReadDescriptor(max, dst[:max])
	if n < 0 {
		n = 0
	} else if n > max {
		n = max
	}
	return n
}

// Each calls fn for each entry in tag order until fn returns false.
func (r *Registry) Each(fn func(*Entry) bool) {
	for e := r.root; e != nil; e = e.next {
		if !fn(e) {
			return
		}
	}
}
