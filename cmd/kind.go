// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

import (
	"fmt"
	"strings"
)

const (
	// Daemons run until killed; SIGTERM closes them.
	Daemon Kind = 1 << iota
	// Hidden commands are omitted from apropos and console completion.
	Hidden
)

var kindNames = []struct {
	k Kind
	s string
}{
	{Daemon, "daemon"},
	{Hidden, "hidden"},
}

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

type kinder interface {
	Kind() Kind
}

type Kind uint16

func (k Kind) IsDaemon() bool      { return (k & Daemon) == Daemon }
func (k Kind) IsHidden() bool      { return (k & Hidden) == Hidden }
func (k Kind) IsInteractive() bool { return (k & (Daemon | Hidden)) == 0 }

// String lists the kind's flags, e.g. "daemon, hidden"; unnamed bits are
// shown in hex.
func (k Kind) String() string {
	if k == 0 {
		return "interactive"
	}
	var names []string
	for _, x := range kindNames {
		if k&x.k != 0 {
			names = append(names, x.s)
			k &^= x.k
		}
	}
	if k != 0 {
		names = append(names, fmt.Sprintf("%#x", uint16(k)))
	}
	return strings.Join(names, ", ")
}
