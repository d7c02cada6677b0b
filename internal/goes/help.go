// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"strings"

	"github.com/platinasystems/regbus"
)

type helper interface {
	Help(...string) string
}

// Help returns the help of the named command, the status code table for
// "status", or the program usage.
func (g *Goes) Help(args ...string) string {
	g.swap(args)
	args = g.shift(args)
	if len(args) > 0 {
		if v, found := g.ByName[args[0]]; found {
			if method, found := v.(helper); found {
				return method.Help(args[1:]...)
			}
			return Usage(v)
		}
		if args[0] == "status" {
			return Codes()
		}
	}
	return Usage(g)
}

// Codes lists the status numbers that bus operations report to protocol
// peers.
func Codes() string {
	var sb strings.Builder
	sb.WriteString("CODE\tSTATUS")
	for s := regbus.OK; s <= regbus.ErrValidation; s++ {
		fmt.Fprintf(&sb, "\n%d\t%s", s.Code(), s)
	}
	return sb.String()
}

func (g *Goes) help(args ...string) error {
	h := g.Help(args...)
	if len(h) > 0 {
		fmt.Println(h)
	}
	return nil
}
