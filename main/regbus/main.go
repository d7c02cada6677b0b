// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the register bus daemon and its client commands.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/regbus/cmd"
	"github.com/platinasystems/regbus/cmd/bit"
	"github.com/platinasystems/regbus/cmd/cli"
	"github.com/platinasystems/regbus/cmd/dump"
	"github.com/platinasystems/regbus/cmd/get"
	"github.com/platinasystems/regbus/cmd/regbusd"
	"github.com/platinasystems/regbus/cmd/set"
	"github.com/platinasystems/regbus/internal/goes"
	"github.com/platinasystems/regbus/lang"
)

func Goes() *goes.Goes {
	c := new(cli.Command)
	g := &goes.Goes{
		NAME: "regbus",
		APROPOS: lang.Alt{
			lang.EnUS: "virtual register bus",
		},
		ByName: map[string]cmd.Cmd{
			"bit":     bit.Command{},
			"cli":     c,
			"dump":    dump.Command{},
			"get":     get.Command{},
			"regbusd": new(regbusd.Command),
			"set":     set.Command{},
		},
	}
	c.Goes(g)
	return g
}

func main() {
	if err := Goes().Main(os.Args...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
