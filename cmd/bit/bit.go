// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package bit

import (
	"fmt"
	"strconv"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/regbus/internal/client"
	"github.com/platinasystems/regbus/lang"
)

type Command struct{}

func (Command) String() string { return "bit" }

func (Command) Usage() string {
	return "bit [-server HOST:PORT] [-set | -clear] REGISTER BIT"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print, set, or clear a register bit",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the BIT, 0 through 15, of the named or addressed REGISTER.

OPTIONS
	-set	set the bit
	-clear	clear the bit
	-server HOST:PORT
		the regbusd redis address, default: the local socket`,
	}
}

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-set", "-clear")
	parm, args := parms.New(args, "-server")
	switch len(args) {
	case 0:
		return fmt.Errorf("REGISTER BIT: missing")
	case 1:
		return fmt.Errorf("BIT: missing")
	case 2:
	default:
		return fmt.Errorf("%v: unexpected", args[2:])
	}
	if flag.ByName["-set"] && flag.ByName["-clear"] {
		return fmt.Errorf("-set and -clear are exclusive")
	}
	bit, err := strconv.Atoi(args[1])
	if err != nil || bit < 0 || bit > 15 {
		return fmt.Errorf("%s: invalid BIT", args[1])
	}
	c, err := client.New(parm.ByName["-server"])
	if err != nil {
		return err
	}
	defer c.Close()
	switch {
	case flag.ByName["-set"]:
		return c.SetBit(args[0], bit, true)
	case flag.ByName["-clear"]:
		return c.SetBit(args[0], bit, false)
	}
	t, err := c.GetBit(args[0], bit)
	if err == nil {
		fmt.Println(t)
	}
	return err
}
