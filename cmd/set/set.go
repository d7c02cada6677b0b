// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package set

import (
	"fmt"

	"github.com/platinasystems/parms"
	"github.com/platinasystems/regbus/internal/client"
	"github.com/platinasystems/regbus/lang"
)

type Command struct{}

func (Command) String() string { return "set" }

func (Command) Usage() string {
	return "set [-server HOST:PORT] REGISTER VALUE"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "write a register",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Write a decimal, 0x hex, or 0 octal VALUE to the named or addressed
	REGISTER of the running regbusd.

OPTIONS
	-server HOST:PORT
		the regbusd redis address, default: the local socket`,
	}
}

func (Command) Main(args ...string) error {
	parm, args := parms.New(args, "-server")
	switch len(args) {
	case 0:
		return fmt.Errorf("REGISTER VALUE: missing")
	case 1:
		return fmt.Errorf("VALUE: missing")
	case 2:
	default:
		return fmt.Errorf("%v: unexpected", args[2:])
	}
	c, err := client.New(parm.ByName["-server"])
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Set(args[0], args[1])
}
