// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package get

import (
	"fmt"

	"github.com/platinasystems/parms"
	"github.com/platinasystems/regbus/internal/client"
	"github.com/platinasystems/regbus/lang"
)

type Command struct{}

func (Command) String() string { return "get" }

func (Command) Usage() string {
	return "get [-server HOST:PORT] REGISTER..."
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print register values",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the value of each REGISTER, named or addressed, from the
	running regbusd. A REGISTER suffixed with ".BIT" prints that bit.

OPTIONS
	-server HOST:PORT
		the regbusd redis address, default: the local socket`,
	}
}

func (Command) Main(args ...string) error {
	parm, args := parms.New(args, "-server")
	if len(args) == 0 {
		return fmt.Errorf("REGISTER: missing")
	}
	c, err := client.New(parm.ByName["-server"])
	if err != nil {
		return err
	}
	defer c.Close()
	for _, arg := range args {
		s, err := c.Get(arg)
		if err != nil {
			return err
		}
		if len(args) > 1 {
			fmt.Print(arg, ": ")
		}
		fmt.Println(s)
	}
	return nil
}
