// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dump

import (
	"fmt"

	"github.com/platinasystems/parms"
	"github.com/platinasystems/regbus/internal/client"
	"github.com/platinasystems/regbus/lang"
)

type Command struct{}

func (Command) String() string { return "dump" }

func (Command) Usage() string { return "dump [-server HOST:PORT]" }

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print all readable registers",
	}
}

func (Command) Main(args ...string) error {
	parm, args := parms.New(args, "-server")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	c, err := client.New(parm.ByName["-server"])
	if err != nil {
		return err
	}
	defer c.Close()
	all, err := c.All()
	if err != nil {
		return err
	}
	for i := 0; i+1 < len(all); i += 2 {
		fmt.Print(all[i], ": ", all[i+1], "\n")
	}
	return nil
}
