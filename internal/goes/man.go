// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/platinasystems/regbus/cmd"
	"github.com/platinasystems/regbus/lang"
)

type maner interface {
	Man() lang.Alt
}

var section = struct {
	name, synopsis, kind lang.Alt
}{
	name: lang.Alt{
		lang.EnUS: "NAME",
	},
	synopsis: lang.Alt{
		lang.EnUS: "SYNOPSIS",
	},
	kind: lang.Alt{
		lang.EnUS: "KIND",
	},
}

// Man returns MAN or, by default, a description followed by the table of
// status codes.
func (g *Goes) Man() lang.Alt {
	if g.MAN != nil {
		return g.MAN
	}
	return lang.Alt{
		lang.EnUS: fmt.Sprint(`
DESCRIPTION
	Run the named register bus command. Without a command, this runs
	the interactive console.

	Commands that access the bus report failures by status:

	`, strings.Replace(Codes(), "\n", "\n\t", -1), `

SEE ALSO
	`, g.NAME, ` apropos [KEYWORD]..., `, g.NAME, ` man COMMAND`),
	}
}

func (g *Goes) man(args ...string) error {
	return g.fprintMan(os.Stdout, args...)
}

func (g *Goes) fprintMan(w io.Writer, args ...string) error {
	var cmds []cmd.Cmd
	for i, arg := range args {
		v := g.ByName[arg]
		if v == nil {
			if i == 0 {
				return fmt.Errorf("%s: not found", arg)
			}
			break
		}
		cmds = append(cmds, v)
	}
	if len(cmds) == 0 {
		cmds = []cmd.Cmd{g}
	}
	for i, v := range cmds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, section.name, "\n\t", v, " - ",
			v.Apropos(), "\n\n", section.synopsis, "\n\t",
			strings.TrimSpace(v.Usage()), "\n")
		if k := cmd.WhatKind(v); !k.IsInteractive() {
			fmt.Fprint(w, "\n", section.kind, "\n\t", k, "\n")
		}
		if method, found := v.(maner); found {
			man := method.Man().String()
			if !strings.HasPrefix(man, "\n") {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, man)
			if !strings.HasSuffix(man, "\n") {
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}
