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

type aproposer interface {
	Apropos() lang.Alt
}

func (g *Goes) Apropos() lang.Alt {
	apropos := g.APROPOS
	if apropos == nil {
		apropos = lang.Alt{
			lang.EnUS: "virtual register bus",
		}
	}
	return apropos
}

func (g *Goes) apropos(args ...string) error {
	return g.fprintApropos(os.Stdout, args...)
}

// fprintApropos describes the named commands. Without command names, the
// args are keywords and it describes the interactive commands whose name or
// description has all of them.
func (g *Goes) fprintApropos(w io.Writer, args ...string) error {
	var names, keywords []string
	for _, arg := range args {
		if _, found := g.ByName[arg]; found {
			names = append(names, arg)
		} else if len(arg) > 0 {
			keywords = append(keywords, strings.ToLower(arg))
		}
	}
	if len(names) == 0 {
		for _, name := range g.Names() {
			s := strings.ToLower(name + " " +
				g.ByName[name].Apropos().String())
			if hasAll(s, keywords) {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return fmt.Errorf("%s: nothing appropriate",
				strings.Join(keywords, " "))
		}
	}
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range names {
		v := g.ByName[name]
		s := v.Apropos().String()
		if k := cmd.WhatKind(v); !k.IsInteractive() {
			s += " (" + k.String() + ")"
		}
		fmt.Fprintf(w, "%-*s  %s\n", width, name, s)
	}
	return nil
}

func hasAll(s string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(s, k) {
			return false
		}
	}
	return true
}
