// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cli is the interactive register console.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/liner"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/regbus/cmd"
	"github.com/platinasystems/regbus/internal/goes"
	"github.com/platinasystems/regbus/lang"
	"github.com/platinasystems/url"
)

type Command struct {
	Prompt string

	g     *goes.Goes
	trace bool
}

func (*Command) String() string { return "cli" }

func (*Command) Usage() string { return "cli [-x] [-p PROMPT] [URL]" }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "register console",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Run commands, one per line, from the terminal with line editing
	and command completion; or without a terminal, from standard input.

	Hash tag prefaced lines are ignored. "exit" or end of input quits.

	With URL, run the script read from that file or url instead.

OPTIONS
	-x	print each command before running it
	-p PROMPT
		default: "regbus> "`,
	}
}

func (c *Command) Goes(g *goes.Goes) { c.g = g }

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-x")
	parm, args := parms.New(args, "-p")
	if len(args) > 1 {
		return fmt.Errorf("%v: unexpected", args[1:])
	}
	c.trace = flag.ByName["-x"]
	if s := parm.ByName["-p"]; len(s) > 0 {
		c.Prompt = s
	} else if len(c.Prompt) == 0 {
		c.Prompt = c.g.NAME + "> "
	}
	if len(args) == 1 {
		script, err := url.Open(args[0])
		if err != nil {
			return err
		}
		defer script.Close()
		return c.Script(script)
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return c.Script(os.Stdin)
	}
	s := liner.NewLiner()
	defer s.Close()
	s.SetCompleter(c.complete)
	for {
		line, err := s.Prompt(c.Prompt)
		switch err {
		case nil:
		case liner.ErrPromptAborted:
			continue
		case io.EOF:
			fmt.Println()
			return nil
		default:
			return err
		}
		if len(strings.TrimSpace(line)) > 0 {
			s.AppendHistory(line)
		}
		if c.run(line) {
			return nil
		}
	}
}

// Script runs each line of r.
func (c *Command) Script(r io.Reader) error {
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		if c.run(scan.Text()) {
			return nil
		}
	}
	return scan.Err()
}

// run returns true on exit.
func (c *Command) run(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false
	}
	if args[0] == "exit" {
		return true
	}
	if c.trace {
		fmt.Fprintln(os.Stderr, "+", strings.Join(args, " "))
	}
	var err error
	if v, found := c.g.ByName[args[0]]; found && (v == cmd.Cmd(c) ||
		cmd.WhatKind(v).IsDaemon()) {
		err = fmt.Errorf("%s: can't run from the console", args[0])
	} else {
		err = c.g.Main(args...)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return false
}

// complete returns the command names prefixed by line.
func (c *Command) complete(line string) (lines []string) {
	if strings.ContainsAny(line, " \t") {
		return
	}
	names := append(c.g.Names(), "exit")
	for name := range cmd.Helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.HasPrefix(name, line) {
			lines = append(lines, name)
		}
	}
	return
}
