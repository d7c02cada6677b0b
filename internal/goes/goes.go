// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes runs the regbus commands by name, busybox style.
package goes

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/platinasystems/log"
	"github.com/platinasystems/regbus/cmd"
	"github.com/platinasystems/regbus/lang"
)

type Goes struct {
	NAME    string
	USAGE   string
	APROPOS lang.Alt
	MAN     lang.Alt

	ByName map[string]cmd.Cmd
}

func (g *Goes) String() string { return g.NAME }

// Names returns the sorted names of the interactive commands.
func (g *Goes) Names() []string {
	names := make([]string, 0, len(g.ByName))
	for name, v := range g.ByName {
		if cmd.WhatKind(v).IsInteractive() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (g *Goes) swap(args []string) { cmd.Swap(args) }

// shift drops the program name.
func (g *Goes) shift(args []string) []string {
	if len(args) > 0 && filepath.Base(args[0]) == g.NAME {
		return args[1:]
	}
	return args
}

// Main runs the args[0] command; a leading program name is skipped.
//
// If the args have "-help", "-apropos", "-man", or "-usage", this runs the
// respective helper for the command.
//
// SIGTERM closes daemons, then exits.
func (g *Goes) Main(args ...string) error {
	args = g.shift(args)
	if len(args) == 0 {
		if _, found := g.ByName["cli"]; found {
			args = []string{"cli"}
		} else {
			return fmt.Errorf("%s", Usage(g))
		}
	}
	g.swap(args)
	name := args[0]
	args = args[1:]
	switch name {
	case "apropos":
		return g.apropos(args...)
	case "help":
		return g.help(args...)
	case "man":
		return g.man(args...)
	case "usage":
		return g.usage(args...)
	}
	v, found := g.ByName[name]
	if !found {
		return fmt.Errorf("%s: command not found", name)
	}
	k := cmd.WhatKind(v)
	if k.IsDaemon() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGTERM)
		defer func() {
			signal.Stop(sig)
			close(sig)
		}()
		go g.wait(v, sig)
	}
	err := v.Main(args...)
	if err == io.EOF {
		err = nil
	}
	if err != nil && !k.IsDaemon() {
		err = fmt.Errorf("%s: %v", name, err)
	}
	return err
}

func (g *Goes) wait(v cmd.Cmd, ch chan os.Signal) {
	if _, ok := <-ch; !ok {
		return
	}
	if method, found := v.(io.Closer); found {
		if err := method.Close(); err != nil {
			log.Print("daemon", "err", v, ": ", err)
		}
	}
	log.Print("daemon", "info", v, ": killed")
	os.Exit(0)
}
