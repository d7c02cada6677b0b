// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"strings"
)

func Usage(v Usager) string {
	return fmt.Sprint("usage:\t", strings.TrimSpace(v.Usage()))
}

type Usager interface {
	Usage() string
}

// Usage returns USAGE or, by default, the synopsis of the helpers and the
// interactive commands.
func (g *Goes) Usage() string {
	if len(g.USAGE) > 0 {
		return g.USAGE
	}
	return fmt.Sprintf(`
	%[1]s [ COMMAND [ ARGS ]... ]
	%[1]s COMMAND -[-]HELPER [ ARGS ]...
	%[1]s HELPER [ COMMAND ]...
	%[1]s help status

	HELPER := { apropos | help | man | usage }
	COMMAND := { %[2]s }`, g.NAME, strings.Join(g.Names(), " | "))
}

func (g *Goes) usage(args ...string) error {
	var u Usager = g
	if len(args) > 0 {
		u = g.ByName[args[0]]
		if u == nil {
			return fmt.Errorf("%s: not found", args[0])
		}
	}
	fmt.Println(Usage(u))
	return nil
}
