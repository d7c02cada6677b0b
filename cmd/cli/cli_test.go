// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cli

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/platinasystems/regbus/cmd"
	"github.com/platinasystems/regbus/internal/goes"
	"github.com/platinasystems/regbus/internal/test"
	"github.com/platinasystems/regbus/lang"
)

type record struct {
	name string
	kind cmd.Kind
	runs [][]string
}

func (r *record) String() string    { return r.name }
func (r *record) Usage() string     { return r.name }
func (r *record) Apropos() lang.Alt { return lang.Alt{lang.EnUS: r.name} }
func (r *record) Kind() cmd.Kind    { return r.kind }

func (r *record) Main(args ...string) error {
	r.runs = append(r.runs, args)
	return nil
}

func setup() (*Command, *record, *record) {
	c := new(Command)
	get := &record{name: "get"}
	daemon := &record{name: "regbusd", kind: cmd.Daemon}
	c.Goes(&goes.Goes{
		NAME: "regbus",
		ByName: map[string]cmd.Cmd{
			"cli":     c,
			"get":     get,
			"regbusd": daemon,
		},
	})
	return c, get, daemon
}

func TestScript(t *testing.T) {
	c, get, daemon := setup()
	test.Assert{TB: t}.Nil(c.Script(strings.NewReader(`
# comment
get setpoint
  get 0x10 0x11
regbusd
cli
exit
get never
`)))
	want := [][]string{{"setpoint"}, {"0x10", "0x11"}}
	if diff := cmp.Diff(want, get.runs); diff != "" {
		t.Error("runs (-want +got):\n", diff)
	}
	test.Assert{TB: t}.True(len(daemon.runs) == 0)
}

func TestScriptFile(t *testing.T) {
	assert := test.Assert{TB: t}
	c, get, _ := setup()
	fn := filepath.Join(t.TempDir(), "script")
	assert.Nil(ioutil.WriteFile(fn, []byte("get mode\nexit\n"), 0644))
	assert.Nil(c.Main(fn))
	if diff := cmp.Diff([][]string{{"mode"}}, get.runs); diff != "" {
		t.Error("runs (-want +got):\n", diff)
	}
	assert.True(c.Main(fn, "extra") != nil)
}

func TestComplete(t *testing.T) {
	c, _, _ := setup()
	if diff := cmp.Diff([]string{"get"}, c.complete("g")); diff != "" {
		t.Error("complete (-want +got):\n", diff)
	}
	if diff := cmp.Diff([]string{"apropos", "cli", "exit", "get"},
		c.complete("")[:4]); diff != "" {
		t.Error("complete (-want +got):\n", diff)
	}
	test.Assert{TB: t}.True(c.complete("get s") == nil)
}
