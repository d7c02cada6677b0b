// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package regbusd serves a register bus built from a device map.
package regbusd

import (
	"fmt"
	"net/rpc"
	"strconv"
	"strings"
	"time"

	"github.com/platinasystems/atsock"
	grs "github.com/platinasystems/go-redis-server"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
	"github.com/platinasystems/regbus/cmd"
	"github.com/platinasystems/regbus/devmap"
	"github.com/platinasystems/regbus/internal/i2creg"
	"github.com/platinasystems/regbus/lang"
	"github.com/platinasystems/regbus/redisd"
)

const (
	DefaultMap      = "/etc/regbus.hcl"
	DefaultInterval = i2creg.DefaultInterval
	// Prefix of the goes redis fields forwarded to the bus.
	Prefix = "regbus."
)

type Command struct {
	Info

	srvs []*grs.Server
	rpc  *atsock.RpcServer
	pub  *publisher.Publisher
	stop chan struct{}
}

// Info is the rpc receiver of goes redisd Hset of "regbus." fields.
type Info struct {
	bus *Bus
}

func (*Command) String() string { return "regbusd" }

func (*Command) Usage() string {
	return "regbusd [-map FILE] [-port PORT] [-poll DURATION]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "register bus daemon",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Build a register bus from the device map and serve it as the
	"regbus" redis hash on the @regbusd socket.

	The daemon also forwards goes redis "regbus.FIELD" writes to the
	bus and publishes writes of registers marked for publishing.

OPTIONS
	-map FILE
		device map, default: /etc/regbus.hcl
	-port PORT
		also listen for redis clients on this TCP port
	-poll DURATION
		i2c and gpio refresh interval, default: 1s`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Close() error {
	var err error
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	for _, srv := range c.srvs {
		srv.Close()
	}
	c.srvs = nil
	if c.rpc != nil {
		err = c.rpc.Close()
		c.rpc = nil
	}
	if c.pub != nil {
		c.pub.Close()
		c.pub = nil
	}
	return err
}

func (c *Command) Main(args ...string) (err error) {
	defer func() {
		if err != nil {
			c.Close()
		}
	}()
	parm, args := parms.New(args, "-map", "-port", "-poll")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	fn := parm.ByName["-map"]
	if len(fn) == 0 {
		fn = DefaultMap
	}
	interval := DefaultInterval
	if s := parm.ByName["-poll"]; len(s) > 0 {
		if interval, err = time.ParseDuration(s); err != nil {
			return
		}
		if interval <= 0 {
			return fmt.Errorf("-poll %s: must be positive", s)
		}
	}
	m, err := devmap.Load(fn)
	if err != nil {
		return
	}
	if c.pub, err = publisher.New(); err != nil {
		return
	}
	c.bus, err = NewBus(m, c.pub, interval)
	if err != nil {
		return
	}
	c.bus.PublishDescriptors()

	srv, err := redisd.NewServer(&c.bus.Redisd, "unix", "", 0)
	if err != nil {
		return
	}
	c.srvs = append(c.srvs, srv)
	if s := parm.ByName["-port"]; len(s) > 0 {
		var port int
		if port, err = strconv.Atoi(s); err != nil {
			return
		}
		srv, err = redisd.NewServer(&c.bus.Redisd, "tcp", "", port)
		if err != nil {
			return
		}
		c.srvs = append(c.srvs, srv)
		go c.serve(srv)
	}

	if c.rpc, err = atsock.NewRpcServer("regbusd"); err != nil {
		return
	}
	rpc.Register(&c.Info)
	if xerr := redis.Assign(redis.DefaultHash+":"+Prefix, "regbusd",
		"Info"); xerr != nil {
		log.Print("daemon", "warning", "redis assign: ", xerr)
	}

	c.stop = make(chan struct{})
	go c.bus.Poller.Run(c.stop)
	go c.refresh(c.stop, interval)
	log.Print("daemon", "info", fn, ": ", m.Registers, " registers")
	return c.srvs[0].Start()
}

func (c *Command) serve(srv *grs.Server) {
	if err := srv.Start(); err != nil {
		log.Print("daemon", "err", err)
	}
}

func (c *Command) refresh(stop <-chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.bus.Refresh()
		}
	}
}

// Hset writes the bus field following the "regbus." prefix.
func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	if i.bus == nil {
		return fmt.Errorf("%s: not ready", args.Field)
	}
	if !strings.HasPrefix(args.Field, Prefix) {
		return fmt.Errorf("cannot hset: %s", args.Field)
	}
	_, err := i.bus.Redisd.Hset(i.bus.Redisd.Key,
		strings.TrimPrefix(args.Field, Prefix), args.Value)
	if err == nil {
		*reply = 1
	}
	return err
}
