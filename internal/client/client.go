// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package client accesses the register hash of a running regbusd.
package client

import (
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/platinasystems/atsock"
	"github.com/platinasystems/regbus/redisd"
)

const Timeout = 500 * time.Millisecond

// Dial connects to the regbusd abstract socket, or with a non-empty server,
// to its HOST:PORT.
var Dial = func(server string) (redis.Conn, error) {
	if len(server) > 0 {
		return redis.Dial("tcp", server,
			redis.DialConnectTimeout(Timeout),
			redis.DialReadTimeout(Timeout),
			redis.DialWriteTimeout(Timeout))
	}
	conn, err := atsock.Dial("regbusd")
	if err != nil {
		return nil, err
	}
	return redis.NewConn(conn, Timeout, Timeout), nil
}

type Client struct {
	redis.Conn
	Key string
}

func New(server string) (*Client, error) {
	conn, err := Dial(server)
	if err != nil {
		return nil, err
	}
	return &Client{conn, redisd.DefaultKey}, nil
}

func (c *Client) Get(field string) (string, error) {
	return redis.String(c.Do("HGET", c.Key, field))
}

func (c *Client) Set(field string, value interface{}) error {
	i, err := redis.Int(c.Do("HSET", c.Key, field, value))
	if err == nil && i != 1 {
		err = fmt.Errorf("%s: not set", field)
	}
	return err
}

// GetBit returns the named bit of a register field.
func (c *Client) GetBit(field string, bit int) (bool, error) {
	return redis.Bool(c.Do("HGET", c.Key, Bit(field, bit)))
}

func (c *Client) SetBit(field string, bit int, t bool) error {
	return c.Set(Bit(field, bit), t)
}

// All returns the readable fields and values in address order.
func (c *Client) All() ([]string, error) {
	return redis.Strings(c.Do("HGETALL", c.Key))
}

func (c *Client) Keys() ([]string, error) {
	return redis.Strings(c.Do("HKEYS", c.Key))
}

// Bit formats a bit field.
func Bit(field string, bit int) string { return fmt.Sprint(field, ".", bit) }
