// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package descriptor

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/platinasystems/eeprom"
	uuid "github.com/satori/go.uuid"
)

// Board identity tags, numbered after the ONIE TLV types they come from;
// tags from 0x80 are platform specific.
const (
	BaseEthernetAddress Tag = 0x24
	DeviceVersion       Tag = 0x26
	NEthernetAddress    Tag = 0x2a
	ChassisType         Tag = 0x80
	BoardType           Tag = 0x81
	InstanceUUID        Tag = 0x82
)

var boardTags = [...]Tag{
	BaseEthernetAddress,
	DeviceVersion,
	NEthernetAddress,
	ChassisType,
	BoardType,
}

// Board is an identity EEPROM and the entries loaded from it.
type Board struct {
	BusIndex   int
	BusAddress int

	entries [len(boardTags) + 1]Entry
}

var readBoard = func(bus, addr int) (map[Tag]string, error) {
	d := eeprom.Device{
		BusIndex:   bus,
		BusAddress: addr,
	}
	if err := d.GetInfo(); err != nil {
		return nil, err
	}
	return map[Tag]string{
		BaseEthernetAddress: fmt.Sprint(d.Fields.BaseEthernetAddress),
		DeviceVersion:       fmt.Sprintf("%#x", d.Fields.DeviceVersion),
		NEthernetAddress:    fmt.Sprint(d.Fields.NEthernetAddress),
		ChassisType:         fmt.Sprintf("%#x", d.Fields.ChassisType),
		BoardType:           fmt.Sprintf("%#x", d.Fields.BoardType),
	}, nil
}

// Load reads the EEPROM and installs its fields along with an instance UUID
// derived from them.
func (b *Board) Load(r *Registry) error {
	info, err := readBoard(b.BusIndex, b.BusAddress)
	if err != nil {
		return fmt.Errorf("eeprom %d.%#x: %w", b.BusIndex, b.BusAddress,
			err)
	}
	name := "regbus"
	for i, tag := range boardTags {
		s := info[tag]
		b.entries[i] = Entry{Tag: tag, Value: []byte(s)}
		r.Install(&b.entries[i])
		name += "." + s
	}
	id := uuid.NewV5(uuid.NamespaceOID, name)
	b.entries[len(boardTags)] = Entry{
		Tag:   InstanceUUID,
		Value: []byte(id.String()),
	}
	r.Install(&b.entries[len(boardTags)])
	return nil
}

// LoadBoards loads each board, continuing past failures; the result lists
// every board that couldn't be read.
func LoadBoards(r *Registry, boards ...*Board) error {
	var result *multierror.Error
	for _, b := range boards {
		if err := b.Load(r); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
