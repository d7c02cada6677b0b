// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regbus

import (
	"errors"
	"strconv"
)

// Status is the result of a bus operation. Code gives the number seen by
// protocol peers; those numbers must not change. OK is never returned as an
// error.
type Status uint8

const (
	OK Status = iota
	ErrRange
	ErrAccess
	ErrNullTarget
	ErrInvalidMode
	// ErrValidation rejects a span registration. Peers see it as ErrAccess.
	ErrValidation
)

var statusNames = [...]string{
	OK:             "ok",
	ErrRange:       "address out of range",
	ErrAccess:      "access denied",
	ErrNullTarget:  "redirect target absent",
	ErrInvalidMode: "bit operation invalid for write mode",
	ErrValidation:  "validation failed",
}

func (s Status) Error() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "status " + strconv.Itoa(int(s))
}

func (s Status) String() string { return s.Error() }

// Code returns the status number.
func (s Status) Code() int {
	if s == ErrValidation {
		return int(ErrAccess)
	}
	return int(s)
}

// Is matches ErrValidation to ErrAccess, the status it's numbered as.
func (s Status) Is(target error) bool {
	return s == ErrValidation && target == ErrAccess
}

// Code returns the status number carried by err, 0 for nil, or -1 if err
// doesn't wrap a Status.
func Code(err error) int {
	if err == nil {
		return int(OK)
	}
	var s Status
	if errors.As(err, &s) {
		return s.Code()
	}
	return -1
}
