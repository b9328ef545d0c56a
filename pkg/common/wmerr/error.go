// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package wmerr defines the coded errors surfaced by wordmap.
package wmerr

import (
	"errors"
	"fmt"
)

const (
	// 0 - 99 is OK.
	Ok uint16 = 0

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101

	// Group 2: invalid input
	ErrInvalidArg uint16 = 20200
	ErrBadConfig  uint16 = 20201

	// Group 3: construction errors
	// ErrSeedUnavailable: the secure random source could not supply
	// entropy. Fatal to that construction attempt; the caller may retry.
	ErrSeedUnavailable uint16 = 20300
	// ErrCapacityOverflow: the requested capacity exceeds the range
	// addressable by the table's index representation.
	ErrCapacityOverflow uint16 = 20301

	ErrEnd uint16 = 65535
)

type Error struct {
	code    uint16
	message string
}

func newError(code uint16, message string) *Error {
	return &Error{code: code, message: message}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

// Is supports errors.Is by comparing error codes, so a constructed error
// value can serve as a match target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

func NewInternalError(msg string, args ...any) *Error {
	return newError(ErrInternal, "internal error: "+fmt.Sprintf(msg, args...))
}

func NewInvalidArg(arg string, val any) *Error {
	return newError(ErrInvalidArg, fmt.Sprintf("invalid argument %s, bad value %v", arg, val))
}

func NewBadConfig(msg string, args ...any) *Error {
	return newError(ErrBadConfig, "invalid configuration: "+fmt.Sprintf(msg, args...))
}

func NewSeedUnavailable(cause string) *Error {
	return newError(ErrSeedUnavailable, "seed unavailable: "+cause)
}

func NewCapacityOverflow(capacity uint64) *Error {
	return newError(ErrCapacityOverflow, fmt.Sprintf("capacity overflow: %d", capacity))
}

// IsWmErrCode reports whether err is a wmerr error with the given code.
func IsWmErrCode(err error, code uint16) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.code == code
}

func IsSeedUnavailable(err error) bool {
	return IsWmErrCode(err, ErrSeedUnavailable)
}

func IsCapacityOverflow(err error) bool {
	return IsWmErrCode(err, ErrCapacityOverflow)
}
