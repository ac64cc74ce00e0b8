/*
   iobus: 128-entry programmed I/O device-bus dispatch table.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package iobus implements the device-bus contract of spec.md §6: a
// 128-entry table of device handlers invoked by the CPU's IOT family for
// the four sub-operations CONI/CONO/DATAI/DATAO. It is the sole collaborator
// contract the core CPU consumes besides the host event tick, so it is kept
// free of any dependency on internal/cpu.
package iobus

import "errors"

// Op names the four I/O sub-operations an IOT instruction can issue,
// per spec.md glossary.
type Op int

const (
	CONI Op = iota // read status
	CONO           // write status
	DATAI          // read data
	DATAO          // write data
)

func (op Op) String() string {
	switch op {
	case CONI:
		return "CONI"
	case CONO:
		return "CONO"
	case DATAI:
		return "DATAI"
	case DATAO:
		return "DATAO"
	default:
		return "?"
	}
}

// Status is the result of a bus access. A device returning StatusError
// signals the "I/O device returning a hard error" fatal stop of spec.md §7;
// ordinary devices return StatusOK even when posting a CONI error bit.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

// BusFunc is the handler signature every device registers: it receives the
// sub-operation and a pointer to the 36-bit data word (read for CONO/DATAO,
// written for CONI/DATAI).
type BusFunc func(op Op, word *uint64) Status

// NumDevices is the width of the device-number field (7 bits, spec.md §3).
const NumDevices = 128

// Bus is the 128-entry dispatch table. The zero value is a bus with no
// devices registered; every access to an unbound device number reports
// "not present" to the caller via Dispatch's present return (false), matching
// how the original ignores IOT instructions to non-existent devices.
type Bus struct {
	handlers [NumDevices]BusFunc
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// RegisterDevice binds fn to the 7-bit device number dev. Re-registering an
// already-bound device number is a configuration-time error (spec.md §7
// "duplicate device-number binding"), reported rather than silently
// overwritten.
func (b *Bus) RegisterDevice(dev uint16, fn BusFunc) error {
	idx := dev & 0177
	if b.handlers[idx] != nil {
		return errors.New("iobus: device already registered")
	}
	b.handlers[idx] = fn
	return nil
}

// Unregister removes any handler bound to dev.
func (b *Bus) Unregister(dev uint16) {
	b.handlers[dev&0177] = nil
}

// Dispatch invokes the handler bound to dev for the given sub-operation.
// present is false when no device answers at that number.
func (b *Bus) Dispatch(dev uint16, op Op, word *uint64) (status Status, present bool) {
	fn := b.handlers[dev&0177]
	if fn == nil {
		return StatusOK, false
	}
	return fn(op, word), true
}

// BlockTransfer repeatedly issues DATAI (in) or DATAO (out) to dev,
// advancing a memory address and decrementing a word count, the behavior
// spec.md §4.6 assigns to the IOT family's BLKI/BLKO sub-functions. The
// caller (internal/cpu) supplies the actual memory read/write so that page
// faults and interrupt polling between words stay under the CPU's control,
// matching spec.md §5's suspension-point requirement for multi-word
// instructions.
func (b *Bus) BlockTransfer(dev uint16, in bool, xfer func(word *uint64) (cont bool)) (status Status, present bool) {
	op := DATAO
	if in {
		op = DATAI
	}
	fn := b.handlers[dev&0177]
	if fn == nil {
		return StatusOK, false
	}
	var word uint64
	for {
		if !in {
			if !xfer(&word) {
				return StatusOK, true
			}
		}
		st := fn(op, &word)
		if st == StatusError {
			return st, true
		}
		if in {
			if !xfer(&word) {
				return StatusOK, true
			}
		}
	}
}
