/*
   devices: example device-bus citizens for the PDP-10 emulator core.

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

// Package devices holds the pseudo-devices and example peripherals that sit
// on internal/iobus's device-bus dispatch table: the APR (device 0), the PI
// controller's bus face (device 1), the KA10/KI10 pager's bus face (device
// 2, on both variants), and two illustrative I/O peripherals (console TTY, paper
// tape reader/punch). internal/cpu never imports this package's concrete
// device types except through lifecycle.go's construction of APR/PI/Pager;
// devices never imports internal/cpu, avoiding a cycle.
package devices

import "github.com/pdp10-clones/sims/internal/iobus"

// APR status bits, packed into the low word CONI reports. Grounded on
// SPEC_FULL.md §3's supplement describing dev_apr's CONI composition:
// arithmetic overflow, floating overflow, no-divide (KI) / clock-flag (KA,
// folded together per the documented simplification), NXM, memory-protect,
// and push-down overflow.
const (
	AprOVR uint64 = 1 << iota
	AprFltOvr
	AprNoDivClk
	AprNXM
	AprMemProt
	AprPushdown
)

// APR implements spec.md §4.7's "check_apr_irq" pseudo-device: a latched
// status register and a CONO-programmed enable mask, edge-triggered so that
// CONO both sets the mask and acknowledges (clears) the bits named in the
// word being written — exactly the behavior SPEC_FULL.md §3 calls out as
// "easy to miss from spec.md alone".
type APR struct {
	Status uint64
	Enable uint64
	Level  int

	// SetInterrupt/ClrInterrupt are bound by the caller (internal/cpu's
	// lifecycle.go) to the owning Machine's interrupt controller, keeping
	// this package free of any internal/intr or internal/cpu import.
	SetInterrupt func(level int)
	ClrInterrupt func()
}

// NewAPR returns an APR requesting at the given PI level with both
// callbacks wired.
func NewAPR(level int, setInterrupt func(level int), clrInterrupt func()) *APR {
	return &APR{Level: level, SetInterrupt: setInterrupt, ClrInterrupt: clrInterrupt}
}

// Raise latches bits into Status and re-evaluates whether an interrupt
// should be outstanding. internal/cpu calls it from trap.go's
// checkArithmeticTraps after each instruction that leaves a trap flag
// set, and from cpu_mem.go when an access hits non-existent memory or is
// refused by the paging/protection unit.
func (a *APR) Raise(bits uint64) {
	a.Status |= bits
	a.evaluate()
}

func (a *APR) evaluate() {
	if a.Status&a.Enable != 0 {
		if a.SetInterrupt != nil {
			a.SetInterrupt(a.Level)
		}
		return
	}
	if a.ClrInterrupt != nil {
		a.ClrInterrupt()
	}
}

// Bus implements iobus.BusFunc for device 0.
func (a *APR) Bus(op iobus.Op, word *uint64) iobus.Status {
	switch op {
	case iobus.CONI:
		*word = (a.Status << 6) | a.Enable
	case iobus.CONO:
		a.Enable = *word & 077
		a.Status &^= (*word >> 6) & 077
		a.evaluate()
	case iobus.DATAI, iobus.DATAO:
		// The APR has no data registers; these sub-functions are unused on
		// real hardware for device 0.
	}
	return iobus.StatusOK
}
