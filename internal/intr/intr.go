/*
   intr: seven-level priority interrupt controller for the PDP-10.

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

// Package intr implements the PDP-10's seven-level priority interrupt (PI)
// system: per-device request bits, program requests, hold/enable masks and
// the arbitration that grants the highest-priority unmasked level. The
// bit tricks are grounded directly on set_interrupt/clr_interrupt/
// check_irq_level/restore_pi_hold/set_pi_hold in the KA10 reference source.
package intr

// NoDevice marks "no device" in device-indexed tables, mirroring the
// teacher's Dv.NoDev sentinel.
const NoDevice uint16 = 0xffff

// Controller holds the PI arbitration state. It is owned exclusively by a
// single Machine; there is no internal locking, matching spec.md §5's
// single-threaded cooperative loop.
type Controller struct {
	PIR uint8 // pending program/device requests, bit levelBit(level) per level
	PIH uint8 // held (granted, not yet dismissed) levels
	PIE uint8 // enabled levels

	Enable  bool // master pi_enable
	Pending bool // pi_pending: some device has an outstanding request

	// deviceIRQ holds, per 7-bit device number, the single level bit the
	// device last requested (0 if none), mirroring dev_irq[dev].
	deviceIRQ [128]uint8

	granted int // level (1-7) granted by the last successful Arbitrate+Grant, 0 if none
}

// New returns a Controller with interrupts disabled, matching CPU reset.
func New() *Controller {
	return &Controller{}
}

// Reset clears all PI state.
func (c *Controller) Reset() {
	*c = Controller{}
}

// levelBit maps a 1-7 PI level to its status bit, 0200 (bit 1) down to
// 0002 (bit 7); level 0 ("no interrupt") maps to 0.
func levelBit(level int) uint8 {
	if level < 1 || level > 7 {
		return 0
	}
	return 0200 >> uint(level-1)
}

// SetInterrupt posts a request from device dev at the given level (1-7).
// Level 0 is a no-op, matching the original's "if (lvl)" guard.
func (c *Controller) SetInterrupt(dev uint16, level int) {
	if level == 0 {
		return
	}
	c.deviceIRQ[dev&0177] = levelBit(level)
	c.Pending = true
}

// ClrInterrupt withdraws any pending request from device dev.
func (c *Controller) ClrInterrupt(dev uint16) {
	c.deviceIRQ[dev&0177] = 0
}

// deviceRequestMask ORs every device's outstanding request bit together.
func (c *Controller) deviceRequestMask() uint8 {
	var mask uint8
	for _, bit := range c.deviceIRQ {
		mask |= bit
	}
	return mask
}

// Arbitrate recomputes the pending-request set and reports whether an
// interrupt should be granted, per spec.md §4.5. It merges device requests
// into PIR, masks by ~PIH and PIE, and returns the highest-priority
// (lowest-numbered) level that is enabled and not held.
//
// This must be called once per instruction and once per indirection hop
// (spec.md §4.2 step 3), matching check_irq_level's call sites in the
// original fetch loop.
func (c *Controller) Arbitrate() (level int, ok bool) {
	mask := c.deviceRequestMask()
	if mask == 0 {
		c.Pending = false
	}
	c.PIR |= mask & c.PIE

	// Candidate levels: a level is OK to grant if it and everything above
	// it (lower level number = higher priority) down to the first held
	// level are clear in PIH. Level 1 is always a candidate; level N>1 is
	// a candidate only if level N-1 is also a candidate and not held.
	var okMask uint8
	bit := uint8(0200)
	for lvl := 1; lvl <= 7; lvl++ {
		if c.PIH&bit != 0 {
			break
		}
		okMask |= bit
		bit >>= 1
	}

	req := c.PIR &^ c.PIH & okMask
	if req == 0 {
		return 0, false
	}
	bit = uint8(0200)
	for lvl := 1; lvl <= 7; lvl++ {
		if req&bit != 0 {
			return lvl, true
		}
		bit >>= 1
	}
	return 0, false
}

// Grant marks level as held and clears its pending request bit, per
// set_pi_hold. The PIH-is-a-downward-suffix invariant (spec.md §3) holds
// automatically because Arbitrate never offers a level below an unheld
// gap.
func (c *Controller) Grant(level int) {
	bit := levelBit(level)
	c.PIH |= bit
	c.PIR &^= bit
	c.granted = level
}

// GrantedLevel returns the level most recently passed to Grant, used to
// compute the interrupt vector address (040 + 2*level, spec.md §4.5).
func (c *Controller) GrantedLevel() int {
	return c.granted
}

// Dismiss restores the highest currently-held level, clearing its PIH and
// PIR bits, per restore_pi_hold. It is invoked when a JRST with the
// dismiss sub-flags completes a PI-cycle instruction.
func (c *Controller) Dismiss() {
	if !c.Enable {
		return
	}
	bit := uint8(0200)
	for lvl := 1; lvl <= 7; lvl++ {
		if c.PIH&bit != 0 {
			c.PIH &^= bit
			c.PIR &^= bit
			break
		}
		bit >>= 1
	}
	c.Pending = true
}

// PopCount7 returns the number of set bits among the seven PI-level bits
// of v (0200 for level 1 down to 0002 for level 7, as levelBit assigns
// them; bit 0001 is not a level and is not counted), used by the
// invariant test in spec.md §8.
func PopCount7(v uint8) int {
	n := 0
	for bit := uint8(0200); bit >= 02; bit >>= 1 {
		if v&bit != 0 {
			n++
		}
	}
	return n
}
