/*
   word: 36-bit two's-complement arithmetic primitives for the PDP-10.

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

// Package word implements the 36-bit word primitives shared by every
// PDP-10 variant: masking, two's-complement negation, sign smearing,
// carry/overflow detection and byte-pointer arithmetic. Every value is
// carried in a uint64 with bits 36-63 always zero.
package word

// Word masks, named after the bit ranges of the 36-bit PDP-10 word.
const (
	FMASK uint64 = 0o777777_777777 // all 36 bits
	SMASK uint64 = 0o400000_000000 // sign bit (bit 0)
	CMASK uint64 = 0o377777_777777 // bits 1-35
	RMASK uint64 = 0o000000_777777 // right half, bits 18-35
	LMASK uint64 = 0o777777_000000 // left half, bits 0-17
	MMASK uint64 = 0o000000_777777 // mantissa low word placeholder
	C1    uint64 = 1 << 36         // carry out of bit 0 (bit 36 of the host sum)
)

// Mask36 truncates a host integer to the 36 significant bits.
func Mask36(x uint64) uint64 {
	return x & FMASK
}

// Negate36 returns the two's-complement negative of x.
func Negate36(x uint64) uint64 {
	return (^x + 1) & FMASK
}

// Smear sign-extends bit 0 of x across every host bit above bit 35, used
// when widening a single-word operand for a double-word operation.
func Smear(x uint64) uint64 {
	if x&SMASK != 0 {
		return x | ^FMASK
	}
	return x & FMASK
}

// Add36 adds a and b as 36-bit words, returning the masked sum along with
// the two carry flags defined by spec.md §4.1: carry1 is the carry out of
// bit 1-35 into bit 0, carry0 is the carry out of bit 0 (overall carry out
// of the 36-bit sum). Overflow is carry0 XOR carry1.
func Add36(a, b uint64) (sum uint64, carry0, carry1 bool) {
	a &= FMASK
	b &= FMASK
	full := a + b
	carry0 = full&C1 != 0
	carry1 = ((a & CMASK) + (b & CMASK)) & SMASK != 0
	sum = full & FMASK
	return sum, carry0, carry1
}

// Sub36 subtracts b from a as 36-bit words via a + ^b + 1, returning the
// same carry/overflow semantics as Add36.
func Sub36(a, b uint64) (diff uint64, carry0, carry1 bool) {
	return Add36(a, Negate36(b))
}

// Overflow36 reports the overflow flag for a computed pair of carries, per
// spec.md §4.1 and the testable property in spec.md §8.
func Overflow36(carry0, carry1 bool) bool {
	return carry0 != carry1
}

// LeadingZeros36 returns the count of 0 bits left of the highest set bit in
// a 36-bit value, or 36 if the value is zero.
func LeadingZeros36(x uint64) int {
	x &= FMASK
	if x == 0 {
		return 36
	}
	n := 0
	for bit := uint64(1) << 35; bit&x == 0; bit >>= 1 {
		n++
	}
	return n
}

// SwapHalves exchanges the left and right 18-bit halves of a 36-bit word,
// the operation performed by the SWAR operand-fetch flag (spec.md §4.6).
func SwapHalves(x uint64) uint64 {
	return ((x << 18) | (x >> 18)) & FMASK
}

// LeftHalf returns bits 0-17 of x right-justified into bits 18-35.
func LeftHalf(x uint64) uint64 {
	return (x & LMASK) >> 18
}

// RightHalf returns bits 18-35 of x.
func RightHalf(x uint64) uint64 {
	return x & RMASK
}

// MakeWord joins a left half and right half (each expected to fit in 18
// bits) into a single 36-bit word.
func MakeWord(left, right uint64) uint64 {
	return ((left << 18) & LMASK) | (right & RMASK)
}
