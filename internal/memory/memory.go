/*
   memory: physical core storage for the PDP-10 simulator.

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

// Package memory holds the emulated PDP-10 physical core array. It knows
// nothing about fast registers, paging or protection -- those live in
// internal/cpu and internal/page, which route through this package only
// after an address has already been translated to physical.
package memory

const (
	// FMASK masks a word to the 36 significant bits it stores.
	FMASK uint64 = 0o777777_777777

	// MaxKA10Words is the largest physical memory KA10 can address (18-bit
	// address space, spec.md §3 "Memory").
	MaxKA10Words = 1 << 18

	// MaxKI10Words is the largest physical memory KI10 can address.
	MaxKI10Words = 1 << 20
)

// Memory is a contiguous array of 36-bit words plus the KI10 storage-key
// byte per page of the S370 teacher's `key[]` array, adapted here to
// nothing (the PDP-10 has no analogous per-page access/modify key outside
// the KI10 page table itself, which lives in internal/page) -- kept as a
// pure word array for that reason.
type Memory struct {
	words []uint64
	size  uint32 // configured size in words, <= len(words)
}

// New allocates physical memory with capacity for maxWords and an initial
// configured size of sizeWords.
func New(maxWords int, sizeWords uint32) *Memory {
	m := &Memory{words: make([]uint64, maxWords)}
	m.SetSize(sizeWords)
	return m
}

// SetSize configures the live memory size in words, clamped to capacity.
func (m *Memory) SetSize(words uint32) {
	if int(words) > len(m.words) {
		words = uint32(len(m.words))
	}
	m.size = words
}

// Size returns the configured memory size in words.
func (m *Memory) Size() uint32 {
	return m.size
}

// CheckAddr reports whether addr is within the configured memory size.
func (m *Memory) CheckAddr(addr uint32) bool {
	return addr < m.size
}

// Read returns the word at addr. ok is false (non-existent memory, §7 NXM)
// when addr is outside the configured size.
func (m *Memory) Read(addr uint32) (value uint64, ok bool) {
	if !m.CheckAddr(addr) {
		return 0, false
	}
	return m.words[addr] & FMASK, true
}

// Write stores data at addr, masked to 36 bits. ok is false on NXM.
func (m *Memory) Write(addr uint32, data uint64) (ok bool) {
	if !m.CheckAddr(addr) {
		return false
	}
	m.words[addr] = data & FMASK
	return true
}

// ReadUnchecked reads without a range check, for use once an address has
// already been validated by the caller (e.g. fast-register access).
func (m *Memory) ReadUnchecked(addr uint32) uint64 {
	return m.words[addr] & FMASK
}

// WriteUnchecked writes without a range check.
func (m *Memory) WriteUnchecked(addr uint32, data uint64) {
	m.words[addr] = data & FMASK
}
