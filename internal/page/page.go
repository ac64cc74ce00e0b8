/*
   page: virtual-to-physical translation and memory protection.

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

// Package page implements the two paging/protection schemes the PDP-10
// family shipped: the KA10's two-segment base/limit check and the KI10's
// page-table walk. Selected once at Machine construction (spec.md §9
// design note: avoid runtime branching on variant in hot paths), not
// branched per access.
package page

// FaultData is the information latched on a KI10 page failure, packed
// exactly per spec.md §4.4's formula so it can be stored verbatim into the
// fault-data word consumed by the UUO/trap path.
type FaultData struct {
	Page      uint32 // virtual page number
	User      bool
	Write     bool
	Public    bool
	WritePerm bool
}

// Pack assembles the fault word: (page<<18) | (user<<28) | 020 | write |
// (public<<2) | (writePerm<<1).
func (f FaultData) Pack() uint64 {
	word := uint64(f.Page) << 18
	if f.User {
		word |= 1 << 28
	}
	word |= 020
	if f.Write {
		word |= 1
	}
	if f.Public {
		word |= 4
	}
	if f.WritePerm {
		word |= 2
	}
	return word
}

// Translator converts a virtual address to a physical one, or reports a
// fault. fetch marks an instruction fetch; neither KA10Protection nor
// KI10Pager treats a fetch differently from a data read.
type Translator interface {
	// Translate returns the physical address for addr, or ok=false with
	// fail populated when the access must be denied (memory-protect, NXM
	// staged by the caller, or a KI10 page failure).
	Translate(addr uint32, write, userMode, fetch bool) (phys uint32, ok bool, fail FaultData)

	// Enabled reports whether translation/protection is currently active;
	// when false, addresses pass through unchanged (executive mode on the
	// KA10, or page_enable clear on the KI10).
	Enabled(userMode bool) bool
}
