//go:build !ki10

package cpu

/*
 * KA10 paging scenario test.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

import (
	"testing"

	"github.com/pdp10-clones/sims/devices"
	"github.com/pdp10-clones/sims/internal/iobus"
	"github.com/pdp10-clones/sims/internal/page"
	"github.com/pdp10-clones/sims/internal/word"
)

// TestScenarioKAPagingAccessDenied is spec.md §8 scenario 6: a user-mode
// reference to the high segment, with one-segment addressing in force,
// is always denied, latches AprMemProt, and posts the PI request, while
// leaving the destination AC untouched.
func TestScenarioKAPagingAccessDenied(t *testing.T) {
	m := NewMachine(Config{})
	m.Pager = &page.KA10Protection{} // Pl=0, one-segment mode

	var w uint64 = devices.AprMemProt
	if _, present := m.Bus.Dispatch(DevAPR, iobus.CONO, &w); !present {
		t.Fatal("APR not registered on the device bus")
	}

	const instrAddr = 0200 // within the Pl=0 low-segment limit (01777)
	m.writeWord(instrAddr, instrWord(0200, 1, 0400000)) // MOVE 1,400000
	m.PC = instrAddr
	m.Flags |= FlagUSER

	const sentinel = word.FMASK
	m.regWrite(1, sentinel)

	if r := m.Step(); r != StopNone {
		t.Fatalf("unexpected stop: %v", r)
	}
	if got := m.regRead(1); got != sentinel {
		t.Fatalf("AC1 = %o, want sentinel %o (operand fetch must have been denied)", got, sentinel)
	}
	if m.aprDevice.Status&devices.AprMemProt == 0 {
		t.Fatal("AprMemProt not latched in APR status")
	}
	if !m.Intr.Pending {
		t.Fatal("memory-protect fault did not post a PI request")
	}
}
