/*
   cpu: main CPU instruction fetch and execute.

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

// Package cpu is the PDP-10 instruction execution core: fetch/decode,
// effective-address resolution, the opflags-driven operand scaffold, the
// per-family opcode handlers, interrupt vectoring, and the trap/UUO path.
//
// Unlike the teacher's package-level sysCPU global (emu/cpu/cpu.go), state
// lives entirely on an owned *Machine aggregate, per spec.md §9's explicit
// "re-architect as a single owned Machine aggregate" design note.
package cpu

import (
	"github.com/pdp10-clones/sims/devices"
	"github.com/pdp10-clones/sims/internal/event"
	"github.com/pdp10-clones/sims/internal/intr"
	"github.com/pdp10-clones/sims/internal/iobus"
	"github.com/pdp10-clones/sims/internal/memory"
	"github.com/pdp10-clones/sims/internal/page"
	"github.com/pdp10-clones/sims/internal/word"
)

// Reserved device numbers, per spec.md §6.
const (
	DevAPR    uint16 = 0
	DevPI     uint16 = 1
	DevPager  uint16 = 2 // KA10 protection or KI10 pager
	DevClock  uint16 = 4
)

const (
	FMASK = word.FMASK
	SMASK = word.SMASK
	RMASK = 0o777777 // untyped, so it masks uint32 addresses as well as words
	LMASK = word.LMASK
	CMASK = word.CMASK
)

// FlagBit names one bit of the FLAGS register. Bit assignment is internal
// to this emulator (no historical monitor code is booted in this scope,
// per SPEC_FULL.md's Non-goals), but the thirteen user-visible flags named
// in spec.md §3 are all present with stable positions.
type FlagBit uint16

const (
	FlagOVR FlagBit = 1 << iota
	FlagCRY0
	FlagCRY1
	FlagFLTOVR
	FlagBIS // byte-interrupt (BYTI)
	FlagUSER
	FlagUSERIO
	FlagPUBLIC
	FlagFLTUND
	FlagNODIV
	FlagTRAP1
	FlagTRAP2
	FlagJFCL // jump-conditional hardware flags 9-12, collapsed to one bit group
)

// StopReason is why Machine.Step/Run returned without completing another
// instruction, per spec.md §7's fatal-stop taxonomy.
type StopReason int

const (
	StopNone StopReason = iota
	StopHalt
	StopUnimplementedDuringInterrupt
	StopIndirectLimit
	StopXCTLimit
	StopIODeviceError
	StopBreakpoint
)

func (s StopReason) String() string {
	switch s {
	case StopNone:
		return "none"
	case StopHalt:
		return "halt"
	case StopUnimplementedDuringInterrupt:
		return "unimplemented during interrupt"
	case StopIndirectLimit:
		return "indirection limit exceeded"
	case StopXCTLimit:
		return "XCT nesting limit exceeded"
	case StopIODeviceError:
		return "I/O device hard error"
	case StopBreakpoint:
		return "breakpoint"
	default:
		return "?"
	}
}

// trapCode is the outcome of an opcode handler: whether it raised an
// architectural trap, and if so which vector services it. Architectural
// traps are never Go errors (spec.md §7): they are reflected into FLAGS
// or fault_data by the handler itself; trapCode only tells Step whether
// the normal writeback/PC-advance epilogue should run.
type trapCode int

const (
	trapNone trapCode = iota
	trapUUO
	trapPageFail
	trapHalt
)

// Config is the construction-time configuration surface of spec.md §6.
type Config struct {
	MemWords     uint32
	TwoSegment   bool // KA10 only
	ClockHz      int
	HistorySize  int // 0 disables the ring; else clamped to [64, 65536]
	MaxIndirects int // 0 = unbounded
	MaxXCT       int // 0 = unbounded
	APRLevel     int // priority level the APR pseudo-device requests at
	ClkLevel     int // priority level the realtime clock requests at
}

// Machine is the whole owned CPU aggregate: registers, memory, the device
// bus, the interrupt controller, the paging unit, and the host event
// queue. Every collaborator (devices, the front-end) holds a *Machine
// reference rather than touching package-level state.
type Machine struct {
	PC    uint32
	Flags FlagBit

	AR, BR, MQ, AD uint64
	MB             uint64
	AB             uint32
	IR             uint32
	AC             uint8
	SC             int
	FE             int

	FM [64]uint64 // fast-memory: 16 regs on KA10, 4x16 blocks on KI10

	Mem   *memory.Memory
	Bus   *iobus.Bus
	Intr  *intr.Controller
	Pager page.Translator
	Event *event.Queue

	cfg Config

	uuoCycle  bool
	piCycle   bool
	piLevel   int
	xctDepth  int
	indDepth  int
	sacInh    bool
	pcInhibit bool

	blt struct {
		active     bool
		ac         uint8
		srcLeft    uint32
		dstRight   uint32
		remaining  int
	}

	byteState struct {
		active bool
		byf5   bool
		ptr    word.BytePointer
		ac     uint8
		load   bool // true: LDB/ILDB family; false: DPB/IDPB family
	}

	hist *History

	tickBudget int
	stop       StopReason

	lastFault page.FaultData
	aprLevel  int
	clkLevel  int
	aprDevice *devices.APR
}

// stepInfo threads per-instruction decode results through the operand
// scaffold and the opcode handler.
type stepInfo struct {
	op   uint32 // full 9-bit opcode
	ac   uint8
	ea   uint32
	ind  bool
	xr   uint8
}

// opFunc is the signature every per-family handler implements.
type opFunc func(m *Machine, si *stepInfo) trapCode

// dispatch routes a decoded instruction to its family handler by opcode
// range, grounded on spec.md §4.6's group bullet list.
func (m *Machine) dispatch(si *stepInfo) trapCode {
	op := si.op
	switch {
	case op <= 0077:
		return m.opUUO(si)
	case op >= 0100 && op <= 0127:
		return m.opUUO(si)
	case op >= 0130 && op <= 0137:
		return m.opByte(si)
	case op >= 0140 && op <= 0177:
		return m.opFloat(si)
	case op >= 0200 && op <= 0217:
		return m.opMove(si)
	case op >= 0220 && op <= 0237:
		return m.opMulDiv(si)
	case op >= 0240 && op <= 0247:
		return m.opShift(si)
	case op >= 0250 && op <= 0257:
		return m.opBranch(si)
	case op >= 0260 && op <= 0267:
		return m.opStack(si)
	case op >= 0270 && op <= 0277:
		return m.opAddSub(si)
	case op >= 0300 && op <= 0377:
		return m.opCompareSkip(si)
	case op >= 0400 && op <= 0477:
		return m.opBool(si)
	case op >= 0500 && op <= 0577:
		return m.opHalf(si)
	case op >= 0600 && op <= 0677:
		return m.opTest(si)
	case op >= 0700 && op <= 0777:
		return m.opIOT(si)
	}
	return m.opUUO(si)
}

// Step executes exactly one instruction (or one pi-cycle vector fetch),
// per the Fetch -> EAResolve -> PossibleInterruptVector -> OperandFetch ->
// Execute -> Writeback -> Advance phases of SPEC_FULL.md §4.7.
func (m *Machine) Step() StopReason {
	m.stop = StopNone

	// Suspension point: before instruction fetch.
	m.serviceEvents()
	if m.stop != StopNone {
		return m.stop
	}

	if lvl, ok := m.Intr.Arbitrate(); ok && !m.byteState.active && !m.blt.active {
		m.vectorInterrupt(lvl)
	}

	fetchPC := m.PC
	word0, ok := m.readWord(fetchPC, false, true)
	if !ok {
		return m.stop
	}
	m.MB = word0

	si := decodeInstruction(word0)

	if !m.resolveEffectiveAddress(&si) {
		return m.stop
	}

	m.executeOne(&si, fetchPC)
	if m.stop != StopNone {
		return m.stop
	}

	if !m.pcInhibit {
		m.PC = (m.PC + 1) & RMASK
	}
	m.checkArithmeticTraps()
	return m.stop
}

// executeOne runs the operand-fetch/dispatch/writeback portion of the
// pipeline for an already-decoded, already-EA-resolved instruction.
// Step uses it for the normally fetched instruction; XCT (op_branch.go)
// reuses it to execute a target instruction in place, per spec.md §4.6's
// "256 XCT" bullet, without going through fetch or PC advance again.
func (m *Machine) executeOne(si *stepInfo, histPC uint32) {
	m.AC = si.ac
	flags := opFlags[si.op]
	m.sacInh = false
	m.pcInhibit = false
	fetchOK := true

	if flags&(FCE|FCEPSE) != 0 {
		v, ok := m.readWord(si.ea, false, false)
		if !ok {
			m.sacInh = true
			fetchOK = false
		} else {
			m.AR = v
		}
	} else if flags&FIMM != 0 {
		m.AR = uint64(si.ea)
	}

	if !fetchOK {
		return
	}

	if flags&FAC != 0 {
		m.BR = m.AR
		m.AR = m.regRead(si.ac)
	}
	if flags&FBR != 0 {
		m.BR = m.regRead(si.ac)
	}
	if flags&FMB != 0 {
		m.BR = m.MB
	}
	if flags&SWAR != 0 {
		m.AR = word.SwapHalves(m.AR)
	}
	if flags&FAC2 != 0 {
		m.MQ = m.regRead((si.ac + 1) & 017)
	}

	m.recordHistory(histPC, si.ea, si.op)

	switch m.dispatch(si) {
	case trapUUO:
		m.doUUOTrap(si)
		m.sacInh = true
	case trapPageFail:
		m.sacInh = true
	case trapHalt:
		m.stop = StopHalt
		return
	}

	if !m.sacInh {
		if flags&(SCE|FCEPSE) != 0 {
			m.writeWord(si.ea, m.AR)
		}
		if flags&SAC != 0 {
			m.regWrite(si.ac, m.AR)
		}
		if flags&SACZ != 0 && si.ac != 0 {
			m.regWrite(si.ac, m.AR)
		}
		if flags&SAC2 != 0 {
			m.regWrite((si.ac+1)&017, m.MQ)
		}
	}
}

// Run repeatedly steps until a stop reason other than StopNone is hit.
func (m *Machine) Run() StopReason {
	for {
		if r := m.Step(); r != StopNone {
			return r
		}
	}
}

func decodeInstruction(w uint64) stepInfo {
	return stepInfo{
		op:  uint32((w >> 27) & 0777),
		ac:  uint8((w >> 23) & 017),
		ind: (w>>22)&1 != 0,
		xr:  uint8((w >> 18) & 017),
		ea:  uint32(w & 0777777),
	}
}

func (m *Machine) userMode() bool {
	return m.Flags&FlagUSER != 0
}
