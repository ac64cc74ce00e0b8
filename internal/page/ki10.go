package page

// MemReader reads a physical memory word for page-table walks. Supplied by
// internal/cpu so the pager never depends on internal/memory directly.
type MemReader func(addr uint32) (value uint64, ok bool)

const (
	ki10PageShift = 9      // 512-word pages
	ki10PageMask  = 0777   // low 9 bits: offset within a page
	ki10PTEValid  = 0400000 // bit 0 of an 18-bit PTE half: entry valid
	ki10PTEWrite  = 0100000 // bit 2: write-permit
	ki10PTEPage   = 0037777 // low 14 bits: physical page number

	ki10ExecOverlapLo = 0340 // executive pages 340-377 overlap user space
	ki10ExecOverlapHi = 0377
	ki10ExecOverlapShift = 01000 - 0340 // rebasing applied to overlap pages

	ki10ExecHighLo = 0400 // executive pages 400-777 map via eb_ptr
)

// KI10Pager implements spec.md §4.4's KI10 paging scheme: a two-level
// selection of page-table base (user vs executive, with the xct_flag
// previous-context override and the 340-377 executive/user overlap
// rebasing) followed by a single-level page-table lookup.
type KI10Pager struct {
	UBPtr, EBPtr  uint32 // page-table base word addresses
	PageEnable    bool
	SmallUser     bool
	UserAddrCmp   bool
	FMSel         uint8
	ACStack       uint32
	XCTFlag       bool // forces previous-context base for this access

	FaultWord uint64 // latched fault_data from the most recent failure

	Mem MemReader
}

// Enabled reports whether paging is active for this access.
func (p *KI10Pager) Enabled(_ bool) bool {
	return p.PageEnable
}

// Translate implements spec.md §4.4's KI10 rule.
func (p *KI10Pager) Translate(addr uint32, write, userMode, _ bool) (phys uint32, ok bool, fail FaultData) {
	page := addr >> ki10PageShift
	offset := addr & ki10PageMask

	if !p.PageEnable {
		return addr, true, FaultData{}
	}

	// Small-user limit: force a page-fail without consulting the table.
	if userMode && p.SmallUser && page >= 0400 {
		fd := FaultData{Page: page, User: userMode, Write: write}
		p.FaultWord = fd.Pack()
		return 0, false, fd
	}

	useUser := userMode || p.XCTFlag
	if !useUser && page >= ki10ExecOverlapLo && page <= ki10ExecOverlapHi {
		// Executive reference into the 340-377 user-overlap window: rebase
		// into the user page-table's address space.
		useUser = true
		page += ki10ExecOverlapShift
	}

	var base uint32
	switch {
	case useUser:
		base = p.UBPtr
	case page >= ki10ExecHighLo:
		base = p.EBPtr
		page -= ki10ExecHighLo
	default:
		// Pages 0-337 in executive mode are direct-mapped, no table walk.
		return addr, true, FaultData{}
	}

	ptWord := base + (page >> 1)
	word, memOK := p.Mem(ptWord)
	if !memOK {
		fd := FaultData{Page: page, User: userMode, Write: write}
		p.FaultWord = fd.Pack()
		return 0, false, fd
	}

	var half uint64
	if page&1 == 0 {
		half = (word >> 18) & 0777777
	} else {
		half = word & 0777777
	}

	valid := half&ki10PTEValid != 0
	writePerm := half&ki10PTEWrite != 0
	if !valid || (write && !writePerm) {
		fd := FaultData{Page: page, User: userMode, Write: write, WritePerm: writePerm}
		p.FaultWord = fd.Pack()
		return 0, false, fd
	}

	physPage := uint32(half & ki10PTEPage)
	return (physPage << ki10PageShift) | offset, true, FaultData{}
}

// BusCONI reads pager control status, grounded on dev_pag's CONI case
// (original source always returns a zero word here).
func (p *KI10Pager) BusCONI(word *uint64) {
	*word = 0
}

// BusCONO sets the AC-stack pointer and page-reload counter, grounded on
// dev_pag's CONO case. The page-reload counter itself is not modeled (no
// software-visible TLB reload timing in this emulator), so only ac_stack
// is retained.
func (p *KI10Pager) BusCONO(word uint64) {
	p.ACStack = uint32(word>>9) & 0760
}

// BusDATAO loads the executive/user base pointers and flags, grounded on
// dev_pag's DATAO case.
func (p *KI10Pager) BusDATAO(word uint64) {
	if word&ki10PTEValid != 0 { // LSIGN-equivalent low-half marker reused as "set exec half"
		p.EBPtr = uint32(word&017777) << ki10PageShift
		p.PageEnable = word&020000 != 0
	}
	if word&0400000000000 != 0 { // SMASK: "set user half"
		p.UBPtr = uint32((word>>18)&017777) << ki10PageShift
		p.UserAddrCmp = word&00020000000000 != 0
		p.SmallUser = word&00040000000000 != 0
		p.FMSel = uint8((word & 00300000000000) >> 29)
	}
}

// BusDATAI reads back the current base pointers and flags, grounded on
// dev_pag's DATAI case.
func (p *KI10Pager) BusDATAI(word *uint64) {
	res := uint64(p.EBPtr >> ki10PageShift)
	if p.PageEnable {
		res |= 020000
	}
	res |= uint64(p.UBPtr) << ki10PageShift
	if p.UserAddrCmp {
		res |= 00020000000000
	}
	if p.SmallUser {
		res |= 00040000000000
	}
	res |= uint64(p.FMSel) << 29
	*word = res
}
