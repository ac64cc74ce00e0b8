package cpu

// resolveEffectiveAddress implements spec.md §4.2's iterative indirect+
// indexed address resolution, grounded on the `do { ... } while (ind &&
// !pi_rq)` loop read from ka10_cpu.c. Interrupts are polled between
// indirection hops; a granted interrupt abandons EA resolution entirely
// and vectors instead, matching the original's "abandon and vector"
// semantics rather than finishing the chain first.
func (m *Machine) resolveEffectiveAddress(si *stepInfo) bool {
	y := si.ea
	ind := si.ind
	xr := si.xr
	hops := 0

	for {
		if xr != 0 {
			y = uint32((uint64(y) + m.regRead(xr)) & 0777777)
		}

		if !ind {
			si.ea = y
			return true
		}

		m.serviceEvents()
		if m.stop != StopNone {
			return false
		}

		if lvl, ok := m.Intr.Arbitrate(); ok {
			m.vectorInterrupt(lvl)
			return false
		}

		hops++
		if m.cfg.MaxIndirects > 0 && hops > m.cfg.MaxIndirects {
			m.stop = StopIndirectLimit
			return false
		}

		w, ok := m.readWord(y, false, false)
		if !ok {
			si.ea = y
			return false
		}
		ind = (w>>22)&1 != 0
		xr = uint8((w >> 18) & 017)
		y = uint32(w & 0777777)
	}
}
