package devices

import "github.com/pdp10-clones/sims/internal/iobus"

// busPager is the CONI/CONO/DATAI/DATAO surface both page.KI10Pager and
// page.KA10Protection implement; kept local so this package wires either
// variant without importing the concrete type it isn't building.
type busPager interface {
	BusCONI(word *uint64)
	BusCONO(word uint64)
	BusDATAI(word *uint64)
	BusDATAO(word uint64)
}

// Pager adapts a page.Translator's bus methods onto the device-bus
// dispatch table at device number 2, spec.md §6 ("2, KI only, for the
// pager") generalized to also expose the KA10's two-segment protection
// registers at the same device number on a KA10 build, since both are
// "the paging/protection unit's bus face" from the CPU's point of view.
type Pager struct {
	P busPager
}

// NewPager returns a Pager adapting p.
func NewPager(p busPager) *Pager {
	return &Pager{P: p}
}

// Bus implements iobus.BusFunc for device 2.
func (d *Pager) Bus(op iobus.Op, word *uint64) iobus.Status {
	switch op {
	case iobus.CONI:
		d.P.BusCONI(word)
	case iobus.CONO:
		d.P.BusCONO(*word)
	case iobus.DATAI:
		d.P.BusDATAI(word)
	case iobus.DATAO:
		d.P.BusDATAO(*word)
	}
	return iobus.StatusOK
}
