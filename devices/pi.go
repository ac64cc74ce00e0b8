package devices

import (
	"github.com/pdp10-clones/sims/internal/intr"
	"github.com/pdp10-clones/sims/internal/iobus"
)

// PI adapts the interrupt controller onto the device bus at device number
// 1, the real "CONO PI," / "CONI PI," convention software uses to program
// the enable mask and master pi_enable bit and to read back PIH/PIE,
// grounded on ka10_cpu.c's dev_pi CONI/CONO case and spec.md §4.5.
type PI struct {
	Ctrl *intr.Controller
}

// NewPI returns a PI device wrapping ctrl.
func NewPI(ctrl *intr.Controller) *PI {
	return &PI{Ctrl: ctrl}
}

// Bus implements iobus.BusFunc for device 1. The bus word carries level 1
// in bit 0100 down to level 7 in bit 0001; the controller keeps level L at
// 0200>>(L-1), so both directions shift the level mask by one bit.
func (p *PI) Bus(op iobus.Op, word *uint64) iobus.Status {
	switch op {
	case iobus.CONO:
		v := *word
		p.Ctrl.PIE = uint8(v&0177) << 1
		p.Ctrl.Enable = v&0200 != 0
	case iobus.CONI:
		res := uint64(p.Ctrl.PIH>>1)<<7 | uint64(p.Ctrl.PIE>>1)
		if p.Ctrl.Enable {
			res |= 1 << 14
		}
		*word = res
	case iobus.DATAI, iobus.DATAO:
		// The PI controller has no data registers.
	}
	return iobus.StatusOK
}
