package devices

import (
	"io"

	"github.com/pdp10-clones/sims/internal/iobus"
)

// PaperTapeReader is an illustrative DATAI-only peripheral: each access
// reads one 8-bit frame from an underlying file, reporting CONI's
// "reader has data" bit until EOF, grounded on the PDP-10's PTR device
// shape (spec.md §1 lists paper-tape peripherals as an external-collaborator
// example, exercised here via internal/iobus.BusFunc rather than modeled in
// the CPU core).
type PaperTapeReader struct {
	src io.Reader
	eof bool
}

// NewPaperTapeReader wraps src as a reader device.
func NewPaperTapeReader(src io.Reader) *PaperTapeReader {
	return &PaperTapeReader{src: src}
}

// Bus implements iobus.BusFunc.
func (r *PaperTapeReader) Bus(op iobus.Op, word *uint64) iobus.Status {
	switch op {
	case iobus.CONI:
		var status uint64
		if !r.eof {
			status |= 1
		}
		*word = status
	case iobus.DATAI:
		var b [1]byte
		n, err := r.src.Read(b[:])
		if n == 0 || err != nil {
			r.eof = true
			*word = 0
			return iobus.StatusOK
		}
		*word = uint64(b[0])
	case iobus.CONO, iobus.DATAO:
		// A reader has no control or output register.
	}
	return iobus.StatusOK
}

// PaperTapePunch is the DATAO-only counterpart, writing one 8-bit frame per
// access to an underlying file.
type PaperTapePunch struct {
	dst io.Writer
}

// NewPaperTapePunch wraps dst as a punch device.
func NewPaperTapePunch(dst io.Writer) *PaperTapePunch {
	return &PaperTapePunch{dst: dst}
}

// Bus implements iobus.BusFunc.
func (p *PaperTapePunch) Bus(op iobus.Op, word *uint64) iobus.Status {
	switch op {
	case iobus.CONI:
		*word = 1 // always ready: no punch-busy timing modeled.
	case iobus.DATAO:
		if p.dst != nil {
			if _, err := p.dst.Write([]byte{byte(*word & 0377)}); err != nil {
				return iobus.StatusError
			}
		}
	case iobus.CONO, iobus.DATAI:
		// A punch has no control or input register.
	}
	return iobus.StatusOK
}
