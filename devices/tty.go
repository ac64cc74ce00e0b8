package devices

import (
	"bufio"
	"io"
	"sync"

	"github.com/pdp10-clones/sims/internal/iobus"
)

// TTY status bits reported by CONI, grounded on the teleprinter convention
// every DEC monitor of this era shares: one bit for "a character is waiting
// to be read", one for "the last character written has drained".
const (
	TTYInputReady  uint64 = 1
	TTYOutputReady uint64 = 2
)

// TTY is an illustrative console device-bus citizen: an input byte queue
// fed by a background reader goroutine (the same shape as the
// teacher's main.go stdin-reader goroutine, here feeding a device instead
// of a command channel) and unbuffered character output. Line discipline,
// echo, and the original's ctyi_svc double-assignment quirk are all out of
// scope (spec.md §1: console teleprinter is an external collaborator), so
// this is deliberately a minimal illustration of the CONI/DATAI/DATAO shape
// rather than a faithful terminal driver.
type TTY struct {
	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	pending []byte

	SetInterrupt func(level int)
	Level        int
}

// NewTTY starts a background reader over in and returns a TTY that writes
// output to out.
func NewTTY(in io.Reader, out io.Writer, level int, setInterrupt func(level int)) *TTY {
	t := &TTY{in: in, out: out, Level: level, SetInterrupt: setInterrupt}
	go t.readLoop()
	return t
}

func (t *TTY) readLoop() {
	r := bufio.NewReader(t.in)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		t.mu.Lock()
		t.pending = append(t.pending, b)
		t.mu.Unlock()
		if t.SetInterrupt != nil {
			t.SetInterrupt(t.Level)
		}
	}
}

// Bus implements iobus.BusFunc for whatever device number the caller
// registers this at (not one of the reserved 0/1/2/4 numbers).
func (t *TTY) Bus(op iobus.Op, word *uint64) iobus.Status {
	switch op {
	case iobus.CONI:
		t.mu.Lock()
		ready := len(t.pending) > 0
		t.mu.Unlock()
		var status uint64 = TTYOutputReady
		if ready {
			status |= TTYInputReady
		}
		*word = status
	case iobus.CONO:
		// No enable mask modeled; the device always requests at Level.
	case iobus.DATAI:
		t.mu.Lock()
		if len(t.pending) > 0 {
			*word = uint64(t.pending[0])
			t.pending = t.pending[1:]
		} else {
			*word = 0
		}
		t.mu.Unlock()
	case iobus.DATAO:
		if t.out != nil {
			_, _ = t.out.Write([]byte{byte(*word & 0377)})
		}
	}
	return iobus.StatusOK
}
