package word

import "testing"

// TestNegate36RoundTrip exercises spec.md §8's MOVN round-trip law at the
// primitive level: negating twice restores the original value, except at
// the most-negative word, which negates to itself and must be flagged by
// the caller (op_move.go handles that flagging; here we only check the
// value).
func TestNegate36RoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 1, 0123456, FMASK, SMASK, CMASK} {
		x &= FMASK
		got := Negate36(Negate36(x))
		if x == SMASK {
			if got != SMASK {
				t.Errorf("Negate36(Negate36(SMASK)) = %o, want %o", got, SMASK)
			}
			continue
		}
		if got != x {
			t.Errorf("Negate36(Negate36(%o)) = %o, want %o", x, got, x)
		}
	}
}

// TestTwosComplementLaw checks (~x + 1) + x == 0 mod 2^36 for a spread of
// values, per spec.md §8's round-trip laws.
func TestTwosComplementLaw(t *testing.T) {
	for _, x := range []uint64{0, 1, 0123456, FMASK, SMASK, CMASK} {
		x &= FMASK
		sum, _, _ := Add36(Negate36(x), x)
		if sum != 0 {
			t.Errorf("(~%o + 1) + %o = %o, want 0", x, x, sum)
		}
	}
}

// TestOverflowMatchesCarryXOR checks the invariant `(OVR set) <=>
// (carry-0 XOR carry-1)` for a handful of additions chosen to exercise
// both the overflow and non-overflow cases.
func TestOverflowMatchesCarryXOR(t *testing.T) {
	cases := []struct{ a, b uint64 }{
		{1, 2},
		{SMASK, SMASK},
		{SMASK, 1},
		{CMASK, CMASK},
		{0, 0},
	}
	for _, c := range cases {
		_, c0, c1 := Add36(c.a, c.b)
		if Overflow36(c0, c1) != (c0 != c1) {
			t.Errorf("Overflow36(%v,%v) disagrees with carry0 XOR carry1 for %o+%o", c0, c1, c.a, c.b)
		}
	}
}

// TestSwapHalvesRoundTrip checks that swapping halves twice is the
// identity, the primitive HLLZ/HLRZ round trip builds on.
func TestSwapHalvesRoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 1, 0123456765432, FMASK} {
		x &= FMASK
		if got := SwapHalves(SwapHalves(x)); got != x {
			t.Errorf("SwapHalves(SwapHalves(%o)) = %o, want %o", x, got, x)
		}
	}
}

// TestMakeWordLeftRightHalfRoundTrip checks that splitting a word into
// halves and rejoining them recovers the original word.
func TestMakeWordLeftRightHalfRoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 0123456765432, FMASK} {
		x &= FMASK
		if got := MakeWord(LeftHalf(x), RightHalf(x)); got != x {
			t.Errorf("MakeWord(LeftHalf(%o), RightHalf(%o)) = %o, want %o", x, x, got, x)
		}
	}
}

// TestBytePointerRoundTrip checks spec.md §8's `DPB(p, LDB(p, w), w) == w`
// law across several position/size combinations.
func TestBytePointerRoundTrip(t *testing.T) {
	data := uint64(0123456765432)
	cases := []struct{ pos, size uint8 }{
		{0, 6}, {6, 6}, {30, 6}, {0, 36}, {32, 4},
	}
	for _, c := range cases {
		bp := BytePointer{Position: c.pos, Size: c.size, Addr: 0200}
		extracted := bp.ExtractByte(data)
		if got := bp.DepositByte(data, extracted); got != data {
			t.Errorf("pos=%d size=%d: DepositByte(ExtractByte(w)) = %o, want %o", c.pos, c.size, got, data)
		}
	}
}

// TestBytePointerIncrementCrossesWordBoundary checks spec.md §8's INCR
// invariant: two successive increments of a size-4 byte pointer starting
// one byte short of the word boundary cross that boundary exactly once.
func TestBytePointerIncrementCrossesWordBoundary(t *testing.T) {
	bp := BytePointer{Position: 4, Size: 4, Addr: 0100}
	first, crossed := bp.Increment()
	if crossed {
		t.Fatalf("first increment unexpectedly crossed a word boundary: %+v", first)
	}
	second, crossed := first.Increment()
	if !crossed {
		t.Fatalf("second increment should have crossed a word boundary: %+v", second)
	}
	if second.Addr != bp.Addr+1 {
		t.Fatalf("word address did not advance by one: got %o want %o", second.Addr, bp.Addr+1)
	}
	if second.Position != 36-bp.Size {
		t.Fatalf("position after crossing = %d, want %d", second.Position, 36-bp.Size)
	}
}

func TestLeadingZeros36(t *testing.T) {
	cases := []struct {
		x    uint64
		want int
	}{
		{0, 36},
		{1, 35},
		{SMASK, 0},
		{FMASK, 0},
	}
	for _, c := range cases {
		if got := LeadingZeros36(c.x); got != c.want {
			t.Errorf("LeadingZeros36(%o) = %d, want %d", c.x, got, c.want)
		}
	}
}
