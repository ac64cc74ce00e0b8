package intr

import "testing"

func TestPopCount7(t *testing.T) {
	cases := []struct {
		v    uint8
		want int
	}{
		{0, 0},
		{0200, 1},
		{0377, 7},
		{0100, 1},
		{0125, 3},
	}
	for _, c := range cases {
		if got := PopCount7(c.v); got != c.want {
			t.Errorf("PopCount7(%#o) = %d, want %d", c.v, got, c.want)
		}
	}
}

// TestHeldAndEnabledNeverExceedSevenLevels exercises spec.md §8's invariant
// popcount(PIH) + popcount(PIE & ~PIH) <= 7 across a sequence of properly
// nested grants (each new level strictly higher priority than the last
// held one, the only nesting order Arbitrate permits). PIE is set to 0377,
// which includes the non-level 0001 bit; PopCount7 counts only the seven
// level bits, so that bit does not count toward the bound.
func TestHeldAndEnabledNeverExceedSevenLevels(t *testing.T) {
	c := New()
	c.Enable = true
	c.PIE = 0377
	for _, lvl := range []int{7, 5, 3, 1} {
		c.SetInterrupt(uint16(lvl), lvl)
		l, ok := c.Arbitrate()
		if !ok {
			t.Fatalf("level %d: expected a grantable level", lvl)
		}
		if l != lvl {
			t.Fatalf("expected level %d granted, got %d", lvl, l)
		}
		c.Grant(l)
		if got := PopCount7(c.PIH) + PopCount7(c.PIE&^c.PIH); got > 7 {
			t.Fatalf("after granting level %d: popcount(PIH)+popcount(PIE&~PIH) = %d, exceeds 7", lvl, got)
		}
	}
}

// TestArbitrateBlocksSameOrLowerPriorityWhileHeld confirms the nesting
// rule that makes the downward-suffix invariant hold: once a level is
// held, only a strictly higher-priority (lower-numbered) level can be
// granted next.
func TestArbitrateBlocksSameOrLowerPriorityWhileHeld(t *testing.T) {
	c := New()
	c.Enable = true
	c.PIE = 0377

	c.SetInterrupt(3, 3)
	l, ok := c.Arbitrate()
	if !ok || l != 3 {
		t.Fatalf("expected level 3 granted, got level=%d ok=%v", l, ok)
	}
	c.Grant(l)

	c.SetInterrupt(5, 5) // lower priority than the held level 3
	if _, ok := c.Arbitrate(); ok {
		t.Fatal("level 5 should not be grantable while level 3 is held")
	}

	c.SetInterrupt(1, 1) // higher priority, should still nest
	l2, ok := c.Arbitrate()
	if !ok || l2 != 1 {
		t.Fatalf("expected level 1 grantable on top of held level 3, got level=%d ok=%v", l2, ok)
	}
}

// TestDismissPopsTheInnermostHeldLevel confirms restore_pi_hold semantics:
// dismissing always clears the highest-priority (most recently nested)
// held level, returning control to whatever was interrupted.
func TestDismissPopsTheInnermostHeldLevel(t *testing.T) {
	c := New()
	c.Enable = true
	c.PIE = 0377

	c.SetInterrupt(3, 3)
	l, _ := c.Arbitrate()
	c.Grant(l)

	c.SetInterrupt(1, 1)
	l2, _ := c.Arbitrate()
	c.Grant(l2)

	if c.PIH != 0240 {
		t.Fatalf("PIH after nesting levels 3 then 1 = %#o, want 0240", c.PIH)
	}

	c.Dismiss()
	if c.PIH != 0040 {
		t.Fatalf("Dismiss should clear only level 1 (the innermost): PIH = %#o, want 0040", c.PIH)
	}
}

func TestClrInterruptWithdrawsPendingRequest(t *testing.T) {
	c := New()
	c.Enable = true
	c.PIE = 0377

	c.SetInterrupt(4, 4)
	c.ClrInterrupt(4)
	if _, ok := c.Arbitrate(); ok {
		t.Fatal("withdrawn request should not be grantable")
	}
}

func TestDismissNoopWhenDisabled(t *testing.T) {
	c := New()
	c.PIE = 0377
	c.SetInterrupt(3, 3)
	l, _ := c.Arbitrate()
	c.Grant(l)
	c.Dismiss() // Enable is false: must be a no-op.
	if c.PIH != 0040 {
		t.Fatalf("Dismiss with Enable=false changed PIH: got %#o, want 0040", c.PIH)
	}
}
