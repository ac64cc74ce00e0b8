package cpu

// serviceEvents implements spec.md §5's suspension-point housekeeping:
// decrement the tick budget, and when it is exhausted, reload it from
// Config.ClockHz (60 when unset) and advance the host event queue by one
// cycle, which may post the clock interrupt. It runs once per call from
// Step (before fetch) and once per indirection hop, not on every memory
// reference.
func (m *Machine) serviceEvents() {
	m.tickBudget--
	if m.tickBudget > 0 {
		return
	}
	budget := m.cfg.ClockHz
	if budget <= 0 {
		budget = 60
	}
	m.tickBudget = budget
	m.Event.Advance(1)
}

// postClockTick is registered with the event queue at construction time
// and re-arms itself one queue cycle later, so it fires each time
// serviceEvents exhausts its tick budget. It sets no CPU-visible flag
// (KA/KI do not expose a software clock-ready bit in this scope) and
// requests an interrupt at clkLevel on every tick; no clock-enable bit
// gates the request.
func (m *Machine) postClockTick(_ int) {
	m.Intr.SetInterrupt(DevClock, m.clkLevel)
	m.Event.Schedule(m, m.postClockTick, 1, 0)
}
