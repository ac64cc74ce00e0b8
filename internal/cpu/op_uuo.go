package cpu

// opUUO handles the reserved monitor-call range (opcodes 0000-0077) and
// the unassigned opcodes below the byte-instruction block (0100-0127),
// per spec.md §4.6's "000-077 UUO/MUUO" bullet. Every one of these simply
// traps; doUUOTrap (trap.go) builds the offending instruction word and
// vectors through the variant's UUO vector.
func (m *Machine) opUUO(si *stepInfo) trapCode {
	return trapUUO
}
