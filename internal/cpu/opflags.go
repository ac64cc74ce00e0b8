package cpu

// OpFlag is one bit of the operand-fetch plumbing applied generically by
// Step before and after an opcode's execute function runs. Grounded on
// ka10_cpu.c's opflags[IR] table and, for the table-construction style,
// on S370's per-opcode createTable() in emu/cpu/cpu.go: a 512-entry array
// built once at init rather than recomputed per instruction.
type OpFlag uint16

const (
	FCE    OpFlag = 1 << iota // fetch M[AB] into AR
	FCEPSE                    // fetch M[AB] into AR for a read-modify-write
	SCE                       // store AR into M[AB]
	FAC                       // BR <- AR; AR <- register[AC]
	FAC2                      // MQ <- register[AC+1]
	SAC                       // register[AC] <- AR
	SACZ                      // register[AC] <- AR, only if AC != 0
	SAC2                      // register[AC+1] <- MQ
	FBR                       // BR <- register[AC], AR left alone
	FMB                       // BR <- MB (the raw fetched word, pre-SWAR)
	SWAR                      // AR <- swap halves of AR
	FIMM                      // AR <- the effective address itself (immediate)
)

// opFlags is indexed by the full 9-bit opcode (IR bits 0-8).
var opFlags [512]OpFlag

// moveClass covers MOVE/MOVN/MOVM/MOVS: whole-word replace, not merge.
func setMoveClass(base int) {
	opFlags[base+0] = FCE | SAC
	opFlags[base+1] = FIMM | SAC
	opFlags[base+2] = FAC | SCE
	opFlags[base+3] = FCE | SCE | SACZ
}

// mergeClass covers half-word moves (HLL/HRL/...): the untouched half must
// be read from AC (or, for M, from the old memory word) before merging.
func setMergeClass(base int) {
	opFlags[base+0] = FCE | FAC | SAC
	opFlags[base+1] = FIMM | FAC | SAC
	opFlags[base+2] = FCE | FAC | SCE
	opFlags[base+3] = FCE | SCE | SACZ
}

// dyadicClass covers ADD/SUB and the sixteen boolean functions: combine AC
// and E, with the fourth (B) variant storing to both unconditionally.
func setDyadicClass(base int) {
	opFlags[base+0] = FCE | FAC | SAC
	opFlags[base+1] = FIMM | FAC | SAC
	opFlags[base+2] = FCE | FAC | SCE
	opFlags[base+3] = FCE | FAC | SCE | SAC
}

func init() {
	// 200-217: MOVE, MOVS (handler also applies SWAR via its own AR swap
	// for the S-suffixed mnemonics, selected by sub-group not by opflags).
	setMoveClass(0200)
	setMoveClass(0204)
	setMoveClass(0210)
	setMoveClass(0214)

	// 400-477: the sixteen two-operand Boolean functions.
	for base := 0400; base <= 0474; base += 4 {
		setDyadicClass(base)
	}

	// 500-577: the sixteen half-word move combinations.
	for base := 0500; base <= 0574; base += 4 {
		setMergeClass(base)
	}

	// 270-277: ADD, SUB.
	setDyadicClass(0270)
	setDyadicClass(0274)

	// 140-177: FAD/FSB/FMP/FDV, each in basic/immediate/memory/both
	// addressing and, in the upper half of its 8-opcode span, a rounded
	// variant that shares the same addressing classes.
	for base := 0140; base <= 0174; base += 4 {
		setDyadicClass(base)
	}

	// 220-237: IMUL/MUL/IDIV/DIV share the dyadic shape; the handler
	// interprets AR/BR/MQ per its own multi-word semantics. MUL/IDIV/DIV
	// additionally use the AC+1 register for the second half of their
	// double-precision result; DIV also consumes AC+1 as the low half of
	// its double-precision dividend.
	setDyadicClass(0220) // IMUL: single-word result, no AC+1 involvement.
	setDyadicClass(0224)
	setDyadicClass(0230)
	setDyadicClass(0234)
	for base := 0224; base <= 0234; base += 4 {
		opFlags[base+0] |= SAC2
		opFlags[base+1] |= SAC2
		opFlags[base+2] |= SAC2
		opFlags[base+3] |= SAC2
	}
	for base := 0234; base <= 0234; base += 4 {
		opFlags[base+0] |= FAC2
		opFlags[base+1] |= FAC2
		opFlags[base+2] |= FAC2
		opFlags[base+3] |= FAC2
	}

	// 600-677: test family reads E as an immediate mask and AC as the
	// value tested; SAC is always applied (re-storing an unchanged AC is
	// harmless for the "no-modify" mnemonics). The four opcodes within
	// each 16-family block select a skip condition, not an addressing
	// class, so they share identical flags; opTest reads si.op&03 itself.
	for base := 0600; base <= 0674; base += 4 {
		opFlags[base+0] = FIMM | FAC | SAC
		opFlags[base+1] = FIMM | FAC | SAC
		opFlags[base+2] = FIMM | FAC | SAC
		opFlags[base+3] = FIMM | FAC | SAC
	}
}
