// Package cpu implements a cycle-accurate interpreter for the MOS 6502
// microprocessor: the per-cycle bus transactions, addressing-mode timing,
// and opcode semantics for the full documented instruction set plus the
// commonly observed illegal opcodes.
package cpu

import "fmt"

// CPUType selects which 65xx variant's quirks a Chip reproduces.
type CPUType int

const (
	// NMOS is the stock NMOS 6502 including the full illegal opcode set.
	NMOS CPUType = iota
	// NMOSRicoh is the Ricoh variant used in the NES (2A03/2A07): identical
	// to NMOS except the D flag never selects BCD arithmetic: ADC, SBC and
	// ARR always compute in binary.
	NMOSRicoh
	// CMOS is the 65C02: the indirect-JMP page-wrap bug is fixed, and the
	// illegal load/RMW opcodes (LAX/ANC/ALR/ARR/LAS/XAA/LXA/SBX and
	// SLO/RLA/SRE/RRA/DCP/ISC) run as a no-op of their addressing mode
	// rather than their NMOS semantics. The illegal store family
	// (SAX/SHA/SHX/SHY/TAS) is not gated — see DESIGN.md for why a true
	// NOP isn't representable there without changing the opcode's cycle
	// count.
	CMOS
)

const (
	// NMIVector and ResetVector are unused by this core (no interrupt pins
	// are modeled) but are kept as named constants to complete the vector
	// table. BRK reads its target from IRQVector.
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)

	// Processor status bits, bit 7 -> bit 0.
	PNegative  = uint8(0x80)
	POverflow  = uint8(0x40)
	PS1        = uint8(0x20) // Unused bit; always reads/pushes as 1.
	PBreak     = uint8(0x10) // Only meaningful in a stack image.
	PDecimal   = uint8(0x08)
	PInterrupt = uint8(0x04)
	PZero      = uint8(0x02)
	PCarry     = uint8(0x01)
)

// UnimplementedInstruction is returned when the fetched opcode has no
// instruction-table entry or no dispatcher case. Should never fire against
// a correctly populated table; a defensive fault only.
type UnimplementedInstruction struct {
	Opcode uint8
	Cycle  int
}

func (e UnimplementedInstruction) Error() string {
	return fmt.Sprintf("unimplemented instruction 0x%.2X at cycle %d", e.Opcode, e.Cycle)
}

// IllegalCycle is returned when a micro-sequencer is asked to handle a
// cycle number outside its domain. Indicates base-cycle-count corruption or
// dispatcher misrouting; defensive-only and should never fire.
type IllegalCycle struct {
	Opcode uint8
	Cycle  int
}

func (e IllegalCycle) Error() string {
	return fmt.Sprintf("illegal cycle %d for instruction 0x%.2X", e.Cycle, e.Opcode)
}

// Jam is returned when the fetched opcode is one of the 12 JAM codes. This
// is a legitimate run terminator, not a bug: PC is rolled back to the JAM
// opcode's address so the fault identifies where the machine stopped.
type Jam struct {
	Opcode uint8
	PC     uint16
}

func (e Jam) Error() string {
	return fmt.Sprintf("CPU halted on JAM opcode 0x%.2X at 0x%.4X", e.Opcode, e.PC)
}

// TickOutOfOrder is returned when Tick is called without a matching
// TickDone call after the previous Tick. The handshake exists so a system
// wiring more than one chip to the same clock can latch every chip's
// output before any of them starts its next cycle.
type TickOutOfOrder struct{}

func (e TickOutOfOrder) Error() string {
	return "called Tick without calling TickDone after the previous Tick"
}
