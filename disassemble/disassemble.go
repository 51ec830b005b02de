// Package disassemble implements a disassembler for 6502 opcodes, driven
// entirely by the cpu package's static instruction table rather than its
// own parallel opcode switch.
package disassemble

import (
	"fmt"

	"github.com/nilsson-wyse/sixfiveohtwo/cpu"
	"github.com/nilsson-wyse/sixfiveohtwo/memory"
)

// Step disassembles the instruction at pc, returning a fixed-width
// listing line and the number of bytes the PC should advance to reach
// the next instruction. It does not interpret control flow: a JMP in
// the stream disassembles as JMP, it is not followed.
//
// This always reads up to 2 bytes past pc, so the caller must ensure
// that range is addressable even when the instruction itself is
// shorter.
func Step(pc uint16, r memory.Ram) (string, int) {
	opcode := r.Read(pc)
	op1 := r.Read(pc + 1)
	op2 := r.Read(pc + 2)

	mnemonic, mode, length := cpu.Disassembly(opcode)
	if mnemonic == "BRK" {
		// BRK reads and discards the byte after it; show that byte rather
		// than hiding it the way a true Implied instruction would.
		mode = cpu.Immediate
	}

	out := fmt.Sprintf("%.4X %.2X ", pc, opcode)
	switch mode {
	case cpu.Immediate:
		out += fmt.Sprintf("%.2X      %s #%.2X       ", op1, mnemonic, op1)
	case cpu.ZeroPage:
		out += fmt.Sprintf("%.2X      %s %.2X        ", op1, mnemonic, op1)
	case cpu.ZeroPageX:
		out += fmt.Sprintf("%.2X      %s %.2X,X      ", op1, mnemonic, op1)
	case cpu.ZeroPageY:
		out += fmt.Sprintf("%.2X      %s %.2X,Y      ", op1, mnemonic, op1)
	case cpu.IndirectX:
		out += fmt.Sprintf("%.2X      %s (%.2X,X)    ", op1, mnemonic, op1)
	case cpu.IndirectY:
		out += fmt.Sprintf("%.2X      %s (%.2X),Y    ", op1, mnemonic, op1)
	case cpu.Absolute:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X      ", op1, op2, mnemonic, op2, op1)
	case cpu.AbsoluteX:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,X    ", op1, op2, mnemonic, op2, op1)
	case cpu.AbsoluteY:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,Y    ", op1, op2, mnemonic, op2, op1)
	case cpu.Indirect:
		out += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X)    ", op1, op2, mnemonic, op2, op1)
	case cpu.Implied, cpu.Accumulator:
		out += fmt.Sprintf("        %s           ", mnemonic)
	case cpu.Relative:
		target := pc + uint16(int16(int8(op1))) + 2
		out += fmt.Sprintf("%.2X      %s %.2X (%.4X) ", op1, mnemonic, op1, target)
	default:
		panic(fmt.Sprintf("invalid addressing mode: %d", mode))
	}
	return out, int(length)
}
