package cpu

import "github.com/nilsson-wyse/sixfiveohtwo/memory"

// loadOp applies a Read-class opcode's effect given the operand byte
// fetched from the bus (or, for illegal opcodes, the same byte reused as
// both an AND mask and a load source).
type loadOp func(c *Chip, val uint8)

// rmwOp applies a Read-Modify-Write opcode's effect to the byte read from
// memory and returns the value to write back.
type rmwOp func(c *Chip, val uint8) uint8

// storeOp computes the byte a Write-class opcode deposits on the bus.
// addr is the final (already index-fixed) address, needed by the
// high-byte-AND family (SHA/SHX/SHY/TAS).
type storeOp func(c *Chip, addr uint16) uint8

func (c *Chip) indexReg(mode AddressingMode) uint8 {
	switch mode {
	case ZeroPageX, AbsoluteX:
		return c.X
	case ZeroPageY, AbsoluteY:
		return c.Y
	}
	return 0
}

// readCycle dispatches a Read-class instruction to the sequencer for its
// addressing mode.
func (c *Chip) readCycle(op loadOp) (bool, error) {
	mode := c.current.Mode
	switch mode {
	case Immediate:
		return c.immediate2(op)
	case ZeroPage:
		return c.readZeroPage(op)
	case ZeroPageX, ZeroPageY:
		return c.readZeroPageIndexed(op, c.indexReg(mode))
	case Absolute:
		return c.readAbsolute(op)
	case AbsoluteX, AbsoluteY:
		return c.readAbsoluteIndexed(op, c.indexReg(mode))
	case IndirectX:
		return c.readIndirectX(op)
	case IndirectY:
		return c.readIndirectY(op)
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) readZeroPage(op loadOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		addr := uint16(c.retained)
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		op(c, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) readZeroPageIndexed(op loadOp, index uint8) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		addr := uint16(c.retained + index)
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		op(c, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) readAbsolute(op loadOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.opAddr = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 4:
		c.RW = memory.Read
		c.Address = c.opAddr
		c.Data = c.ram.Read(c.opAddr)
		op(c, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) readAbsoluteIndexed(op loadOp, index uint8) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.opAddr = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 4:
		lowSum := uint16(c.opAddr&0xFF) + uint16(index)
		crossed := lowSum >= 0x100
		addr := (c.opAddr & 0xFF00) | (lowSum & 0xFF)
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		if crossed {
			c.pageCrossed = 1
			return false, nil
		}
		op(c, c.Data)
		return true, nil
	case 5:
		addr := c.opAddr + uint16(index)
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		op(c, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) readIndirectX(op loadOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		zp := c.retained + c.X
		c.RW = memory.Read
		c.Address = uint16(zp)
		lo := c.ram.Read(c.Address)
		c.opAddr = uint16(lo)
		return false, nil
	case 5:
		zp := c.retained + c.X + 1
		c.RW = memory.Read
		c.Address = uint16(zp)
		hi := c.ram.Read(c.Address)
		c.opAddr = uint16(hi)<<8 | (c.opAddr & 0xFF)
		return false, nil
	case 6:
		c.RW = memory.Read
		c.Address = c.opAddr
		c.Data = c.ram.Read(c.opAddr)
		op(c, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) readIndirectY(op loadOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		lo := c.ram.Read(c.Address)
		c.opAddr = uint16(lo)
		return false, nil
	case 4:
		zp := c.retained + 1
		c.RW = memory.Read
		c.Address = uint16(zp)
		hi := c.ram.Read(c.Address)
		c.opAddr = uint16(hi)<<8 | (c.opAddr & 0xFF)
		return false, nil
	case 5:
		lowSum := (c.opAddr & 0xFF) + uint16(c.Y)
		crossed := lowSum >= 0x100
		addr := (c.opAddr & 0xFF00) | (lowSum & 0xFF)
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		if crossed {
			c.pageCrossed = 1
			return false, nil
		}
		op(c, c.Data)
		return true, nil
	case 6:
		addr := c.opAddr + uint16(c.Y)
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		op(c, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// writeCycle dispatches a Write-class instruction (STA/STX/STY/SAX and
// the SHA/SHX/SHY/TAS high-byte-AND family) to its addressing sequencer.
func (c *Chip) writeCycle(op storeOp) (bool, error) {
	mode := c.current.Mode
	switch mode {
	case ZeroPage:
		return c.writeZeroPage(op)
	case ZeroPageX, ZeroPageY:
		return c.writeZeroPageIndexed(op, c.indexReg(mode))
	case Absolute:
		return c.writeAbsolute(op)
	case AbsoluteX, AbsoluteY:
		return c.writeAbsoluteIndexed(op, c.indexReg(mode))
	case IndirectX:
		return c.writeIndirectX(op)
	case IndirectY:
		return c.writeIndirectY(op)
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// unstableHighByteAnd marks the SHA/SHX/SHY/TAS family, whose stored
// value replaces the target address's high byte whenever the indexed
// address computation crossed a page — the commonly documented (if
// electrically unstable) behavior spec.md asks for.
func unstableHighByteAnd(mnemonic string) bool {
	switch mnemonic {
	case "SHA", "SHX", "SHY", "TAS":
		return true
	}
	return false
}

func (c *Chip) writeZeroPage(op storeOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		addr := uint16(c.retained)
		val := op(c, addr)
		c.RW = memory.Write
		c.Address = addr
		c.Data = val
		c.ram.Write(addr, val)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) writeZeroPageIndexed(op storeOp, index uint8) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		addr := uint16(c.retained + index)
		val := op(c, addr)
		c.RW = memory.Write
		c.Address = addr
		c.Data = val
		c.ram.Write(addr, val)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) writeAbsolute(op storeOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.opAddr = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 4:
		val := op(c, c.opAddr)
		c.RW = memory.Write
		c.Address = c.opAddr
		c.Data = val
		c.ram.Write(c.opAddr, val)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) writeAbsoluteIndexed(op storeOp, index uint8) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.opAddr = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 4:
		lowSum := (c.opAddr & 0xFF) + uint16(index)
		if lowSum >= 0x100 {
			c.pageCrossed = 1
		}
		unfixed := (c.opAddr & 0xFF00) | (lowSum & 0xFF)
		c.RW = memory.Read
		c.Address = unfixed
		c.Data = c.ram.Read(unfixed)
		return false, nil
	case 5:
		addr := c.opAddr + uint16(index)
		val := op(c, addr)
		if unstableHighByteAnd(c.current.Mnemonic) && c.pageCrossed == 1 {
			addr = uint16(val)<<8 | (addr & 0xFF)
		}
		c.RW = memory.Write
		c.Address = addr
		c.Data = val
		c.ram.Write(addr, val)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) writeIndirectX(op storeOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		zp := c.retained + c.X
		c.RW = memory.Read
		c.Address = uint16(zp)
		lo := c.ram.Read(c.Address)
		c.opAddr = uint16(lo)
		return false, nil
	case 5:
		zp := c.retained + c.X + 1
		c.RW = memory.Read
		c.Address = uint16(zp)
		hi := c.ram.Read(c.Address)
		c.opAddr = uint16(hi)<<8 | (c.opAddr & 0xFF)
		return false, nil
	case 6:
		val := op(c, c.opAddr)
		c.RW = memory.Write
		c.Address = c.opAddr
		c.Data = val
		c.ram.Write(c.opAddr, val)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) writeIndirectY(op storeOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		lo := c.ram.Read(c.Address)
		c.opAddr = uint16(lo)
		return false, nil
	case 4:
		zp := c.retained + 1
		c.RW = memory.Read
		c.Address = uint16(zp)
		hi := c.ram.Read(c.Address)
		c.opAddr = uint16(hi)<<8 | (c.opAddr & 0xFF)
		return false, nil
	case 5:
		lowSum := (c.opAddr & 0xFF) + uint16(c.Y)
		if lowSum >= 0x100 {
			c.pageCrossed = 1
		}
		unfixed := (c.opAddr & 0xFF00) | (lowSum & 0xFF)
		c.RW = memory.Read
		c.Address = unfixed
		c.Data = c.ram.Read(unfixed)
		return false, nil
	case 6:
		addr := c.opAddr + uint16(c.Y)
		val := op(c, addr)
		if unstableHighByteAnd(c.current.Mnemonic) && c.pageCrossed == 1 {
			addr = uint16(val)<<8 | (addr & 0xFF)
		}
		c.RW = memory.Write
		c.Address = addr
		c.Data = val
		c.ram.Write(addr, val)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// rmwCycle dispatches a Read-Modify-Write instruction to its addressing
// sequencer. Every RMW sequencer performs a dummy write of the
// unmodified value before the real, modified write — this is observable
// on real hardware and is part of what makes RMW timing distinct from a
// plain store.
func (c *Chip) rmwCycle(op rmwOp) (bool, error) {
	mode := c.current.Mode
	switch mode {
	case ZeroPage:
		return c.rmwZeroPage(op)
	case ZeroPageX:
		return c.rmwZeroPageIndexed(op, c.X)
	case Absolute:
		return c.rmwAbsolute(op)
	case AbsoluteX, AbsoluteY:
		return c.rmwAbsoluteIndexed(op, c.indexReg(mode))
	case IndirectX:
		return c.rmwIndirectX(op)
	case IndirectY:
		return c.rmwIndirectY(op)
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rmwZeroPage(op rmwOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.opAddr = uint16(c.retained)
		c.RW = memory.Read
		c.Address = c.opAddr
		c.Data = c.ram.Read(c.opAddr)
		return false, nil
	case 4:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		c.Data = op(c, c.Data)
		return false, nil
	case 5:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rmwZeroPageIndexed(op rmwOp, index uint8) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		c.opAddr = uint16(c.retained + index)
		c.RW = memory.Read
		c.Address = c.opAddr
		c.Data = c.ram.Read(c.opAddr)
		return false, nil
	case 5:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		c.Data = op(c, c.Data)
		return false, nil
	case 6:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rmwAbsolute(op rmwOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.opAddr = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 4:
		c.RW = memory.Read
		c.Address = c.opAddr
		c.Data = c.ram.Read(c.opAddr)
		return false, nil
	case 5:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		c.Data = op(c, c.Data)
		return false, nil
	case 6:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rmwAbsoluteIndexed(op rmwOp, index uint8) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.opAddr = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 4:
		lowSum := (c.opAddr & 0xFF) + uint16(index)
		if lowSum >= 0x100 {
			c.pageCrossed = 1
		}
		unfixed := (c.opAddr & 0xFF00) | (lowSum & 0xFF)
		c.RW = memory.Read
		c.Address = unfixed
		c.Data = c.ram.Read(unfixed)
		return false, nil
	case 5:
		addr := c.opAddr + uint16(index)
		c.opAddr = addr
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		return false, nil
	case 6:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		c.Data = op(c, c.Data)
		return false, nil
	case 7:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rmwIndirectX(op rmwOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		zp := c.retained + c.X
		c.RW = memory.Read
		c.Address = uint16(zp)
		lo := c.ram.Read(c.Address)
		c.opAddr = uint16(lo)
		return false, nil
	case 5:
		zp := c.retained + c.X + 1
		c.RW = memory.Read
		c.Address = uint16(zp)
		hi := c.ram.Read(c.Address)
		c.opAddr = uint16(hi)<<8 | (c.opAddr & 0xFF)
		return false, nil
	case 6:
		c.RW = memory.Read
		c.Address = c.opAddr
		c.Data = c.ram.Read(c.opAddr)
		return false, nil
	case 7:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		c.Data = op(c, c.Data)
		return false, nil
	case 8:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rmwIndirectY(op rmwOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = uint16(c.retained)
		lo := c.ram.Read(c.Address)
		c.opAddr = uint16(lo)
		return false, nil
	case 4:
		zp := c.retained + 1
		c.RW = memory.Read
		c.Address = uint16(zp)
		hi := c.ram.Read(c.Address)
		c.opAddr = uint16(hi)<<8 | (c.opAddr & 0xFF)
		return false, nil
	case 5:
		lowSum := (c.opAddr & 0xFF) + uint16(c.Y)
		if lowSum >= 0x100 {
			c.pageCrossed = 1
		}
		unfixed := (c.opAddr & 0xFF00) | (lowSum & 0xFF)
		c.RW = memory.Read
		c.Address = unfixed
		c.Data = c.ram.Read(unfixed)
		return false, nil
	case 6:
		addr := c.opAddr + uint16(c.Y)
		c.opAddr = addr
		c.RW = memory.Read
		c.Address = addr
		c.Data = c.ram.Read(addr)
		return false, nil
	case 7:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		c.Data = op(c, c.Data)
		return false, nil
	case 8:
		c.RW = memory.Write
		c.Address = c.opAddr
		c.ram.Write(c.opAddr, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// branch drives a conditional-branch instruction. The not-taken and
// no-page-cross cases finish in 2 and 3 cycles; a branch whose target
// crosses a page takes a 4th cycle to fix PC's high byte, reproducing
// the classic 6502 "dummy read at the wrong page" behavior.
func (c *Chip) branch(taken bool) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		if !taken {
			return true, nil
		}
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		offset := int8(c.retained)
		target := uint16(int32(c.PC) + int32(offset))
		samePage := (c.PC & 0xFF00) | (target & 0xFF)
		if target != samePage {
			c.pageCrossed = 2
			c.opAddr = target
			c.PC = samePage
			return false, nil
		}
		c.PC = target
		return true, nil
	case 4:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		c.PC = c.opAddr
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// implied2 is the 2-cycle Implied/Accumulator sequencer: a discard read
// of the next opcode's address with no PC advance.
func (c *Chip) implied2(op func(c *Chip)) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		op(c)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// immediate2 is the 2-cycle Immediate sequencer: the operand byte is
// read and PC advances past it.
func (c *Chip) immediate2(op loadOp) (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		c.PC++
		op(c, c.Data)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) jmpAbsolute() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.PC = uint16(hi)<<8 | uint16(c.retained)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// jmpIndirect reproduces the classic NMOS bug: the pointer's high-byte
// fetch wraps within the same page rather than carrying into the next
// one. CMOS fixes the bug at the cost of one extra cycle.
func (c *Chip) jmpIndirect() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC++
		c.opAddr = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 4:
		c.RW = memory.Read
		c.Address = c.opAddr
		c.retained = c.ram.Read(c.opAddr)
		return false, nil
	case 5:
		if c.cpuType == CMOS {
			c.RW = memory.Read
			c.Address = c.opAddr
			c.Data = c.ram.Read(c.opAddr)
			return false, nil
		}
		ptrHi := (c.opAddr & 0xFF00) | uint16(uint8(c.opAddr)+1)
		hi := c.ram.Read(ptrHi)
		c.RW = memory.Read
		c.Address = ptrHi
		c.Data = hi
		c.PC = uint16(hi)<<8 | uint16(c.retained)
		return true, nil
	case 6:
		ptrHi := c.opAddr + 1
		hi := c.ram.Read(ptrHi)
		c.RW = memory.Read
		c.Address = ptrHi
		c.Data = hi
		c.PC = uint16(hi)<<8 | uint16(c.retained)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) jsr() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.retained = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = 0x0100 | uint16(c.S)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		c.pushStack(uint8(c.PC >> 8))
		return false, nil
	case 5:
		c.pushStack(uint8(c.PC & 0xFF))
		return false, nil
	case 6:
		c.RW = memory.Read
		c.Address = c.PC
		hi := c.ram.Read(c.PC)
		c.PC = uint16(hi)<<8 | uint16(c.retained)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rts() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = 0x0100 | uint16(c.S)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		c.retained = c.popStack()
		return false, nil
	case 5:
		hi := c.popStack()
		c.PC = uint16(hi)<<8 | uint16(c.retained)
		return false, nil
	case 6:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		c.PC++
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) rti() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = 0x0100 | uint16(c.S)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		p := c.popStack()
		c.P = (p | PS1) &^ PBreak
		return false, nil
	case 5:
		c.retained = c.popStack()
		return false, nil
	case 6:
		hi := c.popStack()
		c.PC = uint16(hi)<<8 | uint16(c.retained)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) brk() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		c.PC++
		return false, nil
	case 3:
		c.pushStack(uint8(c.PC >> 8))
		return false, nil
	case 4:
		c.pushStack(uint8(c.PC & 0xFF))
		return false, nil
	case 5:
		c.pushStack(c.P | PS1 | PBreak)
		c.P |= PInterrupt
		return false, nil
	case 6:
		c.RW = memory.Read
		c.Address = IRQVector
		c.retained = c.ram.Read(IRQVector)
		return false, nil
	case 7:
		c.RW = memory.Read
		c.Address = IRQVector + 1
		hi := c.ram.Read(IRQVector + 1)
		c.PC = uint16(hi)<<8 | uint16(c.retained)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) pha() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		return false, nil
	case 3:
		c.pushStack(c.A)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) php() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		return false, nil
	case 3:
		c.pushStack(c.P | PS1 | PBreak)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) pla() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = 0x0100 | uint16(c.S)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		val := c.popStack()
		c.A = val
		c.setZN(val)
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}

// plp restores P from the pulled byte exactly as pulled — no Z/N
// post-update. See DESIGN.md for why this, not the source's
// updateZeroAndNegativeFlags call, is the behavior implemented here.
func (c *Chip) plp() (bool, error) {
	switch c.cycle {
	case 2:
		c.RW = memory.Read
		c.Address = c.PC
		c.Data = c.ram.Read(c.PC)
		return false, nil
	case 3:
		c.RW = memory.Read
		c.Address = 0x0100 | uint16(c.S)
		c.Data = c.ram.Read(c.Address)
		return false, nil
	case 4:
		val := c.popStack()
		c.P = (val | PS1) &^ PBreak
		return true, nil
	}
	return false, IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
}
