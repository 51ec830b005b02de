// Package cpu implements a cycle-accurate interpreter for the MOS 6502
// microprocessor: the per-cycle bus transactions, addressing-mode timing,
// and opcode semantics for the full documented instruction set plus the
// commonly observed illegal opcodes.
package cpu

import "github.com/nilsson-wyse/sixfiveohtwo/memory"

// Chip is one emulated 6502 core. It carries the six architectural
// registers, the three bus lines the CPU drives each tick, and the
// execution state needed to resume a multi-cycle instruction across
// successive Tick calls.
type Chip struct {
	PC      uint16
	S       uint8
	P       uint8
	A, X, Y uint8

	// Bus lines, valid after Tick returns.
	Address uint16
	Data    uint8
	RW      memory.RW

	ram     memory.Ram
	cpuType CPUType

	opcode  uint8
	current *instructionInfo
	// cycle is current_instruction_cycle. 0 means "fetch the next opcode
	// on the next Tick call."
	cycle int
	// Cycles is total_cycle_count: monotonic across the Chip's lifetime.
	Cycles uint64

	// retained is the low-byte latch shared by every multi-cycle
	// addressing-mode sequencer (BAL/ADL/pointer byte, depending on mode).
	retained uint8
	// opAddr is scratch for a computed 16-bit address spanning more than
	// one cycle: the base address of absolute modes (RMW sequencers then
	// replace it with the indexed address), the effective address read
	// through the zero-page pointer held in retained for (zp,X) and
	// (zp),Y, the pointer of JMP (indirect), or the branch target during
	// its page-fix cycle.
	opAddr uint16
	// pageCrossed mirrors spec's page_crossed: 0 none, 1 indexed address
	// crossed a page, 2 a taken branch is mid page-fix.
	pageCrossed int

	halted     bool
	haltOpcode uint8
	haltPC     uint16

	// tickDone is the clock-interlock handshake: true whenever the next
	// call is allowed to be Tick. Starts true so the first Tick call
	// needs no prior TickDone.
	tickDone bool
}

// New returns a Chip in the reset state: PC=0, S=0xFF, P=0, A=X=Y=0, no
// current instruction, zero total cycles. Unlike the teacher's PowerOn,
// nothing here is randomized: cycle-accurate golden vectors need a
// reproducible starting point, not merely a plausible one.
func New(cpuType CPUType, ram memory.Ram) *Chip {
	return &Chip{
		S:        0xFF,
		cpuType:  cpuType,
		ram:      ram,
		tickDone: true,
	}
}

// Init seeds the data bus with the first opcode byte and arms the Chip
// so the first Tick call performs the opcode-fetch cycle normally.
func (c *Chip) Init(opcode uint8) {
	c.Data = opcode
	c.cycle = 0
	c.tickDone = true
}

// InstructionDone reports whether the Chip is between instructions: the
// next Tick call will be a fetch cycle.
func (c *Chip) InstructionDone() bool {
	return c.cycle == 0
}

// Halted reports whether a JAM opcode has stopped the Chip.
func (c *Chip) Halted() bool {
	return c.halted
}

// TickDone must be called once after every Tick call, before the next one.
// It exists for the same reason the teacher's chips use it: a system
// wiring several chips to one clock needs every chip's output latched for
// the cycle that just ran before any chip starts computing the next one.
// A standalone Chip can call it immediately after each Tick.
func (c *Chip) TickDone() {
	c.tickDone = true
}

// Tick advances the Chip by exactly one clock cycle.
func (c *Chip) Tick() error {
	if !c.tickDone {
		return TickOutOfOrder{}
	}
	c.tickDone = false
	if c.halted {
		return Jam{Opcode: c.haltOpcode, PC: c.haltPC}
	}
	c.Cycles++
	if c.cycle == 0 {
		return c.fetchOpcode()
	}
	done, err := c.dispatch()
	if err != nil {
		return err
	}
	if done {
		if c.cycle < int(c.current.Cycles) {
			return IllegalCycle{Opcode: c.opcode, Cycle: c.cycle}
		}
		c.cycle = 0
	} else {
		c.cycle++
	}
	return nil
}

// fetchOpcode is the universal first cycle of every instruction: read the
// opcode byte, look it up, and arm the dispatcher for its second cycle.
func (c *Chip) fetchOpcode() error {
	c.pageCrossed = 0
	c.RW = memory.Read
	c.Address = c.PC
	c.Data = c.ram.Read(c.PC)
	opcode := c.Data

	if jamOpcodes[opcode] {
		c.halted = true
		c.haltOpcode = opcode
		c.haltPC = c.PC
		return Jam{Opcode: opcode, PC: c.PC}
	}

	c.opcode = opcode
	c.current = &instructionTable[opcode]
	c.PC++
	c.cycle = 2
	return nil
}

// dispatch runs the current opcode's addressing-mode/access-class
// micro-sequencer for the current cycle, keyed the way the instruction
// table's Mode and Class fields describe: (mode, class, cycle).
func (c *Chip) dispatch() (bool, error) {
	info := c.current
	switch info.Class {
	case ClassRead:
		op, ok := c.readOp(info.Mnemonic)
		if !ok {
			return false, UnimplementedInstruction{Opcode: c.opcode, Cycle: c.cycle}
		}
		if c.cpuType == CMOS && illegalMnemonics[info.Mnemonic] {
			op = func(c *Chip, v uint8) {}
		}
		return c.readCycle(op)
	case ClassWrite:
		op, ok := c.storeOp(info.Mnemonic)
		if !ok {
			return false, UnimplementedInstruction{Opcode: c.opcode, Cycle: c.cycle}
		}
		return c.writeCycle(op)
	case ClassRMW:
		op, ok := c.rmwOp(info.Mnemonic)
		if !ok {
			return false, UnimplementedInstruction{Opcode: c.opcode, Cycle: c.cycle}
		}
		if c.cpuType == CMOS && illegalMnemonics[info.Mnemonic] {
			op = func(c *Chip, v uint8) uint8 { return v }
		}
		return c.rmwCycle(op)
	case ClassBranch:
		cond, ok := branchConds[info.Mnemonic]
		if !ok {
			return false, UnimplementedInstruction{Opcode: c.opcode, Cycle: c.cycle}
		}
		return c.branch(cond(c))
	case ClassImplied:
		op, ok := impliedOps[info.Mnemonic]
		if !ok {
			return false, UnimplementedInstruction{Opcode: c.opcode, Cycle: c.cycle}
		}
		return c.implied2(op)
	case ClassStack:
		switch info.Mnemonic {
		case "PHA":
			return c.pha()
		case "PHP":
			return c.php()
		case "PLA":
			return c.pla()
		case "PLP":
			return c.plp()
		}
	case ClassControl:
		switch info.Mnemonic {
		case "JMP":
			if info.Mode == Indirect {
				return c.jmpIndirect()
			}
			return c.jmpAbsolute()
		case "JSR":
			return c.jsr()
		case "RTS":
			return c.rts()
		case "RTI":
			return c.rti()
		case "BRK":
			return c.brk()
		}
	}
	return false, UnimplementedInstruction{Opcode: c.opcode, Cycle: c.cycle}
}

func (c *Chip) pushStack(val uint8) {
	addr := 0x0100 | uint16(c.S)
	c.RW = memory.Write
	c.Address = addr
	c.Data = val
	c.ram.Write(addr, val)
	c.S--
}

func (c *Chip) popStack() uint8 {
	c.S++
	addr := 0x0100 | uint16(c.S)
	c.RW = memory.Read
	c.Address = addr
	val := c.ram.Read(addr)
	c.Data = val
	return val
}

func (c *Chip) setZN(val uint8) {
	if val == 0 {
		c.P |= PZero
	} else {
		c.P &^= PZero
	}
	if val&0x80 != 0 {
		c.P |= PNegative
	} else {
		c.P &^= PNegative
	}
}

func overflowCheck(a, b, res uint8) bool {
	return (a^res)&(b^res)&0x80 != 0
}

func (c *Chip) compare(reg, val uint8) {
	res := reg - val
	c.setZN(res)
	if reg >= val {
		c.P |= PCarry
	} else {
		c.P &^= PCarry
	}
}
