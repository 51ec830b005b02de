// Package functionality exercises the cpu package end-to-end against a
// flat memory image: whole instruction streams driven through Tick until
// a JAM opcode halts the machine, verifying register state, cycle counts,
// and (for two of the worked scenarios) the exact bus-event trace.
package functionality

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/nilsson-wyse/sixfiveohtwo/cpu"
	"github.com/nilsson-wyse/sixfiveohtwo/memory"
)

// run drives one full instruction to completion and returns its cycle
// count.
func run(t *testing.T, c *cpu.Chip) int {
	t.Helper()
	cycles := 0
	for {
		err := c.Tick()
		c.TickDone()
		cycles++
		if err != nil {
			t.Fatalf("unexpected error at PC 0x%.4X: %v\nstate: %s", c.PC, err, spew.Sdump(c))
		}
		if c.InstructionDone() {
			return cycles
		}
	}
}

// runUntilJam ticks until Tick returns an error (a Jam fault when the
// program ends in a JAM opcode), returning the total cycle count and
// that error.
func runUntilJam(c *cpu.Chip) (int, error) {
	cycles := 0
	for {
		err := c.Tick()
		c.TickDone()
		cycles++
		if err != nil {
			return cycles, err
		}
	}
}

func TestThousandNOPsThenHalt(t *testing.T) {
	tests := []struct {
		name       string
		fill       uint8
		haltOpcode uint8
		cycles     int
		pcBump     uint16
	}{
		{"classic NOP, 0x02 halt", 0xEA, 0x02, 2, 1},
		{"zero-page NOP, 0x12 halt", 0x04, 0x12, 3, 2},
		{"absolute NOP, 0x12 halt", 0x0C, 0x12, 4, 3},
		{"zero-page,X NOP, 0x12 halt", 0x14, 0x12, 4, 2},
		{"implied NOP (0x1A), 0x12 halt", 0x1A, 0x12, 2, 1},
		{"immediate NOP (0x80), 0x12 halt", 0x80, 0x12, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ram := memory.NewFlatRAM(tt.fill)
			ram.Write(0x0000, tt.fill)
			end := uint16(tt.pcBump) * 1000
			ram.Write(end, tt.haltOpcode)

			c := cpu.New(cpu.NMOS, ram)
			total := 0
			var err error
			for i := 0; i < 1000; i++ {
				var cycles int
				for {
					cycles++
					err = c.Tick()
					c.TickDone()
					if err != nil {
						t.Fatalf("%s: halted early at instruction %d: %v", tt.name, i, err)
					}
					if c.InstructionDone() {
						break
					}
				}
				if got, want := cycles, tt.cycles; got != want {
					t.Fatalf("%s: instruction %d took %d cycles, want %d", tt.name, i, got, want)
				}
				total += cycles
			}
			if got, want := c.PC, end; got != want {
				t.Fatalf("%s: PC = 0x%.4X after 1000 NOPs, want 0x%.4X", tt.name, got, want)
			}
			if got, want := total, tt.cycles*1000; got != want {
				t.Errorf("%s: total cycles = %d, want %d", tt.name, got, want)
			}
			_, err = runUntilJam(c)
			jam, ok := err.(cpu.Jam)
			if !ok {
				t.Fatalf("%s: err = %v, want Jam", tt.name, err)
			}
			if got, want := jam.Opcode, tt.haltOpcode; got != want {
				t.Errorf("%s: halted on opcode 0x%.2X, want 0x%.2X", tt.name, got, want)
			}
			if !c.Halted() {
				t.Errorf("%s: Halted() = false after JAM", tt.name)
			}
		})
	}
}

func TestIndirectXLoadAndStore(t *testing.T) {
	ram := memory.NewFlatRAM(0x00)
	// LDA ($EA,X); STA ($EC,X)
	ram.Load([]uint8{0xA1, 0xEA, 0x81, 0xEC})
	ram.LoadAt(0x00EA, []uint8{0x00, 0x30}) // (0xEA) -> 0x3000
	ram.LoadAt(0x00EC, []uint8{0x00, 0x40}) // (0xEC) -> 0x4000
	ram.Write(0x3000, 0x77)

	c := cpu.New(cpu.NMOS, ram)
	if got, want := run(t, c), 6; got != want {
		t.Errorf("LDA cycles = %d, want %d", got, want)
	}
	if got, want := c.A, uint8(0x77); got != want {
		t.Errorf("A = 0x%.2X, want 0x%.2X", got, want)
	}
	if got, want := run(t, c), 6; got != want {
		t.Errorf("STA cycles = %d, want %d", got, want)
	}
	if got, want := ram.Read(0x4000), uint8(0x77); got != want {
		t.Errorf("RAM[0x4000] = 0x%.2X, want 0x%.2X", got, want)
	}
}

// TestWorkedScenarios reproduces the six end-to-end examples, each
// checking the register, flag or cycle-count results it is about; the
// register-increment and immediate-ADC scenarios also compare the exact
// bus trace FlatRAM recorded.
func TestWorkedScenarios(t *testing.T) {
	t.Run("register increment", func(t *testing.T) {
		ram := memory.NewFlatRAM(0x00)
		ram.Load([]uint8{0xA9, 0xC0, 0xAA, 0xE8, 0x00})
		c := cpu.New(cpu.NMOS, ram)
		c.S = 0xFD
		ram.SetRecording(true)

		total := 0
		total += run(t, c) // LDA #$C0
		total += run(t, c) // TAX
		total += run(t, c) // INX
		total += run(t, c) // BRK

		if got, want := c.A, uint8(0xC0); got != want {
			t.Errorf("A = 0x%.2X, want 0x%.2X", got, want)
		}
		if got, want := c.X, uint8(0xC1); got != want {
			t.Errorf("X = 0x%.2X, want 0x%.2X", got, want)
		}
		if c.P&cpu.PNegative == 0 || c.P&cpu.PZero != 0 {
			t.Errorf("N/Z incorrect, P = 0x%.2X", c.P)
		}
		if got, want := total, 13; got != want {
			t.Errorf("total cycles = %d, want %d", got, want)
		}

		// LDA #$C0 reads its opcode and operand; TAX and INX each read
		// their opcode, then dummy-read the following opcode byte as
		// their idle second cycle.
		want := []memory.BusEvent{
			{Addr: 0x0000, Value: 0xA9, RW: memory.Read},
			{Addr: 0x0001, Value: 0xC0, RW: memory.Read},
			{Addr: 0x0002, Value: 0xAA, RW: memory.Read},
			{Addr: 0x0003, Value: 0xE8, RW: memory.Read},
			{Addr: 0x0003, Value: 0xE8, RW: memory.Read},
			{Addr: 0x0004, Value: 0x00, RW: memory.Read},
		}
		got := ram.Events()[:len(want)]
		if diff := deep.Equal(got, want); diff != nil {
			t.Errorf("bus trace diff (first %d events): %v", len(want), diff)
		}
	})

	t.Run("immediate ADC with carry", func(t *testing.T) {
		ram := memory.NewFlatRAM(0x00)
		ram.Load([]uint8{0x69, 0x50})
		c := cpu.New(cpu.NMOS, ram)
		c.A = 0x50
		ram.SetRecording(true)
		cycles := run(t, c)

		if got, want := c.A, uint8(0xA0); got != want {
			t.Errorf("A = 0x%.2X, want 0x%.2X", got, want)
		}
		wantP := cpu.PNegative | cpu.POverflow
		if got := c.P &^ cpu.PS1; got != wantP {
			t.Errorf("P = 0x%.2X, want 0x%.2X", got, wantP)
		}
		if got, want := cycles, 2; got != want {
			t.Errorf("cycles = %d, want %d", got, want)
		}
		want := []memory.BusEvent{
			{Addr: 0x0000, Value: 0x69, RW: memory.Read},
			{Addr: 0x0001, Value: 0x50, RW: memory.Read},
		}
		if diff := deep.Equal(ram.Events(), want); diff != nil {
			t.Errorf("bus trace diff: %v", diff)
		}
	})

	t.Run("decimal ADC quirk", func(t *testing.T) {
		ram := memory.NewFlatRAM(0x00)
		ram.Load([]uint8{0x69, 0x7B})
		c := cpu.New(cpu.NMOS, ram)
		c.A = 0x12
		c.P = 0x2C
		run(t, c)

		if got, want := c.A, uint8(0x93); got != want {
			t.Errorf("A = 0x%.2X, want 0x%.2X", got, want)
		}
		if got, want := c.P, uint8(0xEC); got != want {
			t.Errorf("P = 0x%.2X, want 0x%.2X", got, want)
		}
	})

	t.Run("absolute,Y page cross", func(t *testing.T) {
		for _, tt := range []struct {
			y      uint8
			cycles int
		}{
			{0x03, 4},
			{0x04, 5},
		} {
			ram := memory.NewFlatRAM(0x00)
			ram.Load([]uint8{0xB9, 0xFC, 0x01})
			c := cpu.New(cpu.NMOS, ram)
			c.Y = tt.y
			cycles := run(t, c)
			if got, want := cycles, tt.cycles; got != want {
				t.Errorf("Y=0x%.2X: cycles = %d, want %d", tt.y, got, want)
			}
		}
	})

	t.Run("JMP indirect bug", func(t *testing.T) {
		ram := memory.NewFlatRAM(0x00)
		ram.Load([]uint8{0x6C, 0xFF, 0x30})
		ram.Write(0x30FF, 0x80)
		ram.Write(0x3000, 0x50)
		ram.Write(0x3100, 0x40)
		c := cpu.New(cpu.NMOS, ram)
		cycles := run(t, c)

		if got, want := c.PC, uint16(0x5080); got != want {
			t.Errorf("PC = 0x%.4X, want 0x%.4X", got, want)
		}
		if got, want := cycles, 5; got != want {
			t.Errorf("cycles = %d, want %d", got, want)
		}
	})

	t.Run("stack round trip", func(t *testing.T) {
		ram := memory.NewFlatRAM(0x00)
		ram.Load([]uint8{0x48, 0xA9, 0x00, 0x68})
		c := cpu.New(cpu.NMOS, ram)
		c.S = 0xFF
		c.A = 0x42

		total := run(t, c) + run(t, c) + run(t, c)

		if got, want := c.A, uint8(0x42); got != want {
			t.Errorf("A = 0x%.2X, want 0x%.2X", got, want)
		}
		if got, want := c.S, uint8(0xFF); got != want {
			t.Errorf("S = 0x%.2X, want 0x%.2X", got, want)
		}
		if got, want := ram.Read(0x01FF), uint8(0x42); got != want {
			t.Errorf("RAM[0x01FF] = 0x%.2X, want 0x%.2X", got, want)
		}
		if got, want := total, 9; got != want {
			t.Errorf("total cycles = %d, want %d", got, want)
		}
	})
}

func BenchmarkNOP(b *testing.B) {
	ram := memory.NewFlatRAM(0xEA)
	ram.Write(0x0202, 0x02)
	for i := 0; i < b.N; i++ {
		c := cpu.New(cpu.NMOS, ram)
		for {
			err := c.Tick()
			c.TickDone()
			if err != nil {
				break
			}
		}
	}
}
