package cpu

import (
	"errors"
	"testing"

	"github.com/thelolagemann/dmgl/internal/interrupts"
	"github.com/thelolagemann/dmgl/internal/types"
)

// testBus is a flat 64kB memory, routing the interrupt registers
// back to the CPU.
type testBus struct {
	cpu *CPU
	mem [0x10000]uint8
}

func (b *testBus) Read(address uint16) uint8 {
	if address == types.IF || address == types.IE {
		return b.cpu.Read(address)
	}
	return b.mem[address]
}

func (b *testBus) Write(address uint16, value uint8) {
	if address == types.IF || address == types.IE {
		b.cpu.Write(address, value)
		return
	}
	b.mem[address] = value
}

// newTestCPU returns a CPU initialized without a boot ROM, with the
// given program placed at 0x0100.
func newTestCPU(program ...uint8) (*CPU, *testBus) {
	bus := &testBus{}
	c := NewCPU(bus)
	bus.cpu = c
	copy(bus.mem[0x0100:], program)
	c.Initialize(false, 0x00)
	return c, bus
}

// runCycles clocks the CPU for n machine cycles.
func runCycles(t *testing.T, c *CPU, n int) {
	t.Helper()
	for i := 0; i < n*TicksPerCycle; i++ {
		if err := c.Clock(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCPU_Initialize(t *testing.T) {
	t.Run("without boot ROM", func(t *testing.T) {
		for _, tt := range []struct {
			checksum uint8
			af       uint16
		}{
			{0x00, 0x0180},
			{0x3A, 0x01B0},
		} {
			c := NewCPU(&testBus{})
			c.Initialize(false, tt.checksum)

			if c.AF.Word() != tt.af {
				t.Errorf("checksum %02X: expected AF %04X, got %04X", tt.checksum, tt.af, c.AF.Word())
			}
			for _, r := range []struct {
				name      string
				got, want uint16
			}{
				{"BC", c.BC.Word(), 0x0013},
				{"DE", c.DE.Word(), 0x00D8},
				{"HL", c.HL.Word(), 0x014D},
				{"SP", c.SP.Word(), 0xFFFE},
				{"PC", c.PC.Word(), 0x0100},
			} {
				if r.got != r.want {
					t.Errorf("expected %s %04X, got %04X", r.name, r.want, r.got)
				}
			}
			if v := c.Read(types.IF); v != 0xE1 {
				t.Errorf("expected IF E1, got %02X", v)
			}
		}
	})
	t.Run("with boot ROM", func(t *testing.T) {
		c := NewCPU(&testBus{})
		c.Initialize(true, 0x3A)
		if c.AF.Word() != 0 || c.PC.Word() != 0 || c.SP.Word() != 0 {
			t.Errorf("expected registers to be left to the boot ROM, got %s", c)
		}
		if v := c.Read(types.IF); v != 0xE0 {
			t.Errorf("expected IF E0, got %02X", v)
		}
	})
}

func TestCPU_Clock(t *testing.T) {
	c, _ := newTestCPU(0x3C, 0x3C, 0x3C) // INC A

	// the first tick executes the latched NOP, fetching INC A
	if err := c.Clock(); err != nil {
		t.Fatal(err)
	}
	if c.PC.Word() != 0x0101 {
		t.Fatalf("expected PC 0101 after the first tick, got %04X", c.PC.Word())
	}

	// work is only performed once every 4 ticks
	for i := 0; i < 3; i++ {
		c.Clock()
		if c.AF.High() != 0x01 || c.PC.Word() != 0x0101 {
			t.Fatalf("tick %d: expected no work, got %s", i+2, c)
		}
	}
	c.Clock()
	if c.AF.High() != 0x02 || c.PC.Word() != 0x0102 {
		t.Fatalf("expected INC A on the fifth tick, got %s", c)
	}
}

func TestCPU_Registers(t *testing.T) {
	var r Register
	r.SetWord(0x1234)
	r.SetHigh(0xAB)
	if r.Word() != 0xAB34 {
		t.Errorf("expected SetHigh to preserve the low byte, got %04X", r.Word())
	}
	r.SetLow(0xCD)
	if r.Word() != 0xABCD || r.High() != 0xAB || r.Low() != 0xCD {
		t.Errorf("expected SetLow to preserve the high byte, got %04X", r.Word())
	}

	var af AF
	af.SetWord(0x12FF)
	if af.Word() != 0x12F0 {
		t.Errorf("expected the lower nibble of F to be masked, got %04X", af.Word())
	}
	af.SetLow(0x0F)
	if af.Low() != 0x00 || af.High() != 0x12 {
		t.Errorf("expected the lower nibble of F to be masked, got %04X", af.Word())
	}

	for _, f := range []Flag{FlagZero, FlagSubtract, FlagHalfCarry, FlagCarry} {
		af.SetFlag(f, true)
		if !af.Flag(f) || af.Low() != 1<<f {
			t.Errorf("flag %d: expected F %02X, got %02X", f, uint8(1<<f), af.Low())
		}
		af.SetFlag(f, false)
		if af.Low() != 0 {
			t.Errorf("flag %d: expected F 00, got %02X", f, af.Low())
		}
	}
}

func TestCPU_ReadWrite(t *testing.T) {
	c, _ := newTestCPU()
	c.Write(types.IF, 0x00)
	if v := c.Read(types.IF); v != 0xE0 {
		t.Errorf("expected IF to read E0, got %02X", v)
	}
	c.Write(types.IE, 0xFF)
	if v := c.Read(types.IE); v != 0xFF {
		t.Errorf("expected IE to read FF, got %02X", v)
	}
	c.Write(0xC000, 0x12)
	if v := c.Read(0xC000); v != 0x00 {
		t.Errorf("expected the CPU to ignore other addresses, got %02X", v)
	}
}

func TestCPU_Interrupt(t *testing.T) {
	c, bus := newTestCPU(0x00, 0x00, 0x00)
	runCycles(t, c, 1) // fetch the NOP at 0x0100

	c.irq.IME = true
	c.Write(types.IE, interrupts.VBlankFlag|interrupts.TimerFlag)
	c.Write(types.IF, interrupts.TimerFlag|interrupts.VBlankFlag)

	// the service sequence takes 5 machine cycles, fetching
	// from the vector on the last one
	runCycles(t, c, 4)
	if c.PC.Word() == 0x0041 {
		t.Fatal("expected the interrupt to take 5 machine cycles")
	}
	runCycles(t, c, 1)
	if c.PC.Word() != 0x0041 {
		t.Fatalf("expected PC 0041 once serviced, got %04X", c.PC.Word())
	}

	if c.SP.Word() != 0xFFFC {
		t.Errorf("expected SP FFFC, got %04X", c.SP.Word())
	}
	if bus.mem[0xFFFD] != 0x01 || bus.mem[0xFFFC] != 0x00 {
		t.Errorf("expected 0100 to be pushed, got %02X%02X", bus.mem[0xFFFD], bus.mem[0xFFFC])
	}
	if c.irq.IME {
		t.Error("expected IME to be cleared")
	}
	if v := c.Read(types.IF); v != 0xE0|interrupts.TimerFlag {
		t.Errorf("expected only the VBlank request to be cleared, got %02X", v)
	}
}

func TestCPU_InterruptReturn(t *testing.T) {
	c, bus := newTestCPU(0xFB, 0x3C, 0x3C, 0x00) // EI; INC A; INC A; NOP
	bus.mem[0x0050] = 0xD9                        // RETI
	c.Write(types.IE, interrupts.TimerFlag)
	c.Write(types.IF, interrupts.TimerFlag)

	// NOP, EI, INC A, then the interrupt is taken
	runCycles(t, c, 3)
	if c.AF.High() != 0x02 {
		t.Fatalf("expected the instruction after EI to run first, A=%02X", c.AF.High())
	}
	runCycles(t, c, 5)
	if c.PC.Word() != 0x0051 {
		t.Fatalf("expected to be servicing the timer, got %s", c)
	}
	if bus.mem[0xFFFD] != 0x01 || bus.mem[0xFFFC] != 0x02 {
		t.Errorf("expected 0102 to be pushed, got %02X%02X", bus.mem[0xFFFD], bus.mem[0xFFFC])
	}

	// RETI returns to the second INC A with the IME set
	runCycles(t, c, 4)
	if c.PC.Word() != 0x0103 || !c.irq.IME {
		t.Fatalf("expected RETI to return to 0102 with IME set, got %s", c)
	}
	runCycles(t, c, 1)
	if c.AF.High() != 0x03 {
		t.Fatalf("expected the second INC A to run, A=%02X", c.AF.High())
	}
}

func TestCPU_EnableInterruptsCancelled(t *testing.T) {
	c, _ := newTestCPU(0xFB, 0xF3, 0x3C, 0x3C) // EI; DI; INC A; INC A
	c.Write(types.IE, interrupts.VBlankFlag)

	runCycles(t, c, 6)
	if c.irq.IME || c.AF.High() != 0x03 {
		t.Fatalf("expected DI to cancel EI, got %s", c)
	}
}

func TestCPU_Halt(t *testing.T) {
	t.Run("wakes without IME", func(t *testing.T) {
		c, _ := newTestCPU(0x76, 0x3C) // HALT; INC A
		runCycles(t, c, 5)
		if !c.Halted() || c.AF.High() != 0x01 {
			t.Fatalf("expected the CPU to be halted, got %s", c)
		}

		c.Write(types.IE, interrupts.VBlankFlag)
		runCycles(t, c, 1)
		if c.Halted() || c.AF.High() != 0x02 {
			t.Fatalf("expected the CPU to resume after HALT, got %s", c)
		}
		if c.Read(types.IF) != 0xE1 {
			t.Fatal("expected the interrupt to stay requested")
		}
	})
	t.Run("wakes into interrupt", func(t *testing.T) {
		c, bus := newTestCPU(0x76, 0x3C) // HALT; INC A
		c.irq.IME = true
		runCycles(t, c, 4)
		if !c.Halted() {
			t.Fatal("expected the CPU to be halted")
		}

		c.Write(types.IE, interrupts.VBlankFlag)
		runCycles(t, c, 5)
		if c.PC.Word() != 0x0041 {
			t.Fatalf("expected the VBlank to be serviced, got %s", c)
		}
		if bus.mem[0xFFFD] != 0x01 || bus.mem[0xFFFC] != 0x01 {
			t.Errorf("expected the instruction after HALT to be pushed, got %02X%02X", bus.mem[0xFFFD], bus.mem[0xFFFC])
		}
	})
	t.Run("bug", func(t *testing.T) {
		c, _ := newTestCPU(0x76, 0x3C, 0x00) // HALT; INC A; NOP
		c.Write(types.IE, interrupts.VBlankFlag)

		runCycles(t, c, 4)
		if c.Halted() {
			t.Fatal("expected HALT not to halt with an interrupt pending")
		}
		if c.AF.High() != 0x03 {
			t.Fatalf("expected INC A to run twice, A=%02X", c.AF.High())
		}
		if c.PC.Word() != 0x0103 {
			t.Fatalf("expected PC 0103, got %04X", c.PC.Word())
		}
	})
}

func TestCPU_Stop(t *testing.T) {
	c, _ := newTestCPU(0x10, 0x42, 0x3C) // STOP 42; INC A
	runCycles(t, c, 3)
	if !c.Stopped() || c.stop.code != 0x42 {
		t.Fatalf("expected the CPU to be stopped, got %s", c)
	}

	// only the joypad wakes the CPU from STOP
	c.Write(types.IE, interrupts.VBlankFlag)
	runCycles(t, c, 2)
	if !c.Stopped() || c.AF.High() != 0x01 {
		t.Fatal("expected VBlank not to wake the CPU")
	}

	c.Write(types.IE, interrupts.VBlankFlag|interrupts.JoypadFlag)
	c.Write(types.IF, interrupts.JoypadFlag)
	runCycles(t, c, 1)
	if c.Stopped() || c.AF.High() != 0x02 {
		t.Fatalf("expected the joypad to wake the CPU, got %s", c)
	}
}

func TestCPU_IllegalOpcode(t *testing.T) {
	for _, opcode := range disallowedOpcodes {
		c, _ := newTestCPU(opcode)
		var err error
		for i := 0; i < 8 && err == nil; i++ {
			err = c.Clock()
		}

		var illegal *IllegalOpcodeError
		if !errors.As(err, &illegal) {
			t.Fatalf("%02X: expected an illegal opcode error, got %v", opcode, err)
		}
		if illegal.Opcode != opcode || illegal.Address != 0x0100 {
			t.Errorf("unexpected error %v", illegal)
		}
		if again := c.Clock(); again != err {
			t.Errorf("%02X: expected the fault to be sticky, got %v", opcode, again)
		}
	}
}

func TestCPU_Reset(t *testing.T) {
	c, _ := newTestCPU(0x3C, 0x76)
	runCycles(t, c, 4)
	c.Reset()

	if c.AF.Word() != 0x0180 || c.PC.Word() != 0x0100 || c.Halted() {
		t.Fatalf("expected the power-on state, got %s", c)
	}
	runCycles(t, c, 2)
	if c.AF.High() != 0x02 {
		t.Fatalf("expected execution to resume from 0100, got %s", c)
	}
}

func TestCPU_State(t *testing.T) {
	c, _ := newTestCPU(0x3C, 0x3C, 0x3C, 0x3C)
	c.Write(types.IE, 0x05)
	runCycles(t, c, 2)

	s := types.NewState()
	c.Save(s)
	want := c.String()

	runCycles(t, c, 2)
	s.ResetPosition()
	c.Load(s)
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if c.String() != want {
		t.Fatalf("expected %s, got %s", want, c)
	}

	runCycles(t, c, 1)
	if c.AF.High() != 0x03 {
		t.Fatalf("expected execution to resume, A=%02X", c.AF.High())
	}
}
