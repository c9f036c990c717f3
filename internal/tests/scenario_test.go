package tests

import (
	"errors"
	"testing"

	"github.com/thelolagemann/dmgl/internal/cartridge"
	"github.com/thelolagemann/dmgl/internal/cpu"
	"github.com/thelolagemann/dmgl/internal/io"
)

// A 32 KiB image declaring 4 banks is rejected.
func TestScenario_DeclaredLength(t *testing.T) {
	rom := ROM{Title: "SHORT", ROMCode: 1, Banks: 2}.Build()
	if len(rom) != 0x8000 {
		t.Fatalf("expected a 32 KiB image, got %d bytes", len(rom))
	}

	b, err := io.NewBus(nil, rom)
	if !errors.Is(err, cartridge.ErrLength) {
		t.Fatalf("expected %v, got %v", cartridge.ErrLength, err)
	}
	if b != nil {
		t.Fatal("expected no bus on failure")
	}
}

// A well formed 32 KiB image with a single RAM bank.
func TestScenario_ROMOnly(t *testing.T) {
	rom := ROM{Title: "ROM ONLY", Contents: func(rom []byte) {
		rom[0x0000] = 0x5A
		rom[0x4000] = 0xA5
	}}.Build()

	b, err := io.NewBus(nil, rom)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if got := b.Read(0x0000); got != rom[0] {
		t.Errorf("expected the first byte of the image %02X, got %02X", rom[0], got)
	}
	if got := b.Read(0x4000); got != 0xA5 {
		t.Errorf("expected bank 1 at 4000, got %02X", got)
	}
	if got := b.Read(0xA000); got != 0xFF {
		t.Errorf("expected cartridge RAM to read FF, got %02X", got)
	}
	b.Write(0xA000, 0x42)
	if got := b.Read(0xA000); got != 0x42 {
		t.Errorf("expected 42 after writing, got %02X", got)
	}
}

// A NOP takes exactly one machine cycle, and only advances PC.
func TestScenario_NOP(t *testing.T) {
	b, err := io.NewBus(nil, ROM{Title: "NOP"}.Build())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	c := b.CPU()

	// the power-on NOP fetches the NOP at 0100
	if _, err := b.Clock(); err != nil {
		t.Fatal(err)
	}
	if c.PC.Word() != 0x0101 {
		t.Fatalf("expected PC 0101, got %04X", c.PC.Word())
	}
	before := c.Registers

	for i := 1; i < cpu.TicksPerCycle; i++ {
		if _, err := b.Clock(); err != nil {
			t.Fatal(err)
		}
		if c.PC.Word() != 0x0101 {
			t.Fatalf("tick %d: expected PC 0101, got %04X", i, c.PC.Word())
		}
	}
	if _, err := b.Clock(); err != nil {
		t.Fatal(err)
	}
	if c.PC.Word() != 0x0102 {
		t.Fatalf("expected the next fetch after 4 ticks, got PC %04X", c.PC.Word())
	}

	after := c.Registers
	after.PC = before.PC
	if after != before {
		t.Errorf("expected only PC to change, got %s", c)
	}
}
