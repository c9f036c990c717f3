package mmu

import (
	"errors"
	"testing"

	"github.com/thelolagemann/dmgl/internal/boot"
	"github.com/thelolagemann/dmgl/internal/cartridge"
	"github.com/thelolagemann/dmgl/internal/tests"
	"github.com/thelolagemann/dmgl/internal/types"
)

func newMMU(t *testing.T, bootROM []byte) *MMU {
	t.Helper()
	rom := tests.ROM{Title: "MMU", Contents: func(rom []byte) {
		for i := range rom {
			rom[i] = uint8(i >> 8)
		}
	}}.Build()
	m, err := NewMMU(bootROM, rom)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMMU(t *testing.T) {
	if _, err := NewMMU(make([]byte, 10), tests.ROM{}.Build()); !errors.Is(err, boot.ErrLength) {
		t.Errorf("expected %v, got %v", boot.ErrLength, err)
	}
	if _, err := NewMMU(nil, tests.ROM{Corrupt: true}.Build()); !errors.Is(err, cartridge.ErrChecksum) {
		t.Errorf("expected %v, got %v", cartridge.ErrChecksum, err)
	}

	m := newMMU(t, nil)
	if m.Title() != "MMU" {
		t.Errorf("unexpected title %q", m.Title())
	}
	if m.HasBootloader() {
		t.Error("expected no bootloader")
	}
}

func TestMMU_Cartridge(t *testing.T) {
	m := newMMU(t, nil)

	if v := m.Read(0x0000); v != 0x00 {
		t.Errorf("expected first ROM byte, got %02X", v)
	}
	if v := m.Read(0x7F00); v != 0x7F {
		t.Errorf("expected ROM bank 1 byte 7F, got %02X", v)
	}
	m.Write(0x2000, 0x01)
	if v := m.Read(0x2000); v != 0x20 {
		t.Errorf("expected ROM to ignore writes, got %02X", v)
	}

	if v := m.Read(0xA000); v != 0xFF {
		t.Errorf("expected cartridge RAM to read FF, got %02X", v)
	}
	m.Write(0xA000, 0x42)
	if v := m.Read(0xA000); v != 0x42 {
		t.Errorf("expected 42, got %02X", v)
	}
}

func TestMMU_OpenBus(t *testing.T) {
	m := newMMU(t, nil)
	for _, address := range []uint16{0xFEA0, 0xFEFF, 0xFF00, 0xFF40, 0xFF50, 0xFF7F} {
		m.Write(address, 0x00)
		if v := m.Read(address); v != 0xFF {
			t.Errorf("%04X: expected open bus FF, got %02X", address, v)
		}
	}
}

func TestMMU_RAM(t *testing.T) {
	m := newMMU(t, nil)
	for _, r := range []types.Region{types.VideoRAMRegion, types.WorkRAMRegion, types.SpriteRAMRegion, types.HighRAMRegion} {
		for _, address := range []uint16{r.Start, r.End} {
			if v := m.Read(address); v != 0x00 {
				t.Errorf("%04X: expected 00 at construction, got %02X", address, v)
			}
			m.Write(address, uint8(address))
			if v := m.Read(address); v != uint8(address) {
				t.Errorf("%04X: expected %02X, got %02X", address, uint8(address), v)
			}
		}
	}
}

func TestMMU_Echo(t *testing.T) {
	m := newMMU(t, nil)
	for address := uint32(types.WorkRAMRegion.Start); address <= uint32(types.EchoRAMRegion.End); address += 0x0123 {
		a := uint16(address)
		m.Write(a, uint8(a))

		mirror := a + 0x2000
		if types.EchoRAMRegion.Contains(a) {
			mirror = a - 0x2000
		}
		if types.EchoRAMRegion.Contains(mirror) || types.WorkRAMRegion.Contains(mirror) {
			if v := m.Read(mirror); v != uint8(a) {
				t.Errorf("%04X: expected mirror %04X to read %02X, got %02X", a, mirror, uint8(a), v)
			}
		}
	}
}

func TestMMU_Bootloader(t *testing.T) {
	m := newMMU(t, tests.BootROM([]byte{0xAA}))
	if !m.HasBootloader() {
		t.Fatal("expected bootloader to be mapped")
	}
	if v := m.Read(0x0000); v != 0xAA {
		t.Errorf("expected boot ROM byte AA, got %02X", v)
	}
	if v := m.Read(0x0100); v != 0x00 {
		t.Errorf("expected cartridge past the boot ROM, got %02X", v)
	}

	m.Write(types.BDIS, 0x01)
	if m.HasBootloader() {
		t.Fatal("expected bootloader to be unmapped")
	}
	if v := m.Read(0x0000); v != 0x00 {
		t.Errorf("expected cartridge byte 00, got %02X", v)
	}

	m.Reset()
	if !m.HasBootloader() {
		t.Fatal("expected reset to map the bootloader again")
	}
}

func TestMMU_Reset(t *testing.T) {
	m := newMMU(t, nil)
	m.Write(0xA123, 0x11)
	m.Write(0xC123, 0x22)
	m.Write(0xFF90, 0x33)
	m.Reset()

	if v := m.Read(0xA123); v != 0xFF {
		t.Errorf("expected cartridge RAM refilled with FF, got %02X", v)
	}
	if v := m.Read(0xC123); v != 0x00 {
		t.Errorf("expected work RAM zeroed, got %02X", v)
	}
	if v := m.Read(0xFF90); v != 0x00 {
		t.Errorf("expected high RAM zeroed, got %02X", v)
	}
}

func TestMMU_State(t *testing.T) {
	m := newMMU(t, tests.BootROM(nil))
	m.Write(types.BDIS, 0x01)
	m.Write(0x8000, 0x01)
	m.Write(0xA000, 0x02)
	m.Write(0xC000, 0x03)
	m.Write(0xFE00, 0x04)
	m.Write(0xFF80, 0x05)

	s := types.NewState()
	m.Save(s)
	m.Reset()
	s.ResetPosition()
	m.Load(s)
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}

	if m.HasBootloader() {
		t.Error("expected bootloader flag to be restored")
	}
	for i, address := range []uint16{0x8000, 0xA000, 0xC000, 0xFE00, 0xFF80} {
		if v := m.Read(address); v != uint8(i+1) {
			t.Errorf("%04X: expected %02X, got %02X", address, i+1, v)
		}
	}
}
