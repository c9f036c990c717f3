package cartridge

import (
	"errors"
	"testing"

	"github.com/thelolagemann/dmgl/internal/tests"
	"github.com/thelolagemann/dmgl/internal/types"
)

func TestCartridge_Validate(t *testing.T) {
	cases := []struct {
		name string
		rom  []byte
		err  error
	}{
		{"valid", tests.ROM{Title: "VALID"}.Build(), nil},
		{"too short", make([]byte, 0x4000), ErrLength},
		{"bad checksum", tests.ROM{Title: "BAD", Corrupt: true}.Build(), ErrChecksum},
		{"cgb only", tests.ROM{CGBFlag: 0xC0}.Build(), ErrCGBOnly},
		{"cgb compatible", tests.ROM{CGBFlag: 0x80}.Build(), nil},
		{"mbc1", tests.ROM{Type: 0x01}.Build(), ErrType},
		{"rom code", tests.ROM{ROMCode: 9, Banks: 2}.Build(), ErrROMCount},
		{"ram code", tests.ROM{RAMCode: 6}.Build(), ErrRAMCount},
		{"declared rom count", tests.ROM{ROMCode: 1, Banks: 2}.Build(), ErrLength},
		{"trailing data", tests.ROM{Banks: 3}.Build(), ErrLength},
		{"larger image", tests.ROM{ROMCode: 2}.Build(), nil},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCartridge(tt.rom)
			if tt.err == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if c != nil {
				t.Fatal("expected no cartridge on failure")
			}
		})
	}
}

func TestCartridge_Header(t *testing.T) {
	c, err := NewCartridge(tests.ROM{Title: "TETRIS", RAMCode: 3}.Build())
	if err != nil {
		t.Fatal(err)
	}

	if c.Title() != "TETRIS" {
		t.Errorf("expected title TETRIS, got %q", c.Title())
	}
	if c.Type() != ROM {
		t.Errorf("expected type %s, got %s", ROM, c.Type())
	}
	if c.ROMCount() != 2 {
		t.Errorf("expected 2 ROM banks, got %d", c.ROMCount())
	}
	if c.RAMCount() != 4 {
		t.Errorf("expected 4 RAM banks, got %d", c.RAMCount())
	}
	h := c.Header()
	if h.Logo != tests.Logo {
		t.Error("expected logo to be parsed")
	}
	if h.Entry != [4]byte{0x00, 0xC3, 0x50, 0x01} {
		t.Errorf("unexpected entry %X", h.Entry)
	}
	if h.Destination() != "Non-Japanese" {
		t.Errorf("unexpected destination %s", h.Destination())
	}
	if want := "TETRIS | ROM | 2 ROM banks | 4 RAM banks | Non-Japanese"; h.String() != want {
		t.Errorf("expected %q, got %q", want, h.String())
	}
}

func TestCartridge_ROM(t *testing.T) {
	rom := tests.ROM{Contents: func(rom []byte) {
		rom[0x0000] = 0x12
		rom[0x3FFF] = 0x34
		rom[0x4000] = 0x56
		rom[0x7FFF] = 0x78
	}}.Build()
	c, err := NewCartridge(rom)
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range []struct {
		bank    int
		address uint16
		want    uint8
	}{
		{0, 0x0000, 0x12},
		{0, 0x3FFF, 0x34},
		{1, 0x0000, 0x56},
		{1, 0x3FFF, 0x78},
	} {
		if got := c.ReadROM(r.bank, r.address); got != r.want {
			t.Errorf("bank %d %04X: expected %02X, got %02X", r.bank, r.address, r.want, got)
		}
	}
}

func TestCartridge_RAM(t *testing.T) {
	c, err := NewCartridge(tests.ROM{RAMCode: 3}.Build())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("filled on init", func(t *testing.T) {
		for bank := 0; bank < c.RAMCount(); bank++ {
			for _, address := range []uint16{0x0000, 0x1000, 0x1FFF} {
				if v := c.ReadRAM(bank, address); v != 0xFF {
					t.Fatalf("bank %d %04X: expected FF, got %02X", bank, address, v)
				}
			}
		}
	})
	t.Run("write", func(t *testing.T) {
		c.WriteRAM(2, 0x0123, 0xAB)
		if v := c.ReadRAM(2, 0x0123); v != 0xAB {
			t.Fatalf("expected AB, got %02X", v)
		}
		if v := c.ReadRAM(1, 0x0123); v != 0xFF {
			t.Fatalf("expected banks to be independent, got %02X", v)
		}
	})
	t.Run("reset", func(t *testing.T) {
		c.Reset()
		if v := c.ReadRAM(2, 0x0123); v != 0xFF {
			t.Fatalf("expected FF after reset, got %02X", v)
		}
	})
}

func TestCartridge_State(t *testing.T) {
	c, err := NewCartridge(tests.ROM{}.Build())
	if err != nil {
		t.Fatal(err)
	}
	c.WriteRAM(0, 0x0010, 0x42)

	s := types.NewState()
	c.Save(s)

	c.Reset()
	s.ResetPosition()
	c.Load(s)
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if v := c.ReadRAM(0, 0x0010); v != 0x42 {
		t.Fatalf("expected 42 after load, got %02X", v)
	}
}

func TestCartridge_Fingerprint(t *testing.T) {
	a, _ := NewCartridge(tests.ROM{Title: "A"}.Build())
	b, _ := NewCartridge(tests.ROM{Title: "B"}.Build())
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("expected different images to have different fingerprints")
	}
	again, _ := NewCartridge(tests.ROM{Title: "A"}.Build())
	if a.Fingerprint() != again.Fingerprint() {
		t.Error("expected identical images to share a fingerprint")
	}
}
