package gameboy

import (
	"github.com/thelolagemann/dmgl/pkg/log"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

// WithLogger sets the logger used by the GameBoy, which otherwise
// discards everything.
func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithState restores a state returned by GameBoy.SaveState once the
// GameBoy has been constructed.
func WithState(b []byte) Opt {
	return func(gb *GameBoy) {
		gb.state = b
	}
}

// WithBootROM sets the boot ROM for the emulator.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		// with a boot ROM, the CPU starts at 0x0000 with the registers
		// zeroed, otherwise it starts at 0x0100 with the registers set
		// to the values upon completion of the boot ROM
		gb.bootROM = rom
	}
}
