// Package gameboy provides an emulation of a Nintendo Game Boy.
//
// A GameBoy owns the system bus built from a cartridge image and an
// optional boot ROM, and drives it one frame at a time. Presentation
// and input are left to the caller, which may request interrupts
// through the bus between frames.
package gameboy

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
	"github.com/thelolagemann/dmgl/internal/interrupts"
	"github.com/thelolagemann/dmgl/internal/io"
	"github.com/thelolagemann/dmgl/internal/types"
	"github.com/thelolagemann/dmgl/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = 4194304 // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = io.CyclesPerFrame // 4194304 / 60
)

// stateMagic prefixes every save state, followed by the version
// byte, the fingerprint of the cartridge and the xxhash of the
// compressed state.
const (
	stateMagic   = "DMGL"
	stateVersion = 1
	stateHeader  = len(stateMagic) + 1 + 8 + 8
)

// GameBoy represents a Game Boy. It is the main entry point for the
// emulator.
type GameBoy struct {
	log.Logger

	bus *io.Bus

	bootROM []byte
	state   []byte // restored after construction when set by WithState

	frames uint64
	err    error
}

// New validates the given cartridge image, applies the options and
// returns a GameBoy in its power-on state. The image is borrowed and
// must not be modified for the lifetime of the GameBoy.
func New(rom []byte, opts ...Opt) (*GameBoy, error) {
	g := &GameBoy{
		Logger: log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}

	bus, err := io.NewBus(g.bootROM, rom)
	if err != nil {
		return nil, err
	}
	g.bus = bus

	if boot := bus.MMU().BootROM(); boot != nil {
		g.Infof("boot ROM %s (%s)", boot.Model(), boot.Checksum())
	}
	g.Infof("loaded cartridge %s", bus.MMU().Cart.Header())

	if g.state != nil {
		if err := g.LoadState(g.state); err != nil {
			bus.Close()
			return nil, err
		}
		g.state = nil
	}

	return g, nil
}

// Frame clocks the system until the current frame has completed, or
// the CPU faults. Once faulted, every call returns the same error.
func (g *GameBoy) Frame() error {
	if g.err != nil {
		return g.err
	}

	for {
		status, err := g.bus.Clock()
		switch status {
		case io.StatusFrameComplete:
			g.frames++
			return nil
		case io.StatusFailure:
			g.err = fmt.Errorf("gameboy: frame %d: %w", g.frames, err)
			g.Errorf("%v (%s)", g.err, g.bus.CPU())
			return g.err
		}
	}
}

// Frames returns the number of frames completed since power-on.
func (g *GameBoy) Frames() uint64 {
	return g.frames
}

// Bus returns the system bus.
func (g *GameBoy) Bus() *io.Bus {
	return g.bus
}

// Title returns the title of the loaded cartridge.
func (g *GameBoy) Title() string {
	return g.bus.Title()
}

// Interrupt requests the interrupt of the given source, as a joypad
// poller would between frames.
func (g *GameBoy) Interrupt(source interrupts.Source) {
	g.bus.Interrupt(source)
}

// Reset puts the GameBoy back in its power-on state, keeping the
// loaded images. A fault is cleared.
func (g *GameBoy) Reset() {
	g.bus.Reset()
	g.frames = 0
	g.err = nil
	g.Infof("reset %s", g.Title())
}

// Close releases the system. The GameBoy must not be used afterwards.
func (g *GameBoy) Close() {
	g.bus.Close()
	g.frames = 0
}

var _ types.Stater = (*GameBoy)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Frames completed (low and high 32 bits)
//   - Bus
func (g *GameBoy) Load(s *types.State) {
	g.frames = uint64(s.Read32()) | uint64(s.Read32())<<32
	g.bus.Load(s)
	g.err = nil
}

// Save implements the types.Stater interface.
func (g *GameBoy) Save(s *types.State) {
	s.Write32(uint32(g.frames))
	s.Write32(uint32(g.frames >> 32))
	g.bus.Save(s)
}

// fingerprint returns the fingerprint of the loaded cartridge.
func (g *GameBoy) fingerprint() uint64 {
	return g.bus.MMU().Cart.Fingerprint()
}

// SaveState returns the compressed state of the system, which can
// only be restored onto the same cartridge.
func (g *GameBoy) SaveState() ([]byte, error) {
	s := types.NewState()
	g.Save(s)

	compressed, err := cbrotli.Encode(s.Bytes(), cbrotli.WriterOptions{
		Quality: 7,
	})
	if err != nil {
		return nil, fmt.Errorf("gameboy: compressing state: %w", err)
	}

	out := make([]byte, stateHeader, stateHeader+len(compressed))
	copy(out, stateMagic)
	out[len(stateMagic)] = stateVersion
	binary.LittleEndian.PutUint64(out[len(stateMagic)+1:], g.fingerprint())
	binary.LittleEndian.PutUint64(out[len(stateMagic)+9:], xxhash.Sum64(compressed))
	out = append(out, compressed...)

	g.Debugf("saved state of %d bytes (%d uncompressed) at frame %d", len(out), len(s.Bytes()), g.frames)
	return out, nil
}

// LoadState restores a state returned by SaveState. The state must
// have been saved with the same cartridge, otherwise an error wrapping
// types.ErrStateMismatch is returned. On error the system is left as
// it was.
func (g *GameBoy) LoadState(b []byte) error {
	if len(b) < stateHeader || !bytes.Equal(b[:len(stateMagic)], []byte(stateMagic)) {
		return fmt.Errorf("%w: not a save state", types.ErrStateMismatch)
	}
	if v := b[len(stateMagic)]; v != stateVersion {
		return fmt.Errorf("%w: version %d, expected %d", types.ErrStateMismatch, v, stateVersion)
	}
	if f := binary.LittleEndian.Uint64(b[len(stateMagic)+1:]); f != g.fingerprint() {
		return fmt.Errorf("%w: cartridge %016X, expected %016X", types.ErrStateMismatch, f, g.fingerprint())
	}

	if h := binary.LittleEndian.Uint64(b[len(stateMagic)+9:]); h != xxhash.Sum64(b[stateHeader:]) {
		return fmt.Errorf("%w: corrupt state", types.ErrStateMismatch)
	}

	raw, err := cbrotli.Decode(b[stateHeader:])
	if err != nil {
		return fmt.Errorf("gameboy: decompressing state: %w", err)
	}

	// keep the current state around, in case the new one is truncated
	previous := types.NewState()
	g.Save(previous)

	s := types.StateFromBytes(raw)
	g.Load(s)
	if err := s.Err(); err != nil {
		g.Load(types.StateFromBytes(previous.Bytes()))
		return fmt.Errorf("gameboy: loading state: %w", err)
	}
	if rest := len(raw) - len(previous.Bytes()); rest != 0 {
		g.Load(types.StateFromBytes(previous.Bytes()))
		return fmt.Errorf("%w: %d trailing bytes", types.ErrStateMismatch, rest)
	}

	g.Infof("loaded state at frame %d", g.frames)
	return nil
}
