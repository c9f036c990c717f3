// Command dmgl runs a cartridge headless for a number of frames,
// optionally restoring and saving the state of the emulator.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/thelolagemann/dmgl/internal/gameboy"
	"github.com/thelolagemann/dmgl/pkg/log"
	"github.com/thelolagemann/dmgl/pkg/utils"
)

func main() {
	romFile := flag.String("rom", "", "The rom file to load")
	bootROM := flag.String("boot", "", "The boot rom file to load")
	frames := flag.Int("frames", 60, "The number of frames to run")
	state := flag.String("state", "", "The state file to load")
	save := flag.String("save", "", "The file to save the state to after running")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	var logger = log.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *romFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	// open the rom file
	rom, err := utils.LoadFile(*romFile)
	if err != nil {
		logger.Fatalf("failed to load rom: %v", err)
	}

	opts := []gameboy.Opt{gameboy.WithLogger(logger)}
	// open the boot rom file
	if *bootROM != "" {
		boot, err := utils.LoadFile(*bootROM)
		if err != nil {
			logger.Fatalf("failed to load boot rom: %v", err)
		}
		opts = append(opts, gameboy.WithBootROM(boot))
	}
	if *state != "" {
		b, err := os.ReadFile(*state)
		if err != nil {
			logger.Fatalf("failed to load state: %v", err)
		}
		opts = append(opts, gameboy.WithState(b))
	}

	gb, err := gameboy.New(rom, opts...)
	if err != nil {
		logger.Fatalf("failed to create emulator: %v", err)
	}
	defer gb.Close()

	for i := 0; i < *frames; i++ {
		if err := gb.Frame(); err != nil {
			logger.Errorf("stopped after %d frames", gb.Frames())
			gb.Close()
			os.Exit(1)
		}
	}
	logger.Infof("%s: ran %d frames", gb.Title(), gb.Frames())
	logger.Debugf("%s", gb.Bus().CPU())

	if *save != "" {
		b, err := gb.SaveState()
		if err != nil {
			logger.Fatalf("failed to save state: %v", err)
		}
		if err := os.WriteFile(*save, b, 0o644); err != nil {
			logger.Fatalf("failed to write state: %v", err)
		}
		logger.Infof("saved state to %s", *save)
	}
}
