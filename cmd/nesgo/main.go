// Command nesgo runs the 6502 core against an iNES ROM image until it traps
// on an undocumented opcode or hits an optional instruction bound. It has no
// PPU/APU rendering behind it; -debug traces opcode fetches and cartridge
// load diagnostics via the standard logger.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kungfukennyg/nesgo/internal/apu"
	"github.com/kungfukennyg/nesgo/internal/bus"
	"github.com/kungfukennyg/nesgo/internal/cartridge"
	"github.com/kungfukennyg/nesgo/internal/cpu"
	"github.com/kungfukennyg/nesgo/internal/input"
	"github.com/kungfukennyg/nesgo/internal/ppu"
	"github.com/kungfukennyg/nesgo/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("nesgo", flag.ContinueOnError)
	debug := flags.Bool("debug", false, "trace opcode fetches and cartridge load diagnostics")
	showVersion := flags.Bool("version", false, "print version information and exit")
	maxInstructions := flags.Uint64("max-instructions", 0, "stop after this many instructions (0 = unbounded)")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Println(version.GetDetailedVersion())
		return 0
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: nesgo [-debug] [-max-instructions N] <rom.nes>")
		return 1
	}

	cart, err := cartridge.LoadFromFile(flags.Arg(0))
	if err != nil {
		log.Printf("nesgo: failed to load cartridge: %v", err)
		return 1
	}
	if *debug {
		log.Printf("nesgo: loaded %s", cart)
	}

	machine := newMachine(cart)
	if *debug {
		machine.cpu.EnableDebugLogging(true)
	}
	machine.cpu.Reset()

	var instructions uint64
	for {
		_, err := machine.cpu.Step()
		if err != nil {
			var badOp *cpu.BadOpcodeError
			if errors.As(err, &badOp) {
				log.Printf("nesgo: %v", badOp)
				return 2
			}
			log.Printf("nesgo: %v", err)
			return 2
		}

		instructions++
		if *maxInstructions != 0 && instructions >= *maxInstructions {
			if *debug {
				log.Printf("nesgo: stopping after %d instructions", instructions)
			}
			return 0
		}
	}
}

// machine wires the CPU, memory bus, and the register-file collaborator
// stand-ins (PPU, APU, controller input) together over a loaded cartridge.
type machine struct {
	cpu *cpu.CPU
	bus *bus.Bus
}

func newMachine(cart *cartridge.Cartridge) *machine {
	p := ppu.New(cart, toPPUMirroring(cart.Mirroring()))
	a := apu.New()
	in := input.NewInputState()

	b := bus.New(p, a, in, cart)
	c := cpu.New(b)
	// The PPU stand-in reports VBlank start as a single event rather than a
	// held line; bridge it into the CPU's edge-triggered NMI input as an
	// immediate rise-then-fall.
	p.SetNMICallback(func() { c.SetNMI(true); c.SetNMI(false) })

	return &machine{cpu: c, bus: b}
}

func toPPUMirroring(m cartridge.MirrorMode) ppu.Mirroring {
	switch m {
	case cartridge.MirrorVertical:
		return ppu.MirrorVertical
	case cartridge.MirrorSingleScreenLower:
		return ppu.MirrorSingleScreenLower
	case cartridge.MirrorSingleScreenUpper:
		return ppu.MirrorSingleScreenUpper
	case cartridge.MirrorFourScreen:
		return ppu.MirrorFourScreen
	default:
		return ppu.MirrorHorizontal
	}
}
