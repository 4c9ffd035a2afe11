package main

import (
	"os"
	"path/filepath"
	"testing"
)

// buildROM assembles a minimal 16KB-PRG iNES image whose reset vector points
// at code, so run() has something to execute.
func buildROM(t *testing.T, code []byte) string {
	t.Helper()

	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = 1 // 16KB PRG
	header[5] = 1 // 8KB CHR

	prg := make([]byte, 16384)
	copy(prg, code)
	prg[0x3FFC] = 0x00 // reset vector low -> $8000
	prg[0x3FFD] = 0x80 // reset vector high

	chr := make([]byte, 8192)

	rom := append(header, prg...)
	rom = append(rom, chr...)

	path := filepath.Join(t.TempDir(), "test.nes")
	if err := os.WriteFile(path, rom, 0644); err != nil {
		t.Fatalf("failed to write test ROM: %v", err)
	}
	return path
}

func TestRun_MissingArgsReturnsExitCode1(t *testing.T) {
	if got := run(nil); got != 1 {
		t.Errorf("run(nil) = %d, want 1", got)
	}
}

func TestRun_NonexistentROMReturnsExitCode1(t *testing.T) {
	if got := run([]string{"/nonexistent/path.nes"}); got != 1 {
		t.Errorf("run on a missing ROM = %d, want 1", got)
	}
}

func TestRun_BadOpcodeReturnsExitCode2(t *testing.T) {
	path := buildROM(t, []byte{0x02}) // $02 is not a documented opcode
	if got := run([]string{path}); got != 2 {
		t.Errorf("run on a bad-opcode trap = %d, want 2", got)
	}
}

func TestRun_MaxInstructionsStopsCleanly(t *testing.T) {
	code := []byte{0xEA, 0xEA, 0xEA, 0x4C, 0x00, 0x80} // NOP NOP NOP JMP $8000
	path := buildROM(t, code)
	if got := run([]string{"-max-instructions", "10", path}); got != 0 {
		t.Errorf("run with -max-instructions = %d, want 0", got)
	}
}

func TestRun_VersionFlagReturnsExitCode0(t *testing.T) {
	if got := run([]string{"-version"}); got != 0 {
		t.Errorf("run(-version) = %d, want 0", got)
	}
}
