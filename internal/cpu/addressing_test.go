package cpu

import "testing"

func TestIndexedIndirectUsesX(t *testing.T) {
	c, mem := newTestCPU()
	c.X = 0x04
	mem.SetBytes(0x8000, 0xA1, 0x20) // LDA ($20,X)
	mem.SetBytes(0x0024, 0x00, 0x90) // pointer at $20+X=$24 -> $9000
	mem.SetByte(0x9000, 0x55)
	c.Step()
	if c.A != 0x55 {
		t.Fatalf("A = $%02X, want $55 (pointer must be indexed with X, not Y)", c.A)
	}
}

func TestIndirectIndexedUsesY(t *testing.T) {
	c, mem := newTestCPU()
	c.Y = 0x10
	mem.SetBytes(0x8000, 0xB1, 0x20) // LDA ($20),Y
	mem.SetBytes(0x0020, 0x00, 0x90) // pointer -> $9000
	mem.SetByte(0x9010, 0x77)
	c.Step()
	if c.A != 0x77 {
		t.Fatalf("A = $%02X, want $77", c.A)
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, mem := newTestCPU()
	mem.SetBytes(0x8000, 0x6C, 0xFF, 0x30) // JMP ($30FF)
	mem.SetByte(0x30FF, 0x40)
	mem.SetByte(0x3000, 0x50) // high byte incorrectly read from $3000, not $3100
	mem.SetByte(0x3100, 0x99)
	c.Step()
	if c.PC != 0x5040 {
		t.Fatalf("PC = $%04X, want $5040 (hardware page-wrap bug)", c.PC)
	}
}

func TestAbsoluteXPageCross(t *testing.T) {
	c, mem := newTestCPU()
	c.X = 0xFF
	mem.SetBytes(0x8000, 0xBD, 0x01, 0x80) // LDA $8001,X -> $8100
	mem.SetByte(0x8100, 0x33)
	cycles, _ := c.Step()
	if cycles != 5 { // base 4 + 1 page-cross penalty
		t.Fatalf("cycles = %d, want 5", cycles)
	}
	if c.A != 0x33 {
		t.Fatalf("A = $%02X, want $33", c.A)
	}
}

func TestZeroPageXWraps(t *testing.T) {
	c, mem := newTestCPU()
	c.X = 0xFF
	mem.SetBytes(0x8000, 0xB5, 0x80) // LDA $80,X -> wraps to $7F
	mem.SetByte(0x007F, 0x21)
	c.Step()
	if c.A != 0x21 {
		t.Fatalf("A = $%02X, want $21 (zero page address must wrap)", c.A)
	}
}

func TestRelativeBranchSignExtension(t *testing.T) {
	c, mem := newTestCPU()
	c.Z = true
	mem.SetBytes(0x8010, 0xF0, 0xFC) // BEQ -4 -> back to $800E
	c.PC = 0x8010
	c.Step()
	if c.PC != 0x800E {
		t.Fatalf("PC = $%04X, want $800E (negative offset must sign-extend)", c.PC)
	}
}
