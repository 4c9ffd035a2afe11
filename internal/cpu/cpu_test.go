package cpu

import (
	"errors"
	"testing"
)

// MockMemory is a flat 64KB address space for exercising the CPU in
// isolation from bus address decoding.
type MockMemory struct {
	data [0x10000]uint8
}

func (m *MockMemory) Read(address uint16) uint8 {
	return m.data[address]
}

func (m *MockMemory) Write(address uint16, value uint8) {
	m.data[address] = value
}

func (m *MockMemory) ReadWord(address uint16) uint16 {
	lo := m.Read(address)
	hi := m.Read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (m *MockMemory) SetByte(address uint16, value uint8) {
	m.data[address] = value
}

func (m *MockMemory) SetBytes(address uint16, values ...uint8) {
	for i, v := range values {
		m.data[address+uint16(i)] = v
	}
}

func newTestCPU() (*CPU, *MockMemory) {
	mem := &MockMemory{}
	mem.SetBytes(resetVector, 0x00, 0x80) // reset to $8000
	c := New(mem)
	c.Reset()
	return c, mem
}

func TestReset(t *testing.T) {
	c, _ := newTestCPU()
	if c.PC != 0x8000 {
		t.Fatalf("PC after reset = $%04X, want $8000", c.PC)
	}
	if c.SP != 0xFD {
		t.Fatalf("SP after reset = $%02X, want $FD", c.SP)
	}
	if !c.I {
		t.Fatal("I flag should be set after reset")
	}
	if c.Cycles() != 7 {
		t.Fatalf("reset cost %d cycles, want 7", c.Cycles())
	}
	if got := c.GetStatusByte(); got != 0x24 {
		t.Fatalf("status byte after reset = $%02X, want $24 (I and unused bits set)", got)
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, mem := newTestCPU()
	mem.SetBytes(0x8000, 0xA9, 0x00) // LDA #$00
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 2 {
		t.Fatalf("cycles = %d, want 2", cycles)
	}
	if !c.Z || c.N {
		t.Fatalf("flags after LDA #$00: Z=%v N=%v, want Z=true N=false", c.Z, c.N)
	}

	mem.SetBytes(0x8002, 0xA9, 0x80) // LDA #$80
	c.Step()
	if c.Z || !c.N {
		t.Fatalf("flags after LDA #$80: Z=%v N=%v, want Z=false N=true", c.Z, c.N)
	}
}

func TestSTAAbsolute(t *testing.T) {
	c, mem := newTestCPU()
	c.A = 0x42
	mem.SetBytes(0x8000, 0x8D, 0x00, 0x03) // STA $0300
	c.Step()
	if got := mem.Read(0x0300); got != 0x42 {
		t.Fatalf("mem[$0300] = $%02X, want $42", got)
	}
}

func TestADCOverflowAndCarry(t *testing.T) {
	c, mem := newTestCPU()
	c.A = 0x7F
	mem.SetBytes(0x8000, 0x69, 0x01) // ADC #$01
	c.Step()
	if c.A != 0x80 {
		t.Fatalf("A = $%02X, want $80", c.A)
	}
	if !c.V {
		t.Fatal("V should be set: $7F + $01 overflows into the sign bit")
	}
	if c.C {
		t.Fatal("C should be clear: no unsigned carry out of bit 7")
	}
}

func TestSBCBorrow(t *testing.T) {
	c, mem := newTestCPU()
	c.A = 0x00
	c.C = true // no pending borrow
	mem.SetBytes(0x8000, 0xE9, 0x01) // SBC #$01
	c.Step()
	if c.A != 0xFF {
		t.Fatalf("A = $%02X, want $FF", c.A)
	}
	if c.C {
		t.Fatal("C should be clear: subtraction borrowed")
	}
}

func TestCMPSetsCarryWhenGreaterOrEqual(t *testing.T) {
	c, mem := newTestCPU()
	c.A = 0x10
	mem.SetBytes(0x8000, 0xC9, 0x10) // CMP #$10
	c.Step()
	if !c.C || !c.Z {
		t.Fatalf("C=%v Z=%v, want both true for equal operands", c.C, c.Z)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newTestCPU()
	mem.SetBytes(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	mem.SetBytes(0x9000, 0x60)             // RTS
	c.Step()
	if c.PC != 0x9000 {
		t.Fatalf("PC after JSR = $%04X, want $9000", c.PC)
	}
	c.Step()
	if c.PC != 0x8003 {
		t.Fatalf("PC after RTS = $%04X, want $8003", c.PC)
	}
}

func TestPHPSetsBreakPLPClearsIt(t *testing.T) {
	c, mem := newTestCPU()
	mem.SetBytes(0x8000, 0x08, 0x68) // PHP; PLA (read the pushed byte into A)
	c.Step()
	c.Step()
	if c.A&bFlagMask == 0 {
		t.Fatal("PHP should push status with B set")
	}

	mem.SetBytes(0x8002, 0x48, 0x28) // PHA (push A back); PLP
	c.A = 0xFF
	c.Step()
	c.Step()
	if c.B {
		t.Fatal("PLP must force B clear on the live flag set")
	}
}

func TestBadOpcodeTraps(t *testing.T) {
	c, mem := newTestCPU()
	mem.SetBytes(0x8000, 0x02) // undefined
	_, err := c.Step()
	if err == nil {
		t.Fatal("expected a BadOpcodeError")
	}
	var badOp *BadOpcodeError
	if !errors.As(err, &badOp) {
		t.Fatalf("error = %v, want *BadOpcodeError", err)
	}
	if badOp.Opcode != 0x02 || badOp.PC != 0x8000 {
		t.Fatalf("badOp = %+v, want Opcode=$02 PC=$8000", badOp)
	}
	if c.PC != 0x8000 {
		t.Fatalf("PC after trap = $%04X, want unchanged at $8000", c.PC)
	}
}

func TestBranchPageCrossPenalty(t *testing.T) {
	c, mem := newTestCPU()
	c.Z = false
	mem.SetBytes(0x80FD, 0xD0, 0x05) // BNE +5, from $80FD -> target $8104 (crosses page)
	c.PC = 0x80FD
	cycles, _ := c.Step()
	if cycles != 4 { // base 2 + taken 1 + page-cross 1
		t.Fatalf("cycles = %d, want 4", cycles)
	}
}
