// Package bus implements the CPU-side memory bus: it decodes the 6502's
// 16-bit address space across internal RAM, the PPU/APU/input register
// collaborators, and the cartridge mapper, and is the MemoryInterface the
// CPU core steps against.
package bus

// PPUInterface is the PPU register collaborator this bus delegates
// $2000-$3FFF to. Only the $2000-$2007 register file is addressed; the
// bus mirrors every access into that 8-byte window itself.
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
	WriteOAM(index uint8, value uint8)
}

// APUInterface is the APU register collaborator this bus delegates
// $4000-$4013, $4015, and $4017 to.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface is the controller collaborator this bus delegates
// $4016/$4017 to.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface is the mapper-backed PRG memory this bus delegates
// $6000-$FFFF to.
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
}

// Bus owns internal RAM and routes every CPU address to the collaborator
// that address range belongs to, per the fixed table in §4.3: RAM below
// $2000, PPU registers below $4000, APU registers through $4015, the
// input collaborator at $4016/$4017 (which also serves the APU frame
// counter register), open bus through $5FFF, and the cartridge mapper
// from $6000 up.
type Bus struct {
	ram [0x800]uint8

	ppu   PPUInterface
	apu   APUInterface
	input InputInterface
	cart  CartridgeInterface

	openBus uint8
}

// New constructs a Bus wired to its four collaborators. cart may be nil
// until LoadCartridge is called; reads/writes at $6000+ are open bus in
// that case.
func New(ppu PPUInterface, apu APUInterface, input InputInterface, cart CartridgeInterface) *Bus {
	return &Bus{ppu: ppu, apu: apu, input: input, cart: cart}
}

// LoadCartridge binds a cartridge's PRG memory after construction, e.g.
// once a ROM file has been parsed.
func (b *Bus) LoadCartridge(cart CartridgeInterface) {
	b.cart = cart
}

// Read implements cpu.MemoryInterface.
func (b *Bus) Read(address uint16) uint8 {
	var value uint8
	switch {
	case address < 0x2000:
		value = b.ram[address&0x07FF]
	case address < 0x4000:
		value = b.ppu.ReadRegister(0x2000 | (address & 0x0007))
	case address == 0x4015:
		value = b.apu.ReadStatus()
	case address == 0x4016 || address == 0x4017:
		value = b.input.Read(address)
	case address <= 0x4018:
		value = b.openBus
	case address < 0x6000:
		value = b.openBus
	default:
		if b.cart != nil {
			value = b.cart.ReadPRG(address)
		} else {
			value = b.openBus
		}
	}
	b.openBus = value
	return value
}

// Write implements cpu.MemoryInterface.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address&0x07FF] = value
	case address < 0x4000:
		b.ppu.WriteRegister(0x2000|(address&0x0007), value)
	case address == 0x4014:
		b.performOAMDMA(value)
	case address == 0x4016:
		b.input.Write(address, value)
	case address >= 0x4000 && address <= 0x4013:
		b.apu.WriteRegister(address, value)
	case address == 0x4015:
		b.apu.WriteRegister(address, value)
	case address == 0x4017:
		b.apu.WriteRegister(address, value)
	case address <= 0x4018:
		// test-mode registers, ignored
	case address < 0x6000:
		// cartridge expansion area, unmapped in this scope
	default:
		if b.cart != nil {
			b.cart.WritePRG(address, value)
		}
	}
}

// ReadWord implements cpu.MemoryInterface, reading two bytes little-endian.
// The CPU reads absolute operands, the JMP-indirect pointer (and its target
// when it does not wrap) and the interrupt/reset vectors through it, so each
// such read observes the same open-bus side effects as a single-byte load.
// Pointer dereferences that wrap within the zero page or a page are issued
// by the CPU as two separate Read calls instead.
func (b *Bus) ReadWord(address uint16) uint16 {
	lo := b.Read(address)
	hi := b.Read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// performOAMDMA copies 256 bytes from page*$100 into PPU OAM. On real
// hardware this suspends the CPU for 513 or 514 cycles; accounting for
// that stall is the caller's responsibility (the CPU core reports its
// own cycle count per instruction and has no notion of bus-initiated
// stalls), so this only performs the transfer itself.
func (b *Bus) performOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAM(uint8(i), b.Read(base+uint16(i)))
	}
}
