// Package ppu is a minimal stand-in for the NES Picture Processing Unit: it
// implements the $2000-$2007 CPU-visible register file and the VRAM/palette
// storage those registers address, but none of the pixel-rendering pipeline
// a real PPU drives off its own scanline/cycle counter. A full PPU is an
// external collaborator to the CPU core this module implements; this stub
// exists so the core can be exercised end to end without one.
package ppu

// CartridgeInterface is the CHR-memory side of the mapper a PPU reads
// pattern tables through.
type CartridgeInterface interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// Mirroring is the nametable arrangement the PPU's VRAM address decode uses.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleScreenLower
	MirrorSingleScreenUpper
	MirrorFourScreen
)

// PPU holds the CPU-visible register file ($2000-$2007), the internal VRAM
// address latch those registers drive, and the nametable/palette RAM that
// backs $2007 access.
type PPU struct {
	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002
	oamAddr uint8 // $2003

	oam [256]uint8

	v, t uint16 // current/temporary VRAM address (15 bits)
	x    uint8  // fine X scroll
	w    bool   // write-toggle latch, shared by $2005/$2006

	readBuffer uint8 // $2007 read is buffered one access behind, except palette

	vram       [0x800]uint8 // 2KB nametable RAM
	paletteRAM [32]uint8

	cart      CartridgeInterface
	mirroring Mirroring

	scanline int
	cycle    int

	nmiCallback func()
}

// New returns a PPU stand-in wired to cart for CHR access.
func New(cart CartridgeInterface, mirroring Mirroring) *PPU {
	p := &PPU{cart: cart, mirroring: mirroring}
	p.Reset()
	return p
}

// SetNMICallback registers the callback invoked when the PPU asserts NMI
// (VBlank start, if PPUCTRL bit 7 is set).
func (p *PPU) SetNMICallback(callback func()) {
	p.nmiCallback = callback
}

// Reset restores power-up register state.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v, p.t = 0, 0
	p.x = 0
	p.w = false
	p.readBuffer = 0
	p.scanline = -1
	p.cycle = 0
}

// ReadRegister reads CPU-visible PPU register address (already normalized
// to $2000-$2007 by the bus).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		value := p.status
		p.status &^= 0x80 // clear VBlank flag
		p.w = false
		return value
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readData()
	default:
		return 0 // write-only registers read back open bus; callers see 0 here
	}
}

// WriteRegister writes CPU-visible PPU register address.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x2000:
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&0x03) << 10)
	case 0x2001:
		p.mask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writeScroll(value)
	case 0x2006:
		p.writeAddr(value)
	case 0x2007:
		p.writeData(value)
	}
}

// WriteOAM writes OAM directly, used by the bus's $4014 OAM DMA handler.
func (p *PPU) WriteOAM(index uint8, value uint8) {
	p.oam[index] = value
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x001F) | uint16(value>>3)
		p.x = value & 0x07
	} else {
		p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0xFF00) | (uint16(value&0x3F) << 8)
	} else {
		p.t = (p.t &^ 0x00FF) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	address := p.v & 0x3FFF
	p.v += p.vramIncrement()

	if address >= 0x3F00 {
		return p.readPalette(address)
	}

	value := p.readBuffer
	switch {
	case address < 0x2000:
		p.readBuffer = p.cart.ReadCHR(address)
	default:
		p.readBuffer = p.vram[p.nametableIndex(address)]
	}
	return value
}

func (p *PPU) writeData(value uint8) {
	address := p.v & 0x3FFF
	p.v += p.vramIncrement()

	switch {
	case address < 0x2000:
		p.cart.WriteCHR(address, value)
	case address < 0x3F00:
		p.vram[p.nametableIndex(address)] = value
	default:
		p.writePalette(address, value)
	}
}

func (p *PPU) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	table := (address >> 10) & 3
	offset := address & 0x3FF

	switch p.mirroring {
	case MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400 + offset
		}
		return offset
	case MirrorSingleScreenLower:
		return offset
	case MirrorSingleScreenUpper:
		return 0x400 + offset
	case MirrorFourScreen:
		return table*0x400 + offset
	default: // MirrorHorizontal
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	}
}

func (p *PPU) readPalette(address uint16) uint8 {
	index := (address - 0x3F00) & 0x1F
	if index&0x13 == 0x10 {
		index &^= 0x10
	}
	return p.paletteRAM[index]
}

func (p *PPU) writePalette(address uint16, value uint8) {
	index := (address - 0x3F00) & 0x1F
	if index&0x13 == 0x10 {
		index &^= 0x10
	}
	p.paletteRAM[index] = value
}

// Step advances the stand-in's scanline/cycle counter by one PPU cycle and
// asserts NMI at the start of VBlank (scanline 241, cycle 1), the one piece
// of PPU timing the CPU core's interrupt handling needs to be exercised
// against. No pixel is produced; rendering is out of scope for this stub.
func (p *PPU) Step() {
	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
		}
	}

	switch {
	case p.scanline == 241 && p.cycle == 1:
		p.status |= 0x80
		if p.ctrl&0x80 != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	case p.scanline == -1 && p.cycle == 1:
		p.status &^= 0x80
	}
}
