package cartridge

// NROMMapper implements iNES mapper 0: no bank switching. PRG ROM is either
// 16KB (mirrored across the full $8000-$FFFF window) or 32KB (mapped
// directly); CHR is either 8KB ROM or, when the header declared none, 8KB
// RAM.
type NROMMapper struct {
	cart     *Cartridge
	prgBanks uint8 // number of 16KB PRG banks: 1 or 2
}

// NewNROMMapper builds an NROM mapper over cart's already-loaded PRG/CHR
// memory.
func NewNROMMapper(cart *Cartridge) *NROMMapper {
	return &NROMMapper{
		cart:     cart,
		prgBanks: uint8(len(cart.prgROM) / 0x4000),
	}
}

// ReadPRG serves $6000-$7FFF from cartridge RAM and $8000-$FFFF from PRG
// ROM, mirroring a 16KB image across both halves of the ROM window.
func (m *NROMMapper) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0x8000:
		if len(m.cart.prgROM) == 0 {
			return 0
		}
		offset := address - 0x8000
		if m.prgBanks == 1 {
			offset &= 0x3FFF
		}
		if int(offset) < len(m.cart.prgROM) {
			return m.cart.prgROM[offset]
		}
		return 0
	case address >= 0x6000:
		return m.cart.sram[address-0x6000]
	}
	return 0
}

// WritePRG only accepts writes in the cartridge RAM window; NROM has no
// PRG ROM to bank-switch.
func (m *NROMMapper) WritePRG(address uint16, value uint8) {
	if address >= 0x6000 && address < 0x8000 {
		m.cart.sram[address-0x6000] = value
	}
}

// ReadCHR serves the flat 8KB CHR window, ROM or RAM.
func (m *NROMMapper) ReadCHR(address uint16) uint8 {
	if address < 0x2000 && int(address) < len(m.cart.chrROM) {
		return m.cart.chrROM[address]
	}
	return 0
}

// WriteCHR is accepted only when the cartridge has CHR RAM.
func (m *NROMMapper) WriteCHR(address uint16, value uint8) {
	if m.cart.hasCHRRAM && address < 0x2000 && int(address) < len(m.cart.chrROM) {
		m.cart.chrROM[address] = value
	}
}

// Mirroring is fixed at load time for NROM; the mapper has no control
// register to change it.
func (m *NROMMapper) Mirroring() MirrorMode { return m.cart.mirror }

// NextScanline is a no-op: NROM has no IRQ counter.
func (m *NROMMapper) NextScanline() ScanlineResult { return Continue }
