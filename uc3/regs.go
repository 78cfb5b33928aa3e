package uc3

import "fmt"

// Registers is a block of 32-bit hardware registers, addressed by byte offset
// from the start of the block.
type Registers interface {
	Load(offset uintptr) uint32
	Store(offset uintptr, value uint32)
}

// Write is one Store recorded by MemRegisters.
type Write struct {
	Offset uintptr
	Value  uint32
}

func (w Write) String() string {
	return fmt.Sprintf("[%03X] <- %08X", w.Offset, w.Value)
}

// MemRegisters is a register block backed by ordinary memory. Every Store is
// appended to a write log, which tests use to check what a driver touched.
type MemRegisters struct {
	regs   []uint32
	writes []Write
}

// NewMemRegisters returns a zeroed block of size bytes.
func NewMemRegisters(size int) *MemRegisters {
	return &MemRegisters{regs: make([]uint32, (size+3)/4)}
}

func (m *MemRegisters) index(offset uintptr) int {
	if offset%4 != 0 || int(offset/4) >= len(m.regs) {
		panic(fmt.Sprintf("register offset %03X outside %d byte block", offset, len(m.regs)*4))
	}
	return int(offset / 4)
}

func (m *MemRegisters) Load(offset uintptr) uint32 {
	return m.regs[m.index(offset)]
}

func (m *MemRegisters) Store(offset uintptr, value uint32) {
	m.regs[m.index(offset)] = value
	m.writes = append(m.writes, Write{offset, value})
}

// set changes a register without logging it, the way hardware updates a
// status register behind the driver's back.
func (m *MemRegisters) set(offset uintptr, value uint32) {
	m.regs[m.index(offset)] = value
}

// Writes returns the stores seen since creation or the last ResetWrites.
func (m *MemRegisters) Writes() []Write {
	return m.writes
}

func (m *MemRegisters) ResetWrites() {
	m.writes = nil
}

func setBits(r Registers, offset uintptr, bits uint32) {
	r.Store(offset, r.Load(offset)|bits)
}

func clearBits(r Registers, offset uintptr, bits uint32) {
	r.Store(offset, r.Load(offset)&^bits)
}

// replaceBits writes value into the bits selected by mask, leaving the rest
// of the register alone.
func replaceBits(r Registers, offset uintptr, value, mask uint32) {
	r.Store(offset, (r.Load(offset)&^mask)|(value&mask))
}
