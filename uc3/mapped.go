package uc3

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

const MEM_FILE = "/dev/mem"

// MappedRegisters is a register block mapped into our address space from a
// memory device (normally /dev/mem).
type MappedRegisters struct {
	buf  mmap.MMap
	offs uintptr
	size int
}

// MapRegisters opens memFile and uses mmap to map size bytes at physAddr.
// Since the mapping has to start at a page boundary, the physical address is
// rounded down to the nearest page and the remainder is kept as an offset.
func MapRegisters(memFile string, physAddr uintptr, size int) (*MappedRegisters, error) {
	f, err := os.OpenFile(memFile, os.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s: %v", memFile, err)
	}
	defer f.Close() // Ignore error

	pagemask := ^uintptr(unix.Getpagesize() - 1)
	mapAddr := physAddr & pagemask
	offs := physAddr - mapAddr
	mm, err := mmap.MapRegion(f, size+int(offs), mmap.RDWR, 0, int64(mapAddr))
	if err != nil {
		return nil, fmt.Errorf("couldn't map region (%08X, %v): %v", physAddr, size, err)
	}
	return &MappedRegisters{buf: mm, offs: offs, size: size}, nil
}

func (m *MappedRegisters) reg(offset uintptr) *uint32 {
	if offset%4 != 0 || int(offset)+4 > m.size {
		panic(fmt.Sprintf("register offset %03X outside %d byte mapping", offset, m.size))
	}
	return (*uint32)(unsafe.Pointer(&m.buf[m.offs+offset]))
}

// Load and Store go through sync/atomic so every access reaches the device
// and none are merged or reordered by the compiler.
func (m *MappedRegisters) Load(offset uintptr) uint32 {
	return atomic.LoadUint32(m.reg(offset))
}

func (m *MappedRegisters) Store(offset uintptr, value uint32) {
	atomic.StoreUint32(m.reg(offset), value)
}

func (m *MappedRegisters) Close() error {
	if m.buf == nil {
		return nil
	}
	err := m.buf.Unmap()
	m.buf = nil
	return err
}
