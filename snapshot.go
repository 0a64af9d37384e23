package slabarena

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zstd"
)

// dumpMagic identifies a dump stream; the trailing digits are the
// format version.
var dumpMagic = [8]byte{'S', 'L', 'A', 'B', 'D', 'P', '0', '1'}

// ErrBadDump is returned by ReadDump for streams that are not dumps or
// use an unknown format version.
var ErrBadDump = errors.New("slabarena: not a dump stream")

// Dump is the parsed form of a diagnostic dump: the arena's geometry,
// the free-slot set and a copy of every ever-touched slot's content.
// It is an inspection artifact for post-mortem debugging, not a
// restore point; addresses are meaningless across processes.
type Dump struct {
	Name          string
	ObjectSize    int
	SlotCount     int
	HighWaterMark int
	Free          *roaring.Bitmap

	// Slots holds HighWaterMark*ObjectSize bytes, slot i at
	// i*ObjectSize.
	Slots []byte
}

// Slot returns the dumped content of slot i.
func (d *Dump) Slot(i int) []byte {
	off := i * d.ObjectSize
	return d.Slots[off : off+d.ObjectSize]
}

// WriteDump streams a zstd-compressed diagnostic image of the arena to
// w: geometry, free-slot set and the content of every slot below the
// high-water mark. The arena is read but not modified; callers must
// hold the same external serialization as for Alloc/Free.
func (a *Arena) WriteDump(w io.Writer) error {
	a.ensureOpen()

	if _, err := w.Write(dumpMagic[:]); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	name := []byte(a.name)
	header := []uint64{
		uint64(len(name)),
		uint64(a.objectSize),
		uint64(a.count),
		uint64(a.hwm),
	}
	for _, v := range header {
		if err := binary.Write(zw, binary.LittleEndian, v); err != nil {
			zw.Close()
			return err
		}
	}
	if _, err := zw.Write(name); err != nil {
		zw.Close()
		return err
	}

	if _, err := a.freeSet.WriteTo(zw); err != nil {
		zw.Close()
		return fmt.Errorf("slabarena: dump free set: %w", err)
	}

	for i := 0; i < a.hwm; i++ {
		if _, err := zw.Write(a.data.SlotBytes(i)); err != nil {
			zw.Close()
			return err
		}
	}

	return zw.Close()
}

// ReadDump parses a stream produced by WriteDump.
func ReadDump(r io.Reader) (*Dump, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != dumpMagic {
		return nil, ErrBadDump
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var header [4]uint64
	for i := range header {
		if err := binary.Read(zr, binary.LittleEndian, &header[i]); err != nil {
			return nil, err
		}
	}
	nameLen, objectSize, count, hwm := header[0], header[1], header[2], header[3]
	if objectSize == 0 || count == 0 || hwm > count {
		return nil, ErrBadDump
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(zr, name); err != nil {
		return nil, err
	}

	free := roaring.New()
	if _, err := free.ReadFrom(zr); err != nil {
		return nil, fmt.Errorf("slabarena: dump free set: %w", err)
	}

	slots := make([]byte, hwm*objectSize)
	if _, err := io.ReadFull(zr, slots); err != nil {
		return nil, err
	}

	return &Dump{
		Name:          string(name),
		ObjectSize:    int(objectSize),
		SlotCount:     int(count),
		HighWaterMark: int(hwm),
		Free:          free,
		Slots:         slots,
	}, nil
}
