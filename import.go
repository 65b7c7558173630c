package e32

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ImportBlock is one DLL's record in the import section:
//
//	name_offset  uint32 // relative to ImportOffset
//	import_count uint32
//	imports      [import_count]uint32
type ImportBlock struct {
	Offset     uint32 // file offset of the block
	NameOffset uint32
	Name       string // raw name as stored
	FoldedName string
	Entries    []uint32
}

// EntryOffset returns the file offset of the i-th import entry.
func (b *ImportBlock) EntryOffset(i int) uint32 {
	return b.Offset + importBlockHeaderLen + uint32(i)*importEntryLen
}

// Size returns the number of bytes the block occupies.
func (b *ImportBlock) Size() uint32 {
	return importBlockHeaderLen + uint32(len(b.Entries))*importEntryLen
}

// Imports lists every DLL import block declared by the header.
func (f *File) Imports() ([]*ImportBlock, error) {
	if err := f.checkImports(); err != nil {
		return nil, err
	}
	var blocks []*ImportBlock
	err := f.walkImports(func(b *ImportBlock) bool {
		blocks = append(blocks, b)
		return false
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (f *File) checkImports() error {
	if f.ImportOffset == 0 || f.DllRefTableCount == 0 {
		return ErrNoImports
	}
	if f.DllRefTableCount < 0 {
		return errors.Wrapf(ErrCorrupt, "negative DLL reference count %d", f.DllRefTableCount)
	}
	return nil
}

// walkImports reads DllRefTableCount blocks back to back, starting after the
// section size word, and hands each to fn until fn returns true.
func (f *File) walkImports(fn func(*ImportBlock) bool) error {
	cursor := uint64(f.ImportOffset) + importSectionSizeLen

	for i := int32(0); i < f.DllRefTableCount; i++ {
		b, err := f.readImportBlock(cursor)
		if err != nil {
			return errors.WithMessagef(err, "import block %d at %#x", i, cursor)
		}
		if fn(b) {
			return nil
		}
		cursor += uint64(b.Size())
	}
	return nil
}

func (f *File) readImportBlock(offset uint64) (*ImportBlock, error) {
	if offset+importBlockHeaderLen > uint64(f.size) {
		return nil, errors.Wrap(ErrCorrupt, "block header past end of image")
	}
	d := f.data[offset:]
	b := &ImportBlock{
		Offset:     uint32(offset),
		NameOffset: binary.LittleEndian.Uint32(d[0:4]),
	}
	count := binary.LittleEndian.Uint32(d[4:8])

	end := offset + importBlockHeaderLen + uint64(count)*importEntryLen
	if end > uint64(f.size) {
		return nil, errors.Wrapf(ErrCorrupt, "%d import entries run past end of image", count)
	}
	b.Entries = make([]uint32, count)
	d = d[importBlockHeaderLen:]
	for i := range b.Entries {
		b.Entries[i] = binary.LittleEndian.Uint32(d[i*importEntryLen:])
	}

	name, err := f.readName(b.NameOffset)
	if err != nil {
		return nil, err
	}
	b.Name = string(name)
	b.FoldedName = foldName(name)
	return b, nil
}

func (f *File) readName(nameOffset uint32) ([]byte, error) {
	start := uint64(f.ImportOffset) + uint64(nameOffset)
	if start >= uint64(f.size) {
		return nil, errors.Wrapf(ErrCorrupt, "DLL name offset %#x outside image", nameOffset)
	}
	name, ok := cString(f.data[start:])
	if !ok {
		return nil, errors.Wrapf(ErrCorrupt, "DLL name at %#x is not terminated", start)
	}
	return name, nil
}
