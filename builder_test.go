package e32

import "encoding/binary"

const (
	elfFlags = 0x12000008 // ELF imports, V format header, EABI
	peFlags  = 0x02000008 // PE imports, V format header, EABI
)

type testBlock struct {
	name    string
	entries []uint32
}

// testImage lays out a minimal E32 image: header, code, import section.
type testImage struct {
	flags  uint32
	code   []byte
	blocks []testBlock
}

func words(v ...uint32) []byte {
	b := make([]byte, 4*len(v))
	for i, w := range v {
		binary.LittleEndian.PutUint32(b[4*i:], w)
	}
	return b
}

func (ti testImage) header() *ImageHeader {
	h := &ImageHeader{
		Uid1:       0x10000079,
		Uid2:       0x1000008D,
		Uid3:       0xE0001234,
		Signature:  ImageSignature,
		Flags:      ti.flags,
		CodeSize:   int32(len(ti.code)),
		CodeOffset: HeaderSize,
	}
	if len(ti.blocks) > 0 {
		h.ImportOffset = HeaderSize + uint32(len(ti.code))
		h.DllRefTableCount = int32(len(ti.blocks))
	}
	return h
}

func (ti testImage) build() []byte {
	h := ti.header()
	buf := append(h.Encode(), ti.code...)
	if len(ti.blocks) == 0 {
		return buf
	}

	nameOffset := uint32(importSectionSizeLen)
	for _, b := range ti.blocks {
		nameOffset += importBlockHeaderLen + importEntryLen*uint32(len(b.entries))
	}

	var blocks, names []byte
	for _, b := range ti.blocks {
		blocks = append(blocks, words(nameOffset+uint32(len(names)), uint32(len(b.entries)))...)
		blocks = append(blocks, words(b.entries...)...)
		names = append(names, b.name...)
		names = append(names, 0)
	}

	size := importSectionSizeLen + len(blocks) + len(names)
	buf = append(buf, words(uint32(size))...)
	buf = append(buf, blocks...)
	return append(buf, names...)
}
