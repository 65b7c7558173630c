package e32

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

type Version struct {
	Major uint8
	Minor uint8
	Build uint16
}

type SecurityInfo struct {
	SecureID uint32
	VendorID uint32
	Caps1    uint32
	Caps2    uint32
}

// ImageHeader is the E32ImageHeaderV layout. All fields are little-endian and
// packed.
type ImageHeader struct {
	Uid1             uint32
	Uid2             uint32
	Uid3             uint32
	UidChecksum      uint32
	Signature        uint32
	HeaderCrc        uint32
	ModuleVersion    uint32
	CompressionType  uint32
	ToolsVersion     Version
	TimeLo           uint32
	TimeHi           uint32
	Flags            uint32
	CodeSize         int32
	DataSize         int32
	HeapSizeMin      int32
	HeapSizeMax      int32
	StackSize        int32
	BssSize          int32
	EntryPoint       uint32
	CodeBase         uint32
	DataBase         uint32
	DllRefTableCount int32
	ExportDirOffset  uint32
	ExportDirCount   int32
	TextSize         int32
	CodeOffset       uint32
	DataOffset       uint32
	ImportOffset     uint32
	CodeRelocOffset  uint32
	DataRelocOffset  uint32
	ProcessPriority  uint16
	CpuIdentifier    uint16

	// E32ImageHeaderComp
	UncompressedSize uint32

	// E32ImageHeaderV
	S                   SecurityInfo
	ExceptionDescriptor uint32
	Spare2              uint32
	ExportDescSize      uint16
	ExportDescType      uint8
	ExportDesc          [1]uint8
}

// DecodeHeader reads the fixed header from the start of b. The signature is
// not checked.
func DecodeHeader(b []byte) (*ImageHeader, error) {
	if len(b) < HeaderSize {
		return nil, errors.Wrapf(ErrTooSmall, "got %d bytes, need %d", len(b), HeaderSize)
	}
	h := new(ImageHeader)
	if err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.LittleEndian, h); err != nil {
		return nil, errors.WithMessage(err, "fail to decode E32 header")
	}
	return h, nil
}

// Encode returns the HeaderSize-byte encoding of h.
func (h *ImageHeader) Encode() []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)
	// bytes.Buffer writes cannot fail and every field is fixed size.
	_ = binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}

// PutHeader overwrites the first HeaderSize bytes of b with h.
func (h *ImageHeader) PutHeader(b []byte) error {
	if len(b) < HeaderSize {
		return errors.Wrapf(ErrTooSmall, "got %d bytes, need %d", len(b), HeaderSize)
	}
	copy(b, h.Encode())
	return nil
}

func (h *ImageHeader) ImportFormat() ImportFormat { return ImportFormatOf(h.Flags) }
func (h *ImageHeader) HeaderFormat() HeaderFormat { return HeaderFormatOf(h.Flags) }
func (h *ImageHeader) ABI() ABI                   { return ABIOf(h.Flags) }

type ImportFormat uint32

func ImportFormatOf(flags uint32) ImportFormat {
	return ImportFormat((flags & ImageImpFmtMask) >> ImageImpFmtShift)
}

func (f ImportFormat) String() string {
	switch f {
	case ImageImpFmtPE:
		return "PE"
	case ImageImpFmtELF:
		return "ELF"
	case ImageImpFmtPE2:
		return "PE2"
	}
	return "Unknown"
}

type HeaderFormat uint32

func HeaderFormatOf(flags uint32) HeaderFormat {
	return HeaderFormat((flags & ImageHdrFmtMask) >> ImageHdrFmtShift)
}

func (f HeaderFormat) String() string {
	if f == ImageHdrFmtV {
		return "V Format"
	}
	return "Original/J"
}

type ABI uint32

func ABIOf(flags uint32) ABI {
	return ABI((flags & ImageABIMask) >> ImageABIShift)
}

func (a ABI) String() string {
	if a == ImageABIEABI {
		return "EABI"
	}
	return "GCC98r2"
}
