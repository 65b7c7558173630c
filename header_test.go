package e32

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
)

func TestHeaderSize(t *testing.T) {
	if got := binary.Size(ImageHeader{}); got != HeaderSize {
		t.Errorf("binary.Size(ImageHeader{}) = %d, want %d", got, HeaderSize)
	}
}

func TestDecodeHeader(t *testing.T) {
	want := ImageHeader{
		Uid1:             0x10000079,
		Uid2:             0x1000008D,
		Uid3:             0xE0001234,
		UidChecksum:      0xDEADBEEF,
		Signature:        ImageSignature,
		ToolsVersion:     Version{Major: 2, Minor: 1, Build: 0x0304},
		Flags:            elfFlags,
		CodeSize:         -2,
		DllRefTableCount: 3,
		ExportDirCount:   -7,
		CodeOffset:       0x9C,
		ImportOffset:     0x1234,
		ProcessPriority:  0x0190,
		CpuIdentifier:    0x2001,
		UncompressedSize: 0x8000,
		S:                SecurityInfo{SecureID: 1, VendorID: 2, Caps1: 3, Caps2: 4},
		ExportDescSize:   0xABCD,
		ExportDescType:   0xEF,
		ExportDesc:       [1]uint8{0x55},
	}

	b := want.Encode()
	if len(b) != HeaderSize {
		t.Fatalf("Encode() length = %d, want %d", len(b), HeaderSize)
	}
	if got := binary.LittleEndian.Uint32(b[16:]); got != ImageSignature {
		t.Errorf("signature bytes = %#x, want %#x", got, ImageSignature)
	}
	if string(b[16:20]) != "EPOC" {
		t.Errorf("signature text = %q, want EPOC", b[16:20])
	}
	if got := binary.LittleEndian.Uint32(b[44:]); got != elfFlags {
		t.Errorf("flags at 44 = %#x, want %#x", got, uint32(elfFlags))
	}
	if got := binary.LittleEndian.Uint32(b[108:]); got != 0x1234 {
		t.Errorf("import offset at 108 = %#x, want 0x1234", got)
	}
	if b[HeaderSize-2] != 0xEF || b[HeaderSize-1] != 0x55 {
		t.Errorf("export descriptor trailer = % x, want ef 55", b[HeaderSize-2:])
	}

	got, err := DecodeHeader(append(b, 0xFF, 0xFF))
	if err != nil {
		t.Fatal(err)
	}
	if *got != want {
		t.Errorf("DecodeHeader() = %+v, want %+v", *got, want)
	}
}

func TestDecodeHeader_tooSmall(t *testing.T) {
	for _, n := range []int{0, 1, 4, HeaderSize - 1} {
		if _, err := DecodeHeader(make([]byte, n)); !errors.Is(err, ErrTooSmall) {
			t.Errorf("DecodeHeader(%d bytes) error = %v, want %v", n, err, ErrTooSmall)
		}
	}
	if _, err := DecodeHeader(make([]byte, HeaderSize)); err != nil {
		t.Errorf("DecodeHeader(%d bytes) error = %v", HeaderSize, err)
	}
}

func TestImageHeader_PutHeader(t *testing.T) {
	h := ImageHeader{Signature: ImageSignature, Flags: peFlags}
	if err := h.PutHeader(make([]byte, 10)); !errors.Is(err, ErrTooSmall) {
		t.Errorf("PutHeader() error = %v, want %v", err, ErrTooSmall)
	}

	b := make([]byte, HeaderSize+4)
	copy(b[HeaderSize:], "tail")
	if err := h.PutHeader(b); err != nil {
		t.Fatal(err)
	}
	if string(b[HeaderSize:]) != "tail" {
		t.Errorf("PutHeader() overwrote bytes after the header")
	}
	if got := binary.LittleEndian.Uint32(b[44:]); got != peFlags {
		t.Errorf("flags = %#x, want %#x", got, uint32(peFlags))
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		flags   uint32
		imp     ImportFormat
		impName string
		hdr     HeaderFormat
		hdrName string
		abi     ABI
		abiName string
	}{
		{elfFlags, ImageImpFmtELF, "ELF", ImageHdrFmtV, "V Format", ImageABIEABI, "EABI"},
		{peFlags, ImageImpFmtPE, "PE", ImageHdrFmtV, "V Format", ImageABIEABI, "EABI"},
		{0x20000000, ImageImpFmtPE2, "PE2", 0, "Original/J", ImageABIGCC98r2, "GCC98r2"},
		{0xF1000010, 15, "Unknown", 1, "Original/J", 2, "GCC98r2"},
		{0xFFFFFFE7, 15, "Unknown", 15, "Original/J", 0, "GCC98r2"},
	}
	for _, tt := range tests {
		if got := ImportFormatOf(tt.flags); got != tt.imp || got.String() != tt.impName {
			t.Errorf("ImportFormatOf(%#x) = %d %s, want %d %s", tt.flags, got, got, tt.imp, tt.impName)
		}
		if got := HeaderFormatOf(tt.flags); got != tt.hdr || got.String() != tt.hdrName {
			t.Errorf("HeaderFormatOf(%#x) = %d %s, want %d %s", tt.flags, got, got, tt.hdr, tt.hdrName)
		}
		if got := ABIOf(tt.flags); got != tt.abi || got.String() != tt.abiName {
			t.Errorf("ABIOf(%#x) = %d %s, want %d %s", tt.flags, got, got, tt.abi, tt.abiName)
		}
	}
}
