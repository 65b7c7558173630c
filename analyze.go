package e32

import (
	"fmt"
	"strings"
)

// Analysis is a read-only breakdown of an image header.
type Analysis struct {
	Uid1, Uid2, Uid3 uint32
	FileType         string

	ImportFormat ImportFormat
	HeaderFormat HeaderFormat
	ABI          ABI

	CompressionType  uint32
	CodeOffset       uint32
	CodeSize         int32
	CodeEntropy      float64
	ImportOffset     uint32
	DllRefTableCount int32
	ExportDirOffset  uint32
	ExportDirCount   int32
}

func (f *File) Analyze() Analysis {
	a := Analysis{
		Uid1:             f.Uid1,
		Uid2:             f.Uid2,
		Uid3:             f.Uid3,
		FileType:         DetectFileType(f.data),
		ImportFormat:     f.ImageHeader.ImportFormat(),
		HeaderFormat:     f.ImageHeader.HeaderFormat(),
		ABI:              f.ImageHeader.ABI(),
		CompressionType:  f.CompressionType,
		CodeOffset:       f.CodeOffset,
		CodeSize:         f.CodeSize,
		ImportOffset:     f.ImportOffset,
		DllRefTableCount: f.DllRefTableCount,
		ExportDirOffset:  f.ExportDirOffset,
		ExportDirCount:   f.ExportDirCount,
	}

	if f.CodeSize > 0 && inBounds(f.CodeOffset, uint32(f.CodeSize), f.size) {
		var e EntropyCalculator
		_, _ = e.Write(f.data[f.CodeOffset : f.CodeOffset+uint32(f.CodeSize)])
		a.CodeEntropy = e.Sum()
	}
	return a
}

func (a Analysis) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "UIDs               : %#08x %#08x %#08x\n", a.Uid1, a.Uid2, a.Uid3)
	fmt.Fprintf(&sb, "File Type          : %s\n", a.FileType)
	fmt.Fprintf(&sb, "Import Format      : %s (Value: %d)\n", a.ImportFormat, uint32(a.ImportFormat))
	fmt.Fprintf(&sb, "Header Format      : %s (Value: %d)\n", a.HeaderFormat, uint32(a.HeaderFormat))
	fmt.Fprintf(&sb, "ABI                : %s (Value: %d)\n", a.ABI, uint32(a.ABI))
	fmt.Fprintf(&sb, "Compression        : %#x\n", a.CompressionType)
	fmt.Fprintf(&sb, "Code               : offset %#x, size %d, entropy %.3f\n", a.CodeOffset, a.CodeSize, a.CodeEntropy)
	fmt.Fprintf(&sb, "Import Offset      : %#x\n", a.ImportOffset)
	fmt.Fprintf(&sb, "DLL Reference Count: %d\n", a.DllRefTableCount)
	fmt.Fprintf(&sb, "Export Dir Offset  : %#x\n", a.ExportDirOffset)
	fmt.Fprintf(&sb, "Export Dir Count   : %d\n", a.ExportDirCount)
	return sb.String()
}
