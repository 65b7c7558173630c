package e32

// ImageSignature is "EPOC" read as a little-endian uint32.
const ImageSignature = 0x434F5045

// HeaderSize is the size of the fixed E32ImageHeaderV region, including the
// first byte of the export descriptor.
const HeaderSize = 156

// iFlags bit fields
const (
	ImageImpFmtMask  = 0xF0000000
	ImageImpFmtShift = 28
	ImageHdrFmtMask  = 0x0F000000
	ImageHdrFmtShift = 24
	ImageABIMask     = 0x00000018
	ImageABIShift    = 3
)

const (
	ImageImpFmtPE  ImportFormat = 0
	ImageImpFmtELF ImportFormat = 1
	ImageImpFmtPE2 ImportFormat = 2
)

const ImageHdrFmtV HeaderFormat = 2

const (
	ImageABIGCC98r2 ABI = 0
	ImageABIEABI    ABI = 1
)

// DefaultTargetDLL is compared against case-folded import block names.
const DefaultTargetDLL = "drtaeabi{000a0000}.dll"

// defaultOrdinals maps legacy drtaeabi ordinals to their current values.
var defaultOrdinals = map[uint16]uint16{
	222: 135,
	223: 155,
}

const (
	importSectionSizeLen = 4
	importBlockHeaderLen = 8
	importEntryLen       = 4
	ordinalMask          = 0x0000FFFF
)
