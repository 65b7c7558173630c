package e32

import "github.com/pkg/errors"

var (
	ErrTooSmall     = errors.New("not an E32 image, smaller than the fixed header")
	ErrBadSignature = errors.New("not an E32 image, bad signature")
)

var (
	ErrNoImports         = errors.New("image has no imports according to its header")
	ErrUnsupportedFormat = errors.New("target DLL uses PE-style imports, only ELF-style ordinals can be patched")
	ErrCorrupt           = errors.New("damaged import section")
	ErrOutsideBoundary   = errors.New("reading data outside boundary")
)
