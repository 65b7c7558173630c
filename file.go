package e32

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// File is an E32 image held entirely in memory. Patches are applied to data
// in place; the header is decoded once and never written back.
type File struct {
	ImageHeader

	data []byte
	size uint32
}

// Load reads the whole file at filename.
func Load(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read %s", filename)
	}
	return data, nil
}

// Parse validates data as an E32 image. The returned File owns data.
func Parse(data []byte) (*File, error) {
	if uint64(len(data)) > uint64(^uint32(0)) {
		return nil, errors.Wrapf(ErrCorrupt, "image of %d bytes exceeds 32-bit offsets", len(data))
	}

	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	if h.Signature != ImageSignature {
		return nil, errors.Wrapf(ErrBadSignature, "signature %#08x, content looks like %s",
			h.Signature, DetectFileType(data))
	}

	return &File{
		ImageHeader: *h,
		data:        data,
		size:        uint32(len(data)),
	}, nil
}

func NewFile(filename string) (*File, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, filename)
	}
	return f, nil
}

func (f *File) GetSize() uint32 {
	return f.size
}

// Bytes returns the image buffer, including any applied patches.
func (f *File) Bytes() []byte {
	return f.data
}

// ReadUint32 reads a little-endian uint32 at offset.
func (f *File) ReadUint32(offset uint32) (uint32, error) {
	if !inBounds(offset, uint32(4), f.size) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(f.data[offset:]), nil
}

// WriteUint32 writes a little-endian uint32 at offset.
func (f *File) WriteUint32(offset, v uint32) error {
	if !inBounds(offset, uint32(4), f.size) {
		return ErrOutsideBoundary
	}
	binary.LittleEndian.PutUint32(f.data[offset:], v)
	return nil
}

// Save writes the image to filename. The data goes to a temporary file in the
// same directory which is renamed over filename once it is complete. An
// existing filename keeps its permissions; a new one gets 0644.
func (f *File) Save(filename string) (err error) {
	mode := os.FileMode(0o644)
	if fi, statErr := os.Stat(filename); statErr == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return errors.Wrapf(err, "fail to create %s", filename)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(f.data); err != nil {
		return errors.Wrapf(err, "fail to write %s", filename)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "fail to sync %s", filename)
	}
	if err = tmp.Chmod(mode); err != nil {
		return errors.Wrapf(err, "fail to chmod %s", filename)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "fail to close %s", filename)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return errors.Wrapf(err, "fail to replace %s", filename)
	}
	return nil
}
