package e32

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

type PatchOptions struct {
	// TargetDLL is matched against the lower-cased import block name.
	TargetDLL string
	// Ordinals maps an ordinal found in the low 16 bits of a relocation word
	// to its replacement.
	Ordinals map[uint16]uint16
}

func DefaultPatchOptions() PatchOptions {
	ordinals := make(map[uint16]uint16, len(defaultOrdinals))
	for k, v := range defaultOrdinals {
		ordinals[k] = v
	}
	return PatchOptions{
		TargetDLL: DefaultTargetDLL,
		Ordinals:  ordinals,
	}
}

// SortedOrdinals returns the keys of Ordinals in ascending order.
func (o PatchOptions) SortedOrdinals() []uint16 {
	keys := make([]uint16, 0, len(o.Ordinals))
	for k := range o.Ordinals {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Rewrite records one ordinal replaced in the code section.
type Rewrite struct {
	Entry       int
	EntryOffset uint32 // file offset of the import entry
	Location    uint32 // file offset of the relocation word
	Old         uint32
	New         uint32
}

// OutOfBounds records an import entry whose relocation word lies past the end
// of the image. Such entries are skipped.
type OutOfBounds struct {
	Entry       int
	EntryOffset uint32
	Location    uint64
}

type PatchResult struct {
	Target      string
	Found       bool
	Block       *ImportBlock
	Rewrites    []Rewrite
	OutOfBounds []OutOfBounds
}

// Patched reports whether any ordinal was rewritten.
func (r *PatchResult) Patched() bool {
	return len(r.Rewrites) > 0
}

// Patch finds the first import block named opts.TargetDLL and rewrites the
// ordinals its ELF-style entries point at. Only the low 16 bits of each
// relocation word change.
func (f *File) Patch(opts PatchOptions) (*PatchResult, error) {
	if err := f.checkImports(); err != nil {
		return nil, err
	}

	format := f.ImageHeader.ImportFormat()
	result := &PatchResult{Target: opts.TargetDLL}

	err := f.walkImports(func(b *ImportBlock) bool {
		if b.FoldedName != opts.TargetDLL {
			return false
		}
		result.Found = true
		result.Block = b
		return true
	})
	if err != nil {
		return nil, err
	}
	if !result.Found {
		return result, nil
	}

	if format != ImageImpFmtELF {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s imports %s", result.Block.Name, format)
	}

	for i, entry := range result.Block.Entries {
		location := uint64(f.CodeOffset) + uint64(entry)
		if !inBounds(location, 4, f.size) {
			result.OutOfBounds = append(result.OutOfBounds, OutOfBounds{
				Entry:       i,
				EntryOffset: result.Block.EntryOffset(i),
				Location:    location,
			})
			continue
		}

		packed, err := f.ReadUint32(uint32(location))
		if err != nil {
			return nil, err
		}
		ordinal, ok := opts.Ordinals[uint16(packed&ordinalMask)]
		if !ok {
			continue
		}

		patched := packed&^ordinalMask | uint32(ordinal)
		if err := f.WriteUint32(uint32(location), patched); err != nil {
			return nil, err
		}
		result.Rewrites = append(result.Rewrites, Rewrite{
			Entry:       i,
			EntryOffset: result.Block.EntryOffset(i),
			Location:    uint32(location),
			Old:         packed,
			New:         patched,
		})
	}
	return result, nil
}
