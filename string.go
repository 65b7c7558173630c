package e32

import (
	"bytes"
	"strings"
)

// cString returns the bytes of b up to the first 0. ok is false when b has no
// terminator.
func cString(b []byte) (s []byte, ok bool) {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return nil, false
	}
	return b[:i], true
}

// foldName decodes a narrow DLL name as ASCII, dropping bytes outside the
// 7-bit range, and lower-cases it.
func foldName(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
		}
	}
	return strings.ToLower(sb.String())
}
