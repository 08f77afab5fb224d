package archivecheck

import (
	"bytes"
	"io"
	"os"
)

// MagicSignature defines an archive type signature
type MagicSignature struct {
	Format string
	Offset int    // Offset from start of file
	Magic  []byte // Magic bytes to match
}

// magicSignatures lists the signatures of the archive formats we check.
var magicSignatures = []MagicSignature{
	{Format: FormatZip, Offset: 0, Magic: []byte{0x50, 0x4B, 0x03, 0x04}},
	{Format: FormatZip, Offset: 0, Magic: []byte{0x50, 0x4B, 0x05, 0x06}}, // Empty ZIP
	{Format: FormatTar, Offset: 257, Magic: []byte("ustar")},
	{Format: Format7z, Offset: 0, Magic: []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}},
}

// maxMagicLen is the number of leading bytes needed to test every signature
const maxMagicLen = 262

// HasSignature reports whether the file at path starts with one of the
// signatures registered for format. Read errors count as no match.
func HasSignature(path, format string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, maxMagicLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	return matchSignature(header[:n], format)
}

func matchSignature(header []byte, format string) bool {
	for _, sig := range magicSignatures {
		if sig.Format != format {
			continue
		}
		end := sig.Offset + len(sig.Magic)
		if len(header) < end {
			continue
		}
		if bytes.Equal(header[sig.Offset:end], sig.Magic) {
			return true
		}
	}
	return false
}

// refineKind distinguishes a damaged archive of the right type from a file
// that was never that type: a truncation reported for a file that lacks the
// format's signature becomes a bad format.
func refineKind(path, format string, kind FailureKind) FailureKind {
	if kind == KindTruncated && !HasSignature(path, format) {
		return KindBadFormat
	}
	return kind
}
