package archivekit

import (
	"context"
	"crypto/md5"  //nolint:gosec // MD5 used for checksum verification, not security
	"crypto/sha1" //nolint:gosec // SHA1 used for checksum verification, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// ChecksumAlgorithm represents a supported checksum algorithm
type ChecksumAlgorithm string

const (
	// ChecksumMD5 is the MD5 hash algorithm (128-bit, fast but not cryptographically secure)
	ChecksumMD5 ChecksumAlgorithm = "md5"
	// ChecksumSHA1 is the SHA-1 hash algorithm (160-bit, legacy)
	ChecksumSHA1 ChecksumAlgorithm = "sha1"
	// ChecksumSHA256 is the SHA-256 hash algorithm (256-bit, the default)
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	// ChecksumSHA512 is the SHA-512 hash algorithm (512-bit)
	ChecksumSHA512 ChecksumAlgorithm = "sha512"
	// ChecksumCRC32 is the CRC32 checksum (32-bit, for integrity only)
	ChecksumCRC32 ChecksumAlgorithm = "crc32"
	// ChecksumXXHash is the xxHash algorithm (64-bit, extremely fast)
	ChecksumXXHash ChecksumAlgorithm = "xxhash"
	// ChecksumBLAKE3 is the BLAKE3 hash algorithm (256-bit)
	ChecksumBLAKE3 ChecksumAlgorithm = "blake3"
)

// DefaultChecksumAlgorithm is used when no algorithm is configured
const DefaultChecksumAlgorithm = ChecksumSHA256

// checksumBufferSize is the chunk size files are streamed through the hash in
const checksumBufferSize = 32 * 1024

// SupportedAlgorithms returns every algorithm NewHasher accepts
func SupportedAlgorithms() []ChecksumAlgorithm {
	return []ChecksumAlgorithm{
		ChecksumMD5,
		ChecksumSHA1,
		ChecksumSHA256,
		ChecksumSHA512,
		ChecksumCRC32,
		ChecksumXXHash,
		ChecksumBLAKE3,
	}
}

// ParseChecksumAlgorithm resolves an algorithm by name, ignoring case and
// surrounding whitespace. An empty name selects the default.
func ParseChecksumAlgorithm(name string) (ChecksumAlgorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultChecksumAlgorithm, nil
	}
	for _, alg := range SupportedAlgorithms() {
		if string(alg) == name {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
}

// NewHasher returns a fresh hash for algorithm, or an error wrapping
// ErrUnsupportedAlgorithm.
func NewHasher(algorithm ChecksumAlgorithm) (hash.Hash, error) {
	switch algorithm {
	case ChecksumMD5:
		return md5.New(), nil //nolint:gosec // integrity only
	case ChecksumSHA1:
		return sha1.New(), nil //nolint:gosec // integrity only
	case ChecksumSHA256:
		return sha256.New(), nil
	case ChecksumSHA512:
		return sha512.New(), nil
	case ChecksumCRC32:
		return crc32.NewIEEE(), nil
	case ChecksumXXHash:
		return xxhash.New(), nil
	case ChecksumBLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// CalculateChecksum hashes r to EOF and returns the lowercase hex digest
func CalculateChecksum(r io.Reader, algorithm ChecksumAlgorithm) (string, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}

	buf := make([]byte, checksumBufferSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("read for %s checksum: %w", algorithm, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// CalculateChecksums hashes r once for several algorithms. Repeated
// algorithms are computed once.
func CalculateChecksums(r io.Reader, algorithms []ChecksumAlgorithm) (map[ChecksumAlgorithm]string, error) {
	if len(algorithms) == 0 {
		return nil, fmt.Errorf("%w: no algorithms given", ErrUnsupportedAlgorithm)
	}

	var (
		sums = make(map[ChecksumAlgorithm]hash.Hash, len(algorithms))
		dst  []io.Writer
	)
	for _, alg := range algorithms {
		if sums[alg] != nil {
			continue
		}
		h, err := NewHasher(alg)
		if err != nil {
			return nil, err
		}
		sums[alg] = h
		dst = append(dst, h)
	}

	buf := make([]byte, checksumBufferSize)
	if _, err := io.CopyBuffer(io.MultiWriter(dst...), r, buf); err != nil {
		return nil, fmt.Errorf("read for checksums: %w", err)
	}

	out := make(map[ChecksumAlgorithm]string, len(sums))
	for alg, h := range sums {
		out[alg] = hex.EncodeToString(h.Sum(nil))
	}
	return out, nil
}

// ChecksumFile streams the file at path through the hash.
// A missing file yields a *PathError wrapping ErrNotExist.
func ChecksumFile(ctx context.Context, path string, algorithm ChecksumAlgorithm) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return "", pathError("checksum", path, err)
	}
	defer file.Close()

	checksum, err := CalculateChecksum(&ctxReader{ctx: ctx, r: file}, algorithm)
	if err != nil {
		return "", &PathError{Op: "checksum", Path: path, Err: err}
	}

	return checksum, nil
}

// VerifyChecksum computes the checksum of the file at path and compares it
// to expected. Hex digits compare case-insensitively and surrounding
// whitespace in expected is ignored.
func VerifyChecksum(ctx context.Context, path, expected string, algorithm ChecksumAlgorithm) (bool, error) {
	actual, err := ChecksumFile(ctx, path, algorithm)
	if err != nil {
		return false, err
	}
	return ChecksumsEqual(actual, expected), nil
}

// ChecksumsEqual compares two hex digests
func ChecksumsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ctxReader stops a copy once its context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
