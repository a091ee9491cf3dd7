package utils

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Checksum contains the checksums of a file
type Checksum struct {
	SHA1   string
	SHA256 string
	Size   int64
}

// CalculateChecksums calculates all checksums for a file in a single pass
func CalculateChecksums(path string) (*Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ChecksumReader(f)
}

// ChecksumReader calculates all checksums of a stream
func ChecksumReader(r io.Reader) (*Checksum, error) {
	sha1Hash := sha1.New()
	sha256Hash := sha256.New()

	// Use MultiWriter to calculate all hashes at once
	multiWriter := io.MultiWriter(sha1Hash, sha256Hash)

	n, err := io.Copy(multiWriter, r)
	if err != nil {
		return nil, err
	}

	return &Checksum{
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
		Size:   n,
	}, nil
}

// SHA1File returns the lower-case hex SHA-1 of a file
func SHA1File(path string) (string, error) {
	sum, err := CalculateChecksums(path)
	if err != nil {
		return "", err
	}
	return sum.SHA1, nil
}

// SHA1Bytes returns the lower-case hex SHA-1 of data
func SHA1Bytes(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// NormalizeSHA1 trims and lower-cases a hex digest as found in feeds
func NormalizeSHA1(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// VerifySHA1 compares the SHA-1 of a file with the expected digest. An empty
// expected digest always matches.
func VerifySHA1(path, expected string) error {
	expected = NormalizeSHA1(expected)
	if expected == "" {
		return nil
	}

	actual, err := SHA1File(path)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("SHA-1 mismatch for %s: expected %s, got %s", path, expected, actual)
	}
	return nil
}
