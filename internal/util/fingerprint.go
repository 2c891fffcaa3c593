package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// FileFingerprint returns the CRC32 of the whole file. Caption files are
// small, and editors that rewrite in place can keep size and mtime stable.
func FileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return fmt.Sprintf("%08x", h.Sum32()), nil
}
