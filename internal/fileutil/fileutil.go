package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// CopyFileVerified copies src to dst and checks the written stream against
// the source by byte count and SHA-256. On any failure dst is removed, so a
// torn artifact never survives in the output directory.
func CopyFileVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	srcSum := sha256.New()
	dstSum := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstSum), io.TeeReader(in, srcSum))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}

	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("short copy: wrote %d of %d bytes", written, info.Size())
	}
	if !bytes.Equal(srcSum.Sum(nil), dstSum.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("checksum mismatch copying %s", src)
	}
	return nil
}
