package license

import (
	"encoding/binary"
	"fmt"
)

// blockReader consumes little-endian integers and byte blocks from an
// in-memory buffer with explicit bounds checks. Declared lengths that
// point past the end of the buffer fail instead of reading short.
type blockReader struct {
	buf []byte
	off int
}

func newBlockReader(buf []byte) *blockReader {
	return &blockReader{buf: buf}
}

func (r *blockReader) remaining() int { return len(r.buf) - r.off }

// block returns the next n bytes of the buffer without copying.
func (r *blockReader) block(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: %d byte block declared with %d bytes remaining",
			ErrMalformedLicense, n, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *blockReader) uint32() (uint32, error) {
	b, err := r.block(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
