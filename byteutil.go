package hybridrow

import (
	"encoding/binary"
	"math"
	"math/bits"
)

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func appendUvarint(buf []byte, v uint64) []byte {
	off, buf := grow(buf, binary.MaxVarintLen64)
	off += binary.PutUvarint(buf[off:], v)
	return buf[:off]
}

func appendVarint(buf []byte, v int64) []byte {
	off, buf := grow(buf, binary.MaxVarintLen64)
	off += binary.PutVarint(buf[off:], v)
	return buf[:off]
}

func appendVarbytes(buf []byte, v []byte) []byte {
	n := len(v)
	off, buf := grow(buf, binary.MaxVarintLen64+n)
	off += binary.PutUvarint(buf[off:], uint64(n))
	copy(buf[off:], v)
	return buf[:off+n]
}

func uvarintLen(v uint64) int {
	return (bits.Len64(v|1) + 6) / 7
}

func varintLen(v int64) int {
	ux := uint64(v) << 1
	if v < 0 {
		ux = ^ux
	}
	return uvarintLen(ux)
}

// readUvarint decodes a uvarint at off, panicking with *DataError on
// truncated or overlong input.
func readUvarint(buf []byte, off int) (uint64, int) {
	if off < 0 || off >= len(buf) {
		corruptf(buf, off, "uvarint out of bounds")
	}
	v, n := binary.Uvarint(buf[off:])
	if n <= 0 {
		corruptf(buf, off, "invalid uvarint")
	}
	return v, n
}

func readVarint(buf []byte, off int) (int64, int) {
	if off < 0 || off >= len(buf) {
		corruptf(buf, off, "varint out of bounds")
	}
	v, n := binary.Varint(buf[off:])
	if n <= 0 {
		corruptf(buf, off, "invalid varint")
	}
	return v, n
}

func readUvarinti(buf []byte, off int) (int, int) {
	v, n := readUvarint(buf, off)
	if v > math.MaxInt32 {
		corruptf(buf, off, "length does not fit: %d", v)
	}
	return int(v), n
}

func need(buf []byte, off, n int) {
	if off < 0 || n < 0 || off+n > len(buf) {
		corruptf(buf, off, "not enough data: %d bytes wanted, %d remaining", n, len(buf)-off)
	}
}

func readUint32(buf []byte, off int) uint32 {
	need(buf, off, 4)
	return binary.LittleEndian.Uint32(buf[off:])
}

func putUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

type byteDecoder struct {
	Orig []byte
	Buf  []byte
}

func makeByteDecoder(buf []byte) byteDecoder {
	return byteDecoder{buf, buf}
}

func (d *byteDecoder) Off() int {
	return len(d.Orig) - len(d.Buf)
}

func (d *byteDecoder) Raw(n int) ([]byte, error) {
	if len(d.Buf) < n {
		return nil, dataErrf(d.Orig, d.Off(), nil, "not enough data: %d bytes remaining, %d wanted", len(d.Buf), n)
	}
	v := d.Buf[:n]
	d.Buf = d.Buf[n:]
	return v, nil
}

func (d *byteDecoder) Byte() (byte, error) {
	v, err := d.Raw(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (d *byteDecoder) Uint32() (uint32, error) {
	v, err := d.Raw(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v), nil
}
