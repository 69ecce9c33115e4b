package hybridrow

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestGrow(t *testing.T) {
	var buf []byte
	off, buf := grow(buf, 3)
	if off != 0 || len(buf) != 3 || cap(buf) < 16 {
		t.Fatalf("grow(nil, 3) = %d, len %d cap %d, wanted 0, 3, >=16", off, len(buf), cap(buf))
	}
	copy(buf, []byte{1, 2, 3})
	off, buf = grow(buf, 40)
	if off != 3 || len(buf) != 43 {
		t.Fatalf("grow(3, 40) = %d, len %d, wanted 3, 43", off, len(buf))
	}
	if !bytes.Equal(buf[:3], []byte{1, 2, 3}) {
		t.Fatalf("grow lost data: %x", buf[:3])
	}
}

func TestVarints(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 32, math.MaxUint64} {
		buf := appendUvarint([]byte{0xEE}, v)
		if n := uvarintLen(v); len(buf) != 1+n {
			t.Errorf("** uvarintLen(%d) = %d, encoded %d bytes", v, n, len(buf)-1)
		}
		got, n := readUvarint(buf, 1)
		if got != v || n != len(buf)-1 {
			t.Errorf("** readUvarint(%x) = %d, %d, wanted %d", buf, got, n, v)
		}
	}
	for _, v := range []int64{0, -1, 1, -64, 64, math.MinInt64, math.MaxInt64} {
		buf := appendVarint(nil, v)
		if n := varintLen(v); len(buf) != n {
			t.Errorf("** varintLen(%d) = %d, encoded %d bytes", v, n, len(buf))
		}
		got, _ := readVarint(buf, 0)
		if got != v {
			t.Errorf("** readVarint(%x) = %d, wanted %d", buf, got, v)
		}
	}

	b := appendVarbytes(nil, []byte("abc"))
	if !bytes.Equal(b, []byte{3, 'a', 'b', 'c'}) {
		t.Fatalf("appendVarbytes = %x, wanted 03616263", b)
	}
}

func TestReadUvarint_Corrupt(t *testing.T) {
	for _, buf := range [][]byte{nil, {0x80}, {0xFF, 0xFF}} {
		p := catchPanic(func() { readUvarint(buf, 0) })
		if _, ok := p.(*DataError); !ok {
			t.Errorf("** readUvarint(%x) panic = %v, wanted *DataError", buf, p)
		}
	}
	p := catchPanic(func() { readUint32([]byte{1, 2, 3}, 0) })
	if _, ok := p.(*DataError); !ok {
		t.Errorf("** readUint32(short) panic = %v, wanted *DataError", p)
	}
}

func TestByteDecoder(t *testing.T) {
	var data []byte
	data = append(data, 0x81)
	data = binary.LittleEndian.AppendUint32(data, 0xAABBCCDD)
	d := makeByteDecoder(data)

	b, err := d.Byte()
	if err != nil || b != 0x81 {
		t.Fatalf("Byte() = %x, %v", b, err)
	}
	u, err := d.Uint32()
	if err != nil || u != 0xAABBCCDD {
		t.Fatalf("Uint32() = %x, %v", u, err)
	}
	if d.Off() != 5 {
		t.Fatalf("Off() = %d, wanted 5", d.Off())
	}
	_, err = d.Byte()
	var de *DataError
	if !errors.As(err, &de) || de.Off != 5 {
		t.Fatalf("Byte() at end = %v, wanted *DataError at 5", err)
	}
}
