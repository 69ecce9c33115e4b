package hybridrow

import (
	"bytes"
	"slices"
)

// Fixed and variable columns live in a layout region starting at base: the
// root's region follows the header, a UDT's region starts its payload.

func (b *RowBuffer) isSet(base int, col *LayoutColumn) bool {
	if col.nullBit < 0 {
		return true
	}
	return b.buf[base+col.nullBit/8]&(1<<(col.nullBit%8)) != 0
}

func (b *RowBuffer) setBit(base int, col *LayoutColumn, on bool) {
	if col.nullBit < 0 {
		return
	}
	i, mask := base+col.nullBit/8, byte(1<<(col.nullBit%8))
	if on {
		b.buf[i] |= mask
	} else {
		b.buf[i] &^= mask
	}
}

func (b *RowBuffer) readFixed(base int, col *LayoutColumn) (any, Result) {
	if !b.isSet(base, col) {
		return nil, NotFound
	}
	off := base + col.offset
	need(b.buf, off, col.size)
	switch col.typ.code {
	case CodeUtf8:
		return string(bytes.TrimRight(b.buf[off:off+col.size], "\x00")), Success
	case CodeBinary:
		return slices.Clone(b.buf[off : off+col.size]), Success
	default:
		v, _ := readScalar(b.buf, off, col.typ)
		return v, Success
	}
}

func (b *RowBuffer) writeFixed(base int, col *LayoutColumn, v any) Result {
	slot := b.buf[base+col.offset : base+col.offset+col.size]
	switch col.typ.code {
	case CodeUtf8:
		s := v.(string)
		if len(s) > col.size {
			return TooBig
		}
		clear(slot[copy(slot, s):])
	case CodeBinary:
		d := v.([]byte)
		if len(d) > col.size {
			return TooBig
		}
		clear(slot[copy(slot, d):])
	default:
		var tmp [16]byte
		copy(slot, appendScalar(tmp[:0], col.typ, v))
	}
	b.setBit(base, col, true)
	return Success
}

func (b *RowBuffer) deleteFixed(base int, col *LayoutColumn) Result {
	if !col.nullable {
		return TypeConstraint
	}
	if !b.isSet(base, col) {
		return NotFound
	}
	b.setBit(base, col, false)
	clear(b.buf[base+col.offset : base+col.offset+col.size])
	return Success
}

func (b *RowBuffer) varOffset(base int, col *LayoutColumn) int {
	off := base + int(readUint32(b.buf, base+col.offset))
	if off < base {
		corruptf(b.buf, base+col.offset, "invalid variable offset")
	}
	return off
}

// varEnd returns the offset just past the payload of the last present
// variable column before index, or the end of the layout region.
func (b *RowBuffer) varEnd(base int, layout *Layout, index int) int {
	for i := index - 1; i >= 0; i-- {
		col := layout.variable[i]
		if b.isSet(base, col) {
			off := b.varOffset(base, col)
			return off + scalarPayloadLen(b.buf, off, col.typ)
		}
	}
	return base + layout.size
}

// sparseStart is where the sparse fields of a layout region begin.
func (b *RowBuffer) sparseStart(base int, layout *Layout) int {
	return b.varEnd(base, layout, len(layout.variable))
}

func (b *RowBuffer) readVariable(base int, col *LayoutColumn) (any, Result) {
	if !b.isSet(base, col) {
		return nil, NotFound
	}
	v, _ := readScalar(b.buf, b.varOffset(base, col), col.typ)
	if d, ok := v.([]byte); ok {
		v = slices.Clone(d)
	}
	return v, Success
}

func (b *RowBuffer) shiftVarOffsets(base int, layout *Layout, after int, delta int) {
	for _, col := range layout.variable[after+1:] {
		if b.isSet(base, col) {
			slot := base + col.offset
			putUint32(b.buf, slot, uint32(int(readUint32(b.buf, slot))+delta))
		}
	}
}

func (b *RowBuffer) writeVariable(base int, layout *Layout, col *LayoutColumn, v any, chain []int) Result {
	enc := appendScalar(getScratch(), col.typ, v)
	defer releaseScratch(enc)

	var off, oldLen int
	if b.isSet(base, col) {
		off = b.varOffset(base, col)
		oldLen = scalarPayloadLen(b.buf, off, col.typ)
	} else {
		off = b.varEnd(base, layout, col.index)
	}
	if r := b.splice(off, oldLen, enc, chain); r != Success {
		return r
	}
	putUint32(b.buf, base+col.offset, uint32(off-base))
	b.setBit(base, col, true)
	b.shiftVarOffsets(base, layout, col.index, len(enc)-oldLen)
	return Success
}

func (b *RowBuffer) deleteVariable(base int, layout *Layout, col *LayoutColumn, chain []int) Result {
	if !b.isSet(base, col) {
		return NotFound
	}
	off := b.varOffset(base, col)
	n := scalarPayloadLen(b.buf, off, col.typ)
	b.splice(off, n, nil, chain)
	putUint32(b.buf, base+col.offset, 0)
	b.setBit(base, col, false)
	b.shiftVarOffsets(base, layout, col.index, -n)
	return Success
}
