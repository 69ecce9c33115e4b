package hybridrow

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// NullValue is the Go value of the null type.
type NullValue struct{}

// UnixDateTime is milliseconds since the Unix epoch.
type UnixDateTime int64

func UnixDateTimeOf(t time.Time) UnixDateTime {
	return UnixDateTime(t.UnixMilli())
}

func (u UnixDateTime) Time() time.Time {
	return time.UnixMilli(int64(u)).UTC()
}

// DateTime values are stored as 100ns ticks since 0001-01-01 UTC, which
// covers years 1 through 9999.
const (
	dateTimeTick     = 100 * time.Nanosecond
	ticksPerSecond   = int64(time.Second / dateTimeTick)
	unixEpochSeconds = 62135596800 // 0001-01-01 to 1970-01-01
	maxDateTimeTicks = 3155378975999999999
)

func dateTimeTicks(t time.Time) int64 {
	return (t.Unix()+unixEpochSeconds)*ticksPerSecond + int64(t.Nanosecond())/int64(dateTimeTick)
}

func timeFromTicks(n int64) time.Time {
	return time.Unix(n/ticksPerSecond-unixEpochSeconds, (n%ticksPerSecond)*int64(dateTimeTick)).UTC()
}

// TypeOf picks the layout type used when v is written to a field that has
// no declared type. int and uint map to the 64-bit types.
func TypeOf(v any) (*LayoutType, bool) {
	switch v.(type) {
	case NullValue:
		return TypeNull, true
	case bool:
		return TypeBoolean, true
	case int8:
		return TypeInt8, true
	case int16:
		return TypeInt16, true
	case int32:
		return TypeInt32, true
	case int64, int:
		return TypeInt64, true
	case uint8:
		return TypeUInt8, true
	case uint16:
		return TypeUInt16, true
	case uint32:
		return TypeUInt32, true
	case uint64, uint:
		return TypeUInt64, true
	case float32:
		return TypeFloat32, true
	case float64:
		return TypeFloat64, true
	case Decimal:
		return TypeDecimal, true
	case time.Time:
		return TypeDateTime, true
	case UnixDateTime:
		return TypeUnixDateTime, true
	case uuid.UUID:
		return TypeGuid, true
	case string:
		return TypeUtf8, true
	case []byte:
		return TypeBinary, true
	default:
		return nil, false
	}
}

// normalizeScalar converts v to the canonical Go type of t, reporting false
// when v is not a value of t. int and uint are accepted for the 64-bit types.
func normalizeScalar(t *LayoutType, v any) (any, bool) {
	var ok bool
	switch t.code {
	case CodeNull:
		_, ok = v.(NullValue)
	case CodeBoolean:
		_, ok = v.(bool)
	case CodeInt8:
		_, ok = v.(int8)
	case CodeInt16:
		_, ok = v.(int16)
	case CodeInt32:
		_, ok = v.(int32)
	case CodeInt64, CodeVarInt:
		if i, isInt := v.(int); isInt {
			return int64(i), true
		}
		_, ok = v.(int64)
	case CodeUInt8:
		_, ok = v.(uint8)
	case CodeUInt16:
		_, ok = v.(uint16)
	case CodeUInt32:
		_, ok = v.(uint32)
	case CodeUInt64, CodeVarUInt:
		if u, isUint := v.(uint); isUint {
			return uint64(u), true
		}
		_, ok = v.(uint64)
	case CodeFloat32:
		_, ok = v.(float32)
	case CodeFloat64:
		_, ok = v.(float64)
	case CodeDecimal:
		_, ok = v.(Decimal)
	case CodeDateTime:
		var tm time.Time
		if tm, ok = v.(time.Time); ok {
			tm = tm.UTC()
			if y := tm.Year(); y < 1 || y > 9999 {
				return v, false
			}
			return tm.Truncate(dateTimeTick), true
		}
	case CodeUnixDateTime:
		_, ok = v.(UnixDateTime)
	case CodeGuid:
		_, ok = v.(uuid.UUID)
	case CodeUtf8:
		var s string
		s, ok = v.(string)
		ok = ok && utf8.ValidString(s)
	case CodeBinary:
		_, ok = v.([]byte)
	}
	return v, ok
}

// scalarLen is the encoded length of a normalized value of t.
func scalarLen(t *LayoutType, v any) int {
	switch t.code {
	case CodeVarInt:
		return varintLen(v.(int64))
	case CodeVarUInt:
		return uvarintLen(v.(uint64))
	case CodeUtf8:
		n := len(v.(string))
		return uvarintLen(uint64(n)) + n
	case CodeBinary:
		n := len(v.([]byte))
		return uvarintLen(uint64(n)) + n
	default:
		return t.size
	}
}

// appendScalar appends the encoding of a normalized value of t.
func appendScalar(buf []byte, t *LayoutType, v any) []byte {
	le := binary.LittleEndian
	switch t.code {
	case CodeNull:
		return buf
	case CodeBoolean:
		if v.(bool) {
			return append(buf, 1)
		}
		return append(buf, 0)
	case CodeInt8:
		return append(buf, byte(v.(int8)))
	case CodeInt16:
		return le.AppendUint16(buf, uint16(v.(int16)))
	case CodeInt32:
		return le.AppendUint32(buf, uint32(v.(int32)))
	case CodeInt64:
		return le.AppendUint64(buf, uint64(v.(int64)))
	case CodeUInt8:
		return append(buf, v.(uint8))
	case CodeUInt16:
		return le.AppendUint16(buf, v.(uint16))
	case CodeUInt32:
		return le.AppendUint32(buf, v.(uint32))
	case CodeUInt64:
		return le.AppendUint64(buf, v.(uint64))
	case CodeVarInt:
		return appendVarint(buf, v.(int64))
	case CodeVarUInt:
		return appendUvarint(buf, v.(uint64))
	case CodeFloat32:
		return le.AppendUint32(buf, math.Float32bits(v.(float32)))
	case CodeFloat64:
		return le.AppendUint64(buf, math.Float64bits(v.(float64)))
	case CodeDecimal:
		off, buf := grow(buf, 16)
		putDecimal(buf[off:], v.(Decimal))
		return buf
	case CodeDateTime:
		return le.AppendUint64(buf, uint64(dateTimeTicks(v.(time.Time))))
	case CodeUnixDateTime:
		return le.AppendUint64(buf, uint64(v.(UnixDateTime)))
	case CodeGuid:
		g := v.(uuid.UUID)
		return append(buf, g[:]...)
	case CodeUtf8:
		s := v.(string)
		buf = appendUvarint(buf, uint64(len(s)))
		return append(buf, s...)
	case CodeBinary:
		return appendVarbytes(buf, v.([]byte))
	default:
		panic("not a scalar: " + t.name)
	}
}

// scalarPayloadLen is the length of the encoded value of t at off.
func scalarPayloadLen(buf []byte, off int, t *LayoutType) int {
	switch t.code {
	case CodeNull:
		return 0
	case CodeVarInt:
		_, n := readVarint(buf, off)
		return n
	case CodeVarUInt:
		_, n := readUvarint(buf, off)
		return n
	case CodeUtf8, CodeBinary:
		l, n := readUvarinti(buf, off)
		need(buf, off+n, l)
		return n + l
	default:
		need(buf, off, t.size)
		return t.size
	}
}

// readScalar decodes the value of t at off and returns it with its length.
// Binary values alias buf.
func readScalar(buf []byte, off int, t *LayoutType) (any, int) {
	le := binary.LittleEndian
	n := scalarPayloadLen(buf, off, t)
	b := buf[off : off+n]
	switch t.code {
	case CodeNull:
		return NullValue{}, 0
	case CodeBoolean:
		if b[0] > 1 {
			corruptf(buf, off, "invalid bool %d", b[0])
		}
		return b[0] == 1, n
	case CodeInt8:
		return int8(b[0]), n
	case CodeInt16:
		return int16(le.Uint16(b)), n
	case CodeInt32:
		return int32(le.Uint32(b)), n
	case CodeInt64:
		return int64(le.Uint64(b)), n
	case CodeUInt8:
		return b[0], n
	case CodeUInt16:
		return le.Uint16(b), n
	case CodeUInt32:
		return le.Uint32(b), n
	case CodeUInt64:
		return le.Uint64(b), n
	case CodeVarInt:
		v, _ := binary.Varint(b)
		return v, n
	case CodeVarUInt:
		v, _ := binary.Uvarint(b)
		return v, n
	case CodeFloat32:
		return math.Float32frombits(le.Uint32(b)), n
	case CodeFloat64:
		return math.Float64frombits(le.Uint64(b)), n
	case CodeDecimal:
		return getDecimal(b), n
	case CodeDateTime:
		ticks := int64(le.Uint64(b))
		if ticks < 0 || ticks > maxDateTimeTicks {
			corruptf(buf, off, "datetime out of range: %d", ticks)
		}
		return timeFromTicks(ticks), n
	case CodeUnixDateTime:
		return UnixDateTime(le.Uint64(b)), n
	case CodeGuid:
		return uuid.UUID(b), n
	case CodeUtf8:
		_, k := binary.Uvarint(b)
		s := string(b[k:])
		if !utf8.ValidString(s) {
			corruptf(buf, off, "invalid utf8")
		}
		return s, n
	case CodeBinary:
		_, k := binary.Uvarint(b)
		return b[k:n:n], n
	default:
		panic("not a scalar: " + t.name)
	}
}

// compareScalars orders two normalized values of t.
func compareScalars(t *LayoutType, a, b any) int {
	switch t.code {
	case CodeNull:
		return 0
	case CodeBoolean:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case bb:
			return -1
		default:
			return 1
		}
	case CodeInt8:
		return cmp.Compare(a.(int8), b.(int8))
	case CodeInt16:
		return cmp.Compare(a.(int16), b.(int16))
	case CodeInt32:
		return cmp.Compare(a.(int32), b.(int32))
	case CodeInt64, CodeVarInt:
		return cmp.Compare(a.(int64), b.(int64))
	case CodeUInt8:
		return cmp.Compare(a.(uint8), b.(uint8))
	case CodeUInt16:
		return cmp.Compare(a.(uint16), b.(uint16))
	case CodeUInt32:
		return cmp.Compare(a.(uint32), b.(uint32))
	case CodeUInt64, CodeVarUInt:
		return cmp.Compare(a.(uint64), b.(uint64))
	case CodeFloat32:
		return cmp.Compare(a.(float32), b.(float32))
	case CodeFloat64:
		return cmp.Compare(a.(float64), b.(float64))
	case CodeDecimal:
		return a.(Decimal).Cmp(b.(Decimal))
	case CodeDateTime:
		return a.(time.Time).Compare(b.(time.Time))
	case CodeUnixDateTime:
		return cmp.Compare(a.(UnixDateTime), b.(UnixDateTime))
	case CodeGuid:
		ag, bg := a.(uuid.UUID), b.(uuid.UUID)
		return bytes.Compare(ag[:], bg[:])
	case CodeUtf8:
		return strings.Compare(a.(string), b.(string))
	case CodeBinary:
		return bytes.Compare(a.([]byte), b.([]byte))
	default:
		panic("not a scalar: " + t.name)
	}
}

// compareEncoded orders two encoded values of ta. Scalars compare by value;
// scopes compare by their encoded bytes.
func compareEncoded(ta TypeArgument, a, b []byte) int {
	if ta.typ.IsScope() {
		return bytes.Compare(a, b)
	}
	av, _ := readScalar(a, 0, ta.typ)
	bv, _ := readScalar(b, 0, ta.typ)
	return compareScalars(ta.typ, av, bv)
}
