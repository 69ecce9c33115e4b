package hybridrow

import (
	"time"

	"github.com/google/uuid"
)

func readAs[T any](c *RowCursor, t *LayoutType) (T, Result) {
	v, r := c.readValue(t)
	if r != Success {
		var zero T
		return zero, r
	}
	return v.(T), Success
}

func (c *RowCursor) WriteNull(p UpdatePolicy) Result {
	return c.writeScalar(TypeNull, NullValue{}, p)
}

func (c *RowCursor) ReadNull() Result {
	_, r := c.readValue(TypeNull)
	return r
}

func (c *RowCursor) WriteBool(v bool, p UpdatePolicy) Result {
	return c.writeScalar(TypeBoolean, v, p)
}

func (c *RowCursor) ReadBool() (bool, Result) {
	return readAs[bool](c, TypeBoolean)
}

func (c *RowCursor) WriteInt8(v int8, p UpdatePolicy) Result {
	return c.writeScalar(TypeInt8, v, p)
}

func (c *RowCursor) ReadInt8() (int8, Result) {
	return readAs[int8](c, TypeInt8)
}

func (c *RowCursor) WriteInt16(v int16, p UpdatePolicy) Result {
	return c.writeScalar(TypeInt16, v, p)
}

func (c *RowCursor) ReadInt16() (int16, Result) {
	return readAs[int16](c, TypeInt16)
}

func (c *RowCursor) WriteInt32(v int32, p UpdatePolicy) Result {
	return c.writeScalar(TypeInt32, v, p)
}

func (c *RowCursor) ReadInt32() (int32, Result) {
	return readAs[int32](c, TypeInt32)
}

func (c *RowCursor) WriteInt64(v int64, p UpdatePolicy) Result {
	return c.writeScalar(TypeInt64, v, p)
}

func (c *RowCursor) ReadInt64() (int64, Result) {
	return readAs[int64](c, TypeInt64)
}

func (c *RowCursor) WriteUInt8(v uint8, p UpdatePolicy) Result {
	return c.writeScalar(TypeUInt8, v, p)
}

func (c *RowCursor) ReadUInt8() (uint8, Result) {
	return readAs[uint8](c, TypeUInt8)
}

func (c *RowCursor) WriteUInt16(v uint16, p UpdatePolicy) Result {
	return c.writeScalar(TypeUInt16, v, p)
}

func (c *RowCursor) ReadUInt16() (uint16, Result) {
	return readAs[uint16](c, TypeUInt16)
}

func (c *RowCursor) WriteUInt32(v uint32, p UpdatePolicy) Result {
	return c.writeScalar(TypeUInt32, v, p)
}

func (c *RowCursor) ReadUInt32() (uint32, Result) {
	return readAs[uint32](c, TypeUInt32)
}

func (c *RowCursor) WriteUInt64(v uint64, p UpdatePolicy) Result {
	return c.writeScalar(TypeUInt64, v, p)
}

func (c *RowCursor) ReadUInt64() (uint64, Result) {
	return readAs[uint64](c, TypeUInt64)
}

func (c *RowCursor) WriteVarInt(v int64, p UpdatePolicy) Result {
	return c.writeScalar(TypeVarInt, v, p)
}

func (c *RowCursor) ReadVarInt() (int64, Result) {
	return readAs[int64](c, TypeVarInt)
}

func (c *RowCursor) WriteVarUInt(v uint64, p UpdatePolicy) Result {
	return c.writeScalar(TypeVarUInt, v, p)
}

func (c *RowCursor) ReadVarUInt() (uint64, Result) {
	return readAs[uint64](c, TypeVarUInt)
}

func (c *RowCursor) WriteFloat32(v float32, p UpdatePolicy) Result {
	return c.writeScalar(TypeFloat32, v, p)
}

func (c *RowCursor) ReadFloat32() (float32, Result) {
	return readAs[float32](c, TypeFloat32)
}

func (c *RowCursor) WriteFloat64(v float64, p UpdatePolicy) Result {
	return c.writeScalar(TypeFloat64, v, p)
}

func (c *RowCursor) ReadFloat64() (float64, Result) {
	return readAs[float64](c, TypeFloat64)
}

func (c *RowCursor) WriteDecimal(v Decimal, p UpdatePolicy) Result {
	return c.writeScalar(TypeDecimal, v, p)
}

func (c *RowCursor) ReadDecimal() (Decimal, Result) {
	return readAs[Decimal](c, TypeDecimal)
}

func (c *RowCursor) WriteDateTime(v time.Time, p UpdatePolicy) Result {
	return c.writeScalar(TypeDateTime, v, p)
}

func (c *RowCursor) ReadDateTime() (time.Time, Result) {
	return readAs[time.Time](c, TypeDateTime)
}

func (c *RowCursor) WriteUnixDateTime(v UnixDateTime, p UpdatePolicy) Result {
	return c.writeScalar(TypeUnixDateTime, v, p)
}

func (c *RowCursor) ReadUnixDateTime() (UnixDateTime, Result) {
	return readAs[UnixDateTime](c, TypeUnixDateTime)
}

func (c *RowCursor) WriteGuid(v uuid.UUID, p UpdatePolicy) Result {
	return c.writeScalar(TypeGuid, v, p)
}

func (c *RowCursor) ReadGuid() (uuid.UUID, Result) {
	return readAs[uuid.UUID](c, TypeGuid)
}

func (c *RowCursor) WriteUtf8(v string, p UpdatePolicy) Result {
	return c.writeScalar(TypeUtf8, v, p)
}

func (c *RowCursor) ReadUtf8() (string, Result) {
	return readAs[string](c, TypeUtf8)
}

func (c *RowCursor) WriteBinary(v []byte, p UpdatePolicy) Result {
	return c.writeScalar(TypeBinary, v, p)
}

func (c *RowCursor) ReadBinary() ([]byte, Result) {
	return readAs[[]byte](c, TypeBinary)
}
