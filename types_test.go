package hybridrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutTypes(t *testing.T) {
	tests := []struct {
		typ      *LayoutType
		code     LayoutCode
		size     int
		fixed    bool
		variable bool
	}{
		{TypeBoolean, CodeBoolean, 1, true, false},
		{TypeInt64, CodeInt64, 8, true, false},
		{TypeVarInt, CodeVarInt, 0, false, true},
		{TypeDecimal, CodeDecimal, 16, true, false},
		{TypeGuid, CodeGuid, 16, true, false},
		{TypeUtf8, CodeUtf8, 0, true, true},
		{TypeBinary, CodeBinary, 0, true, true},
		{TypeNull, CodeNull, 0, false, false},
		{TypeTypedMap, CodeTypedMapScope, 0, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.typ.Code(), tt.typ.Name())
		assert.Equal(t, tt.size, tt.typ.Size(), tt.typ.Name())
		assert.Equal(t, tt.fixed, tt.typ.AllowedIn(StorageFixed), tt.typ.Name())
		assert.Equal(t, tt.variable, tt.typ.AllowedIn(StorageVariable), tt.typ.Name())
		assert.True(t, tt.typ.AllowedIn(StorageSparse), tt.typ.Name())
		got, found := TypeByCode(tt.code)
		assert.True(t, found)
		assert.Same(t, tt.typ, got)
	}
	_, found := TypeByCode(LayoutCode(200))
	assert.False(t, found)
}

func TestLayoutTypes_Immutable(t *testing.T) {
	for _, typ := range []*LayoutType{TypeObject, TypeArray, TypeTypedArray, TypeTypedSet, TypeTypedMap, TypeTuple, TypeTypedTuple, TypeNullable, TypeUDT} {
		im := typ.Immutable()
		assert.True(t, im.IsImmutable(), typ.Name())
		assert.False(t, typ.IsImmutable(), typ.Name())
		assert.Same(t, typ, im.Mutable(), typ.Name())
		assert.Equal(t, typ.IsTyped(), im.IsTyped(), typ.Name())
		assert.Equal(t, typ.IsUnique(), im.IsUnique(), typ.Name())
		assert.Equal(t, typ.Code()+1, im.Code(), typ.Name())
	}
	assert.Same(t, TypeInt32, TypeInt32.Immutable())

	assert.True(t, TypeTypedSet.IsUnique())
	assert.True(t, TypeTypedMap.IsUnique())
	assert.False(t, TypeTypedArray.IsUnique())
	assert.True(t, TypeTuple.IsFixedArity())
	assert.False(t, TypeTuple.IsTyped())
	assert.True(t, TypeTypedTuple.IsTyped())
	assert.True(t, TypeVarUInt.IsVarint())
}

func TestTypeArguments(t *testing.T) {
	a := NewTypeArgument(TypeTypedMap, TypeArgs(Arg(TypeUtf8), NewTypeArgument(TypeTypedArray, TypeArgs(Arg(TypeInt32)))))
	assert.Equal(t, "map_t<utf8, array_t<int32>>", a.String())
	assert.True(t, a.Equal(NewTypeArgument(TypeTypedMap, TypeArgs(Arg(TypeUtf8), NewTypeArgument(TypeTypedArray, TypeArgs(Arg(TypeInt32)))))))
	assert.False(t, a.Equal(NewTypeArgument(TypeTypedMap, TypeArgs(Arg(TypeUtf8), Arg(TypeInt32)))))
	assert.Equal(t, "udt<7>", NewTypeArgument(TypeUDT, SchemaArgs(7)).String())

	for _, ta := range []TypeArgument{
		a,
		NewTypeArgument(TypeUDT, SchemaArgs(7)),
		NewTypeArgument(TypeTuple, TypeArgs(Arg(TypeInt8), Arg(TypeBinary), NewTypeArgument(TypeNullable, TypeArgs(Arg(TypeGuid))))),
	} {
		enc := appendTypeArgs(nil, ta.Type(), ta.Args())
		assert.Len(t, enc, typeArgsLen(ta.Type(), ta.Args()), ta.String())
		args, n := readTypeArgs(enc, 0, ta.Type())
		assert.Equal(t, len(enc), n, ta.String())
		assert.True(t, args.Equal(ta.Args()), ta.String())
	}
}
