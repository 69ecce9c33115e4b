package hybridrow

import "fmt"

// LayoutCode is the one-byte type code stored in front of self-describing
// sparse values. The set of codes is closed.
type LayoutCode byte

const (
	CodeInvalid LayoutCode = 0

	CodeNull         LayoutCode = 1
	CodeBoolean      LayoutCode = 2
	CodeInt8         LayoutCode = 5
	CodeInt16        LayoutCode = 6
	CodeInt32        LayoutCode = 7
	CodeInt64        LayoutCode = 8
	CodeUInt8        LayoutCode = 9
	CodeUInt16       LayoutCode = 10
	CodeUInt32       LayoutCode = 11
	CodeUInt64       LayoutCode = 12
	CodeVarInt       LayoutCode = 13
	CodeVarUInt      LayoutCode = 14
	CodeFloat32      LayoutCode = 15
	CodeFloat64      LayoutCode = 16
	CodeDecimal      LayoutCode = 18
	CodeDateTime     LayoutCode = 19
	CodeUnixDateTime LayoutCode = 20
	CodeGuid         LayoutCode = 21
	CodeUtf8         LayoutCode = 22
	CodeBinary       LayoutCode = 23

	// Scope codes come in pairs: the immutable twin is code+1.
	CodeObjectScope              LayoutCode = 30
	CodeImmutableObjectScope     LayoutCode = 31
	CodeArrayScope               LayoutCode = 32
	CodeImmutableArrayScope      LayoutCode = 33
	CodeTypedArrayScope          LayoutCode = 34
	CodeImmutableTypedArrayScope LayoutCode = 35
	CodeTypedSetScope            LayoutCode = 36
	CodeImmutableTypedSetScope   LayoutCode = 37
	CodeTypedMapScope            LayoutCode = 38
	CodeImmutableTypedMapScope   LayoutCode = 39
	CodeTupleScope               LayoutCode = 40
	CodeImmutableTupleScope      LayoutCode = 41
	CodeTypedTupleScope          LayoutCode = 42
	CodeImmutableTypedTupleScope LayoutCode = 43
	CodeNullableScope            LayoutCode = 44
	CodeImmutableNullableScope   LayoutCode = 45
	CodeSchema                   LayoutCode = 46
	CodeImmutableSchema          LayoutCode = 47
)

func (c LayoutCode) String() string {
	if t := layoutTypes[c]; t != nil {
		return t.name
	}
	return fmt.Sprintf("LayoutCode(%d)", byte(c))
}

type typeFlags uint16

const (
	flagScope typeFlags = 1 << iota
	flagImmutable
	flagTyped      // children carry no type code
	flagIndexed    // children carry no path
	flagUnique     // set and map
	flagFixedArity // tuples
	flagVarint

	flagFixedOK    // may be a fixed column
	flagVariableOK // may be a variable column
)

// LayoutType describes one LayoutCode: its size, where it may be stored,
// and, for scopes, how children are encoded.
type LayoutType struct {
	code  LayoutCode
	name  string
	size  int // fixed payload size; 0 for variable-length and scope types
	flags typeFlags
}

var layoutTypes [256]*LayoutType

func defineType(code LayoutCode, name string, size int, flags typeFlags) *LayoutType {
	if layoutTypes[code] != nil {
		panic(fmt.Errorf("duplicate layout code %d", code))
	}
	t := &LayoutType{code: code, name: name, size: size, flags: flags}
	layoutTypes[code] = t
	return t
}

const sparseOnly typeFlags = 0

var (
	TypeNull         = defineType(CodeNull, "null", 0, sparseOnly)
	TypeBoolean      = defineType(CodeBoolean, "bool", 1, flagFixedOK)
	TypeInt8         = defineType(CodeInt8, "int8", 1, flagFixedOK)
	TypeInt16        = defineType(CodeInt16, "int16", 2, flagFixedOK)
	TypeInt32        = defineType(CodeInt32, "int32", 4, flagFixedOK)
	TypeInt64        = defineType(CodeInt64, "int64", 8, flagFixedOK)
	TypeUInt8        = defineType(CodeUInt8, "uint8", 1, flagFixedOK)
	TypeUInt16       = defineType(CodeUInt16, "uint16", 2, flagFixedOK)
	TypeUInt32       = defineType(CodeUInt32, "uint32", 4, flagFixedOK)
	TypeUInt64       = defineType(CodeUInt64, "uint64", 8, flagFixedOK)
	TypeVarInt       = defineType(CodeVarInt, "varint", 0, flagVarint|flagVariableOK)
	TypeVarUInt      = defineType(CodeVarUInt, "varuint", 0, flagVarint|flagVariableOK)
	TypeFloat32      = defineType(CodeFloat32, "float32", 4, flagFixedOK)
	TypeFloat64      = defineType(CodeFloat64, "float64", 8, flagFixedOK)
	TypeDecimal      = defineType(CodeDecimal, "decimal", 16, flagFixedOK)
	TypeDateTime     = defineType(CodeDateTime, "datetime", 8, flagFixedOK)
	TypeUnixDateTime = defineType(CodeUnixDateTime, "unixdatetime", 8, flagFixedOK)
	TypeGuid         = defineType(CodeGuid, "guid", 16, flagFixedOK)
	TypeUtf8         = defineType(CodeUtf8, "utf8", 0, flagFixedOK|flagVariableOK)
	TypeBinary       = defineType(CodeBinary, "binary", 0, flagFixedOK|flagVariableOK)

	TypeObject              = defineType(CodeObjectScope, "object", 0, flagScope)
	TypeImmutableObject     = defineType(CodeImmutableObjectScope, "im_object", 0, flagScope|flagImmutable)
	TypeArray               = defineType(CodeArrayScope, "array", 0, flagScope|flagIndexed)
	TypeImmutableArray      = defineType(CodeImmutableArrayScope, "im_array", 0, flagScope|flagIndexed|flagImmutable)
	TypeTypedArray          = defineType(CodeTypedArrayScope, "array_t", 0, flagScope|flagIndexed|flagTyped)
	TypeImmutableTypedArray = defineType(CodeImmutableTypedArrayScope, "im_array_t", 0, flagScope|flagIndexed|flagTyped|flagImmutable)
	TypeTypedSet            = defineType(CodeTypedSetScope, "set_t", 0, flagScope|flagIndexed|flagTyped|flagUnique)
	TypeImmutableTypedSet   = defineType(CodeImmutableTypedSetScope, "im_set_t", 0, flagScope|flagIndexed|flagTyped|flagUnique|flagImmutable)
	TypeTypedMap            = defineType(CodeTypedMapScope, "map_t", 0, flagScope|flagIndexed|flagTyped|flagUnique)
	TypeImmutableTypedMap   = defineType(CodeImmutableTypedMapScope, "im_map_t", 0, flagScope|flagIndexed|flagTyped|flagUnique|flagImmutable)
	TypeTuple               = defineType(CodeTupleScope, "tuple", 0, flagScope|flagIndexed|flagFixedArity)
	TypeImmutableTuple      = defineType(CodeImmutableTupleScope, "im_tuple", 0, flagScope|flagIndexed|flagFixedArity|flagImmutable)
	TypeTypedTuple          = defineType(CodeTypedTupleScope, "tuple_t", 0, flagScope|flagIndexed|flagTyped|flagFixedArity)
	TypeImmutableTypedTuple = defineType(CodeImmutableTypedTupleScope, "im_tuple_t", 0, flagScope|flagIndexed|flagTyped|flagFixedArity|flagImmutable)
	TypeNullable            = defineType(CodeNullableScope, "nullable", 0, flagScope|flagIndexed|flagTyped)
	TypeImmutableNullable   = defineType(CodeImmutableNullableScope, "im_nullable", 0, flagScope|flagIndexed|flagTyped|flagImmutable)
	TypeUDT                 = defineType(CodeSchema, "udt", 0, flagScope)
	TypeImmutableUDT        = defineType(CodeImmutableSchema, "im_udt", 0, flagScope|flagImmutable)
)

// TypeByCode returns the descriptor of a layout code.
func TypeByCode(code LayoutCode) (*LayoutType, bool) {
	t := layoutTypes[code]
	return t, t != nil
}

func (t *LayoutType) Code() LayoutCode { return t.code }
func (t *LayoutType) Name() string     { return t.name }
func (t *LayoutType) String() string   { return t.name }

// Size is the encoded size of a fixed-size scalar, 0 otherwise.
func (t *LayoutType) Size() int { return t.size }

func (t *LayoutType) IsFixed() bool     { return t.size > 0 }
func (t *LayoutType) IsVarint() bool    { return t.flags&flagVarint != 0 }
func (t *LayoutType) IsScope() bool     { return t.flags&flagScope != 0 }
func (t *LayoutType) IsImmutable() bool { return t.flags&flagImmutable != 0 }
func (t *LayoutType) IsTyped() bool     { return t.flags&flagTyped != 0 }
func (t *LayoutType) IsIndexed() bool   { return t.flags&flagIndexed != 0 }
func (t *LayoutType) IsUnique() bool    { return t.flags&flagUnique != 0 }

func (t *LayoutType) IsFixedArity() bool { return t.flags&flagFixedArity != 0 }

// AllowedIn reports whether a column of this type may use storage kind s.
func (t *LayoutType) AllowedIn(s StorageKind) bool {
	switch s {
	case StorageFixed:
		return t.flags&flagFixedOK != 0
	case StorageVariable:
		return t.flags&flagVariableOK != 0
	case StorageSparse:
		return true
	default:
		return false
	}
}

// base maps an immutable scope code to its mutable twin.
func (t *LayoutType) base() LayoutCode {
	if t.IsScope() && t.IsImmutable() {
		return t.code - 1
	}
	return t.code
}

// Mutable returns the mutable twin of an immutable scope type.
func (t *LayoutType) Mutable() *LayoutType {
	return layoutTypes[t.base()]
}

// Immutable returns the immutable twin of a scope type. Scalars are
// returned unchanged.
func (t *LayoutType) Immutable() *LayoutType {
	if !t.IsScope() {
		return t
	}
	return layoutTypes[t.base()+1]
}

// typeArgArity is the number of type arguments; -1 means a counted list
// (tuples), -2 means a schema id (UDTs).
func (t *LayoutType) typeArgArity() int {
	switch t.base() {
	case CodeTypedArrayScope, CodeTypedSetScope, CodeNullableScope:
		return 1
	case CodeTypedMapScope:
		return 2
	case CodeTupleScope, CodeTypedTupleScope:
		return -1
	case CodeSchema:
		return -2
	default:
		return 0
	}
}

func (t *LayoutType) isPathScope() bool {
	return t.IsScope() && !t.IsIndexed()
}
