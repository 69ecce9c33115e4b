package hybridrow

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// TypeArgument is a type together with its own type arguments, e.g.
// array_t<utf8> or map_t<utf8, array_t<int32>>.
type TypeArgument struct {
	typ  *LayoutType
	args TypeArgumentList
}

// TypeArgumentList holds the generic parameters of a scope type. UDT types
// carry a schema id instead of nested arguments.
type TypeArgumentList struct {
	args     []TypeArgument
	schemaID SchemaID
}

func NewTypeArgument(t *LayoutType, args TypeArgumentList) TypeArgument {
	return TypeArgument{t, args}
}

// Arg is NewTypeArgument for a type that takes no arguments.
func Arg(t *LayoutType) TypeArgument {
	return TypeArgument{typ: t}
}

func TypeArgs(args ...TypeArgument) TypeArgumentList {
	return TypeArgumentList{args: args}
}

// SchemaArgs is the argument list of a UDT scope embedding layout id.
func SchemaArgs(id SchemaID) TypeArgumentList {
	return TypeArgumentList{schemaID: id}
}

func (ta TypeArgument) Type() *LayoutType         { return ta.typ }
func (ta TypeArgument) Args() TypeArgumentList    { return ta.args }
func (ta TypeArgument) IsZero() bool              { return ta.typ == nil }
func (ta TypeArgument) Equal(o TypeArgument) bool { return ta.typ == o.typ && ta.args.Equal(o.args) }

func (ta TypeArgument) String() string {
	if ta.typ == nil {
		return "<nil>"
	}
	return ta.typ.name + ta.args.String()
}

func (l TypeArgumentList) Len() int              { return len(l.args) }
func (l TypeArgumentList) At(i int) TypeArgument { return l.args[i] }
func (l TypeArgumentList) SchemaID() SchemaID    { return l.schemaID }
func (l TypeArgumentList) Slice() []TypeArgument { return l.args }

func (l TypeArgumentList) Equal(o TypeArgumentList) bool {
	if l.schemaID != o.schemaID || len(l.args) != len(o.args) {
		return false
	}
	for i := range l.args {
		if !l.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (l TypeArgumentList) String() string {
	if l.schemaID != 0 {
		return "<" + strconv.Itoa(int(l.schemaID)) + ">"
	}
	if len(l.args) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteByte('<')
	for i, a := range l.args {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.String())
	}
	buf.WriteByte('>')
	return buf.String()
}

// validTypeArgs reports whether args has the shape t requires, recursively.
func validTypeArgs(t *LayoutType, args TypeArgumentList) bool {
	switch n := t.typeArgArity(); n {
	case -2:
		return args.schemaID != 0 && len(args.args) == 0
	case -1:
		if args.schemaID != 0 || len(args.args) == 0 {
			return false
		}
	default:
		if args.schemaID != 0 || len(args.args) != n {
			return false
		}
	}
	for _, a := range args.args {
		if a.typ == nil || !validTypeArgs(a.typ, a.args) {
			return false
		}
	}
	return true
}

func typeArgsLen(t *LayoutType, args TypeArgumentList) int {
	switch t.typeArgArity() {
	case -2:
		return 4
	case -1:
		n := uvarintLen(uint64(len(args.args)))
		for _, a := range args.args {
			n += 1 + typeArgsLen(a.typ, a.args)
		}
		return n
	default:
		var n int
		for _, a := range args.args {
			n += 1 + typeArgsLen(a.typ, a.args)
		}
		return n
	}
}

func appendTypeArgs(buf []byte, t *LayoutType, args TypeArgumentList) []byte {
	switch t.typeArgArity() {
	case -2:
		return binary.LittleEndian.AppendUint32(buf, uint32(args.schemaID))
	case -1:
		buf = appendUvarint(buf, uint64(len(args.args)))
	}
	for _, a := range args.args {
		buf = append(buf, byte(a.typ.code))
		buf = appendTypeArgs(buf, a.typ, a.args)
	}
	return buf
}

func readTypeCode(buf []byte, off int) *LayoutType {
	need(buf, off, 1)
	t := layoutTypes[buf[off]]
	if t == nil {
		corruptf(buf, off, "unknown layout code %d", buf[off])
	}
	return t
}

// readTypeArgs decodes the type arguments of t at off and returns them with
// their encoded length.
func readTypeArgs(buf []byte, off int, t *LayoutType) (TypeArgumentList, int) {
	var count int
	start := off
	switch n := t.typeArgArity(); n {
	case 0:
		return TypeArgumentList{}, 0
	case -2:
		id := SchemaID(int32(readUint32(buf, off)))
		if id == 0 {
			corruptf(buf, off, "zero schema id")
		}
		return SchemaArgs(id), 4
	case -1:
		var k int
		count, k = readUvarinti(buf, off)
		if count == 0 {
			corruptf(buf, off, "empty tuple type")
		}
		off += k
	default:
		count = n
	}
	args := make([]TypeArgument, count)
	for i := range args {
		at := readTypeCode(buf, off)
		off++
		aargs, k := readTypeArgs(buf, off, at)
		off += k
		args[i] = TypeArgument{at, aargs}
	}
	return TypeArgumentList{args: args}, off - start
}
