package hybridrow

import (
	"fmt"
)

// LayoutBuilder collects column declarations for DefineLayout. Invalid
// declarations panic: layouts are defined at init time.
type LayoutBuilder struct {
	layout *Layout
}

// DefineLayout compiles a layout:
//
//	var guestLayout = hybridrow.DefineLayout(1, "Guest", func(b *hybridrow.LayoutBuilder) {
//		b.Fixed("id", hybridrow.TypeGuid, false)
//		b.Variable("first_name", hybridrow.TypeUtf8)
//		b.Sparse("emails", hybridrow.TypeTypedArray, hybridrow.TypeArgs(hybridrow.Arg(hybridrow.TypeUtf8)))
//	})
//
// Fixed and variable columns are placed in declaration order.
func DefineLayout(id SchemaID, name string, f func(b *LayoutBuilder)) *Layout {
	if id == 0 {
		panic(fmt.Sprintf("DefineLayout(%s): schema id must not be zero", name))
	}
	b := LayoutBuilder{
		layout: &Layout{
			id:        id,
			name:      name,
			byName:    make(map[string]*LayoutColumn),
			tokenizer: newTokenizer(),
		},
	}
	f(&b)
	b.build()
	return b.layout
}

func (b *LayoutBuilder) add(col *LayoutColumn) *LayoutColumn {
	l := b.layout
	if col.name == "" {
		panic(fmt.Sprintf("%s: column name must not be empty", l.name))
	}
	if _, dup := l.byName[col.name]; dup {
		panic(fmt.Sprintf("%s: duplicate column %q", l.name, col.name))
	}
	if !col.typ.AllowedIn(col.storage) {
		panic(fmt.Sprintf("%s.%s: type %s cannot be stored as %s", l.name, col.name, col.typ, col.storage))
	}
	if !validTypeArgs(col.typ, col.typeArgs) {
		panic(fmt.Sprintf("%s.%s: invalid type arguments %s for %s", l.name, col.name, col.typeArgs, col.typ))
	}
	col.token = l.tokenizer.add(col.name)
	col.nullBit = -1
	l.byName[col.name] = col
	l.columns = append(l.columns, col)
	switch col.storage {
	case StorageFixed:
		col.index = len(l.fixed)
		l.fixed = append(l.fixed, col)
	case StorageVariable:
		col.index = len(l.variable)
		l.variable = append(l.variable, col)
	default:
		col.index = len(l.sparse)
		l.sparse = append(l.sparse, col)
	}
	return col
}

// Fixed declares a fixed-size scalar column.
func (b *LayoutBuilder) Fixed(name string, t *LayoutType, nullable bool) *LayoutColumn {
	if !t.IsFixed() {
		panic(fmt.Sprintf("%s.%s: %s has no fixed size, use FixedLength", b.layout.name, name, t))
	}
	return b.add(&LayoutColumn{name: name, storage: StorageFixed, typ: t, nullable: nullable, size: t.size})
}

// FixedLength declares a utf8 or binary column stored in a slot of size
// bytes. Shorter values are zero padded.
func (b *LayoutBuilder) FixedLength(name string, t *LayoutType, size int, nullable bool) *LayoutColumn {
	if t.IsFixed() || size <= 0 {
		panic(fmt.Sprintf("%s.%s: FixedLength needs a variable-size type and a positive size", b.layout.name, name))
	}
	return b.add(&LayoutColumn{name: name, storage: StorageFixed, typ: t, nullable: nullable, size: size})
}

// Variable declares a length-prefixed column. Variable columns are always
// optional.
func (b *LayoutBuilder) Variable(name string, t *LayoutType) *LayoutColumn {
	return b.add(&LayoutColumn{name: name, storage: StorageVariable, typ: t, nullable: true})
}

// Sparse declares a typed sparse field.
func (b *LayoutBuilder) Sparse(name string, t *LayoutType, args TypeArgumentList) *LayoutColumn {
	return b.add(&LayoutColumn{name: name, storage: StorageSparse, typ: t, typeArgs: args, nullable: true})
}

// UDT declares a sparse nested record using layout id.
func (b *LayoutBuilder) UDT(name string, id SchemaID, immutable bool) *LayoutColumn {
	t := TypeUDT
	if immutable {
		t = TypeImmutableUDT
	}
	return b.Sparse(name, t, SchemaArgs(id))
}

func (b *LayoutBuilder) build() {
	l := b.layout
	bits := 0
	for _, col := range l.fixed {
		if col.nullable {
			col.nullBit = bits
			bits++
		}
	}
	for _, col := range l.variable {
		col.nullBit = bits
		bits++
	}
	l.bitmaskSize = (bits + 7) / 8

	off := l.bitmaskSize
	for _, col := range l.fixed {
		col.offset = off
		off += col.size
	}
	for _, col := range l.variable {
		col.offset = off
		off += 4
	}
	l.size = off
	l.computeFingerprint()
}
