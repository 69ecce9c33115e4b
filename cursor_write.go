package hybridrow

import (
	"slices"
)

// writeSparse writes one self-describing element (or typed collection
// element) holding the encoded value at the cursor.
func (c *RowCursor) writeSparse(ta TypeArgument, value []byte, p UpdatePolicy) Result {
	st := c.scopeType
	if c.immutable {
		return InsufficientPermissions
	}
	if st.IsUnique() && !c.bulk {
		return TypeConstraint
	}
	if want, ok := c.expectedType(); ok {
		if !want.Equal(ta) {
			return TypeConstraint
		}
	} else if st.IsTyped() || st.IsFixedArity() {
		return TypeConstraint
	}
	if st.isPathScope() && !c.hasPath {
		return TypeConstraint
	}
	act, r := resolvePolicy(st, p, c.exists)
	if r != Success {
		return r
	}

	elem := getScratch()
	if !st.IsTyped() {
		elem = append(elem, byte(ta.typ.code))
		elem = appendTypeArgs(elem, ta.typ, ta.args)
	}
	if st.isPathScope() {
		elem = c.layout.tokenizer.appendPath(elem, c.path)
	}
	valueAt := len(elem)
	elem = append(elem, value...)
	defer releaseScratch(elem)

	var oldLen int
	structural := ta.typ.IsScope()
	if act == actReplace {
		oldLen = c.end - c.meta
		structural = structural || c.cellType.IsScope() || !TypeArgument{c.cellType, c.cellArgs}.Equal(ta)
	}
	gen := len(c.row.edits)
	if r := c.row.splice(c.meta, oldLen, elem, c.chain()); r != Success {
		return r
	}
	if structural && len(c.row.edits) == gen {
		c.row.recordEdit(c.meta)
	}
	if st.base() == CodeNullableScope {
		c.row.buf[c.start] = 1
	}
	c.gen = len(c.row.edits)
	c.primed = true
	c.exists = true
	c.cellType, c.cellArgs = ta.typ, ta.args
	c.value = c.meta + valueAt
	c.end = c.meta + len(elem)
	return Success
}

func (c *RowCursor) writeColumn(t *LayoutType, v any, p UpdatePolicy) Result {
	if c.immutable {
		return InsufficientPermissions
	}
	col := c.column
	if col.typ != t {
		return TypeConstraint
	}
	if _, r := resolvePolicy(c.scopeType, p, c.row.isSet(c.start, col)); r != Success {
		return r
	}
	var r Result
	if col.storage == StorageFixed {
		r = c.row.writeFixed(c.start, col, v)
	} else {
		r = c.row.writeVariable(c.start, c.layout, col, v, c.chain())
	}
	c.gen = len(c.row.edits)
	if r == Success {
		c.exists = true
	}
	return r
}

func (c *RowCursor) writeScalar(t *LayoutType, v any, p UpdatePolicy) Result {
	v, ok := normalizeScalar(t, v)
	if !ok {
		return TypeConstraint
	}
	c.sync()
	if c.isColumn() {
		return c.writeColumn(t, v, p)
	}
	enc := appendScalar(getScratch(), t, v)
	r := c.writeSparse(Arg(t), enc, p)
	releaseScratch(enc)
	return r
}

func (c *RowCursor) readColumn() (any, Result) {
	if c.column.storage == StorageFixed {
		return c.row.readFixed(c.start, c.column)
	}
	return c.row.readVariable(c.start, c.column)
}

func (c *RowCursor) readValue(t *LayoutType) (any, Result) {
	c.sync()
	if c.isColumn() {
		if c.column.typ != t {
			return nil, TypeConstraint
		}
		return c.readColumn()
	}
	if !c.exists {
		return nil, NotFound
	}
	if c.cellType != t {
		return nil, TypeConstraint
	}
	return c.scalarAt(), Success
}

func (c *RowCursor) scalarAt() any {
	v, _ := readScalar(c.row.buf, c.value, c.cellType)
	if d, ok := v.([]byte); ok {
		v = slices.Clone(d)
	}
	return v
}

// Write stores a scalar value. The type is the declared type of the column
// or collection element at the cursor; for undeclared fields it is picked
// by TypeOf.
func (c *RowCursor) Write(v any, p UpdatePolicy) Result {
	c.sync()
	var t *LayoutType
	if c.isColumn() {
		t = c.column.typ
	} else if ta, ok := c.expectedType(); ok {
		t = ta.typ
	} else if t, ok = TypeOf(v); !ok {
		return TypeConstraint
	}
	if t.IsScope() {
		return TypeConstraint
	}
	return c.writeScalar(t, v, p)
}

// Read returns the scalar value at the cursor as its canonical Go type.
func (c *RowCursor) Read() (any, Result) {
	c.sync()
	if c.isColumn() {
		return c.readColumn()
	}
	if !c.exists {
		return nil, NotFound
	}
	if c.cellType.IsScope() {
		return nil, TypeConstraint
	}
	return c.scalarAt(), Success
}

// WriteScope creates an empty scope of type t at the cursor and returns a
// cursor into it.
func (c *RowCursor) WriteScope(t *LayoutType, args TypeArgumentList, p UpdatePolicy) (RowCursor, Result) {
	if !t.IsScope() || !validTypeArgs(t, args) {
		return RowCursor{}, TypeConstraint
	}
	c.sync()
	if c.isColumn() {
		return RowCursor{}, TypeConstraint
	}
	value := append(getScratch(), 0, 0, 0, 0)
	switch t.base() {
	case CodeSchema:
		nested, ok := c.row.resolveUDT(args.schemaID)
		if !ok {
			releaseScratch(value)
			return RowCursor{}, TypeConstraint
		}
		value = append(value, make([]byte, nested.size)...)
	case CodeNullableScope:
		value = append(value, 0)
	}
	putUint32(value, 0, uint32(len(value)-4))
	r := c.writeSparse(TypeArgument{t, args}, value, p)
	releaseScratch(value)
	if r != Success {
		return RowCursor{}, r
	}
	return c.childScope(), Success
}

// DeleteField removes the value at the cursor. In arrays the following
// elements move down and the cursor ends up on the next one.
func (c *RowCursor) DeleteField() Result {
	c.sync()
	if c.immutable {
		return InsufficientPermissions
	}
	if c.isColumn() {
		var r Result
		if c.column.storage == StorageFixed {
			r = c.row.deleteFixed(c.start, c.column)
		} else {
			r = c.row.deleteVariable(c.start, c.layout, c.column, c.chain())
		}
		c.gen = len(c.row.edits)
		c.exists = false
		return r
	}
	if !c.exists {
		return NotFound
	}
	if c.scopeType.IsFixedArity() {
		return TypeConstraint
	}
	c.deleteElement()
	return Success
}

func (c *RowCursor) deleteElement() {
	c.row.splice(c.meta, c.end-c.meta, nil, c.chain())
	if c.scopeType.base() == CodeNullableScope {
		c.row.buf[c.start] = 0
	}
	c.gen = len(c.row.edits)
	if c.scopeType.isPathScope() {
		c.seek(c.path)
	} else {
		c.readElement()
	}
}

// WriteNullable writes a nullable<t> scope holding v, or an empty one when
// v is nil.
func (c *RowCursor) WriteNullable(t *LayoutType, v any, p UpdatePolicy) Result {
	if v != nil {
		var ok bool
		if v, ok = normalizeScalar(t, v); !ok {
			return TypeConstraint
		}
	}
	scope, r := c.WriteScope(TypeNullable, TypeArgs(Arg(t)), p)
	if r != Success || v == nil {
		return r
	}
	return scope.writeScalar(t, v, Upsert)
}

// ReadNullable reads a nullable scope. ok is false when the scope holds no
// value.
func (c *RowCursor) ReadNullable() (v any, ok bool, r Result) {
	scope, r := c.ReadScope()
	if r != Success {
		return nil, false, r
	}
	if scope.scopeType.base() != CodeNullableScope {
		return nil, false, TypeConstraint
	}
	if !scope.MoveNext() {
		return nil, false, Success
	}
	v, r = scope.Read()
	return v, r == Success, r
}

// ReadNullableAs is ReadNullable with the value converted to T.
func ReadNullableAs[T any](c *RowCursor) (T, bool, Result) {
	var zero T
	v, ok, r := c.ReadNullable()
	if r != Success || !ok {
		return zero, false, r
	}
	tv, isT := v.(T)
	if !isT {
		return zero, false, TypeConstraint
	}
	return tv, true, Success
}
