package hybridrow

import (
	"fmt"
	"math"
)

// RowCursor addresses one position inside one scope of a row: a declared
// column, a sparse field, a collection element, or the insertion point at
// the end of a scope.
//
// Cursors are values; copying one (or calling Clone) yields an independent
// cursor. A cursor stays usable across edits made through other cursors as
// long as those edits did not move the bytes it points at. Path-addressed
// fields are looked up again by name when that happens; any other use of a
// moved cursor panics with ErrStaleCursor.
type RowCursor struct {
	row       *RowBuffer
	layout    *Layout
	scopeType *LayoutType
	scopeArgs TypeArgumentList
	immutable bool
	bulk      bool
	start     int
	sizeOff   int   // -1 for the root scope
	parents   []int // size fields of enclosing scopes, outermost first

	index    int
	primed   bool
	exists   bool
	meta     int
	value    int
	end      int
	cellType *LayoutType
	cellArgs TypeArgumentList
	path     string
	hasPath  bool
	column   *LayoutColumn
	gen      int
}

// CreateRoot returns a cursor over the top-level scope of row.
func CreateRoot(row *RowBuffer) RowCursor {
	if row.layout == nil {
		panic("hybridrow: CreateRoot on an uninitialized row")
	}
	c := RowCursor{
		row:       row,
		layout:    row.layout,
		scopeType: TypeUDT,
		scopeArgs: SchemaArgs(row.layout.id),
		start:     HeaderSize,
		sizeOff:   -1,
	}
	c.reset()
	return c
}

func (c RowCursor) Clone() RowCursor { return c }

// Field returns a copy of c positioned at path. See Find.
func (c RowCursor) Field(path string) RowCursor {
	c.Find(path)
	return c
}

func (c *RowCursor) Row() *RowBuffer                 { return c.row }
func (c *RowCursor) Layout() *Layout                 { return c.layout }
func (c *RowCursor) ScopeType() *LayoutType          { return c.scopeType }
func (c *RowCursor) ScopeTypeArgs() TypeArgumentList { return c.scopeArgs }
func (c *RowCursor) Immutable() bool                 { return c.immutable }
func (c *RowCursor) Index() int                      { return c.index }
func (c *RowCursor) Path() string                    { return c.path }

// Column is the declared column at the cursor, if any.
func (c *RowCursor) Column() *LayoutColumn { return c.column }

// Exists reports whether the cursor is on a present value.
func (c *RowCursor) Exists() bool {
	c.sync()
	if c.isColumn() {
		return c.row.isSet(c.start, c.column)
	}
	return c.exists
}

// Type is the type of the value at the cursor: the declared type for
// columns and typed elements, the stored type for self-describing fields.
func (c *RowCursor) Type() *LayoutType {
	c.sync()
	if c.isColumn() {
		return c.column.typ
	}
	if c.exists {
		return c.cellType
	}
	if ta, ok := c.expectedType(); ok {
		return ta.typ
	}
	return nil
}

func (c *RowCursor) TypeArgs() TypeArgumentList {
	c.sync()
	if c.isColumn() {
		return c.column.typeArgs
	}
	if c.exists {
		return c.cellArgs
	}
	ta, _ := c.expectedType()
	return ta.args
}

func (c *RowCursor) String() string {
	where := fmt.Sprintf("%s@%d", c.scopeType, c.start)
	switch {
	case c.isColumn():
		return fmt.Sprintf("%s.%s", where, c.column.name)
	case c.scopeType.isPathScope():
		return fmt.Sprintf("%s.%s", where, c.path)
	default:
		return fmt.Sprintf("%s[%d]", where, c.index)
	}
}

func (c *RowCursor) isColumn() bool {
	return c.column != nil && c.column.storage != StorageSparse
}

func (c *RowCursor) isRoot() bool {
	return c.sizeOff < 0
}

func (c *RowCursor) scopeEnd() int {
	if c.isRoot() {
		return len(c.row.buf)
	}
	return c.start + int(readUint32(c.row.buf, c.sizeOff))
}

func (c *RowCursor) firstChild() int {
	switch c.scopeType.base() {
	case CodeSchema:
		return c.row.sparseStart(c.start, c.layout)
	case CodeNullableScope:
		return c.start + 1
	default:
		return c.start
	}
}

// chain lists the size fields to adjust when bytes inside this scope move.
func (c *RowCursor) chain() []int {
	if c.isRoot() {
		return nil
	}
	ch := make([]int, len(c.parents)+1)
	copy(ch, c.parents)
	ch[len(c.parents)] = c.sizeOff
	return ch
}

// elemType is the declared type of the element at index in typed and
// fixed-arity scopes.
func (c *RowCursor) elemType(index int) (TypeArgument, bool) {
	args := c.scopeArgs.args
	switch c.scopeType.base() {
	case CodeTypedArrayScope, CodeTypedSetScope:
		return args[0], true
	case CodeNullableScope:
		if index == 0 {
			return args[0], true
		}
	case CodeTypedMapScope:
		return TypeArgument{TypeTypedTuple, c.scopeArgs}, true
	case CodeTupleScope, CodeTypedTupleScope:
		if index < len(args) {
			return args[index], true
		}
	}
	return TypeArgument{}, false
}

func (c *RowCursor) expectedType() (TypeArgument, bool) {
	if c.scopeType.IsTyped() || c.scopeType.IsFixedArity() {
		return c.elemType(c.index)
	}
	if c.column != nil {
		return c.column.TypeArg(), true
	}
	return TypeArgument{}, false
}

func (c *RowCursor) reset() {
	c.column = nil
	c.hasPath = false
	c.path = ""
	c.index = 0
	c.primed = false
	c.meta = c.firstChild()
	c.gen = len(c.row.edits)
	c.readElement()
}

// readElement parses the element at c.meta.
func (c *RowCursor) readElement() {
	buf := c.row.buf
	end := c.scopeEnd()
	if c.meta >= end {
		if c.meta > end {
			corruptf(buf, c.meta, "%s scope overrun", c.scopeType)
		}
		c.exists = false
		c.cellType = nil
		c.cellArgs = TypeArgumentList{}
		c.value, c.end = c.meta, c.meta
		return
	}

	off := c.meta
	st := c.scopeType
	if st.IsTyped() {
		ta, ok := c.elemType(c.index)
		if !ok {
			corruptf(buf, off, "%s%s has too many elements", st, c.scopeArgs)
		}
		c.cellType, c.cellArgs = ta.typ, ta.args
	} else {
		t := readTypeCode(buf, off)
		off++
		args, n := readTypeArgs(buf, off, t)
		off += n
		c.cellType, c.cellArgs = t, args
	}
	if st.isPathScope() {
		p, n := c.layout.tokenizer.readPath(buf, off)
		off += n
		c.path, c.hasPath = p, true
		c.column = nil
		if st.base() == CodeSchema {
			if col, ok := c.layout.byName[p]; ok && col.storage == StorageSparse {
				c.column = col
			}
		}
	}
	c.value = off
	c.end = off + valueLen(buf, off, c.cellType)
	if c.end > end {
		corruptf(buf, c.meta, "%s element overruns its scope", c.cellType)
	}
	c.exists = true
}

func valueLen(buf []byte, off int, t *LayoutType) int {
	if t.IsScope() {
		n := int(readUint32(buf, off))
		need(buf, off+4, n)
		return 4 + n
	}
	return scalarPayloadLen(buf, off, t)
}

func (c *RowCursor) scopeValid() bool {
	return c.row.clean(c.gen, c.start)
}

// sync brings the cursor up to date with edits made since it was last
// positioned, or panics if the edits moved what it points at.
func (c *RowCursor) sync() {
	if c.gen == len(c.row.edits) {
		return
	}
	guard := c.meta + 1
	if c.isColumn() {
		guard = c.start
	}
	if c.row.clean(c.gen, guard) {
		c.gen = len(c.row.edits)
		if !c.isColumn() {
			c.readElement()
		}
		return
	}
	if !c.scopeValid() {
		staleCursor("%v", c)
	}
	switch {
	case !c.primed:
		c.reset()
	case c.scopeType.isPathScope() && c.hasPath:
		c.seek(c.path)
	default:
		staleCursor("%v", c)
	}
}

func (c *RowCursor) mustScope() {
	if !c.scopeValid() {
		staleCursor("%v", c)
	}
}

// Find positions the cursor on the field named path within a record or
// object scope and reports whether it is present. When it is not, the
// cursor is left where a write will create it.
func (c *RowCursor) Find(path string) bool {
	c.mustScope()
	if !c.scopeType.isPathScope() {
		panic(fmt.Errorf("hybridrow: Find(%q) in %s scope", path, c.scopeType))
	}
	c.seek(path)
	return c.exists || (c.isColumn() && c.row.isSet(c.start, c.column))
}

func (c *RowCursor) seek(path string) {
	c.primed = true
	c.gen = len(c.row.edits)
	if c.scopeType.base() == CodeSchema {
		if col, ok := c.layout.byName[path]; ok && col.storage != StorageSparse {
			c.column = col
			c.path, c.hasPath = path, true
			c.index = -1
			c.exists = c.row.isSet(c.start, col)
			c.cellType, c.cellArgs = col.typ, col.typeArgs
			return
		}
	}
	c.meta = c.firstChild()
	c.index = 0
	for {
		c.readElement()
		if !c.exists || c.path == path {
			break
		}
		c.meta = c.end
		c.index++
	}
	if !c.exists {
		c.path, c.hasPath = path, true
		c.column = nil
		if c.scopeType.base() == CodeSchema {
			c.column = c.layout.byName[path]
		}
	}
}

// MoveNext advances to the next element. On a fresh scope cursor the first
// call positions on the first element instead of skipping it. It returns
// false at the end of the scope, leaving the cursor at the append position.
// Moving on from the end of a complete tuple panics.
func (c *RowCursor) MoveNext() bool {
	c.sync()
	if c.isColumn() {
		return false
	}
	if !c.primed {
		c.primed = true
		return c.exists
	}
	if !c.exists {
		if c.scopeType.IsFixedArity() && c.index >= len(c.scopeArgs.args) {
			panic(fmt.Errorf("hybridrow: MoveNext past the end of %s%s", c.scopeType, c.scopeArgs))
		}
		return false
	}
	c.meta = c.end
	c.index++
	c.hasPath = false
	c.column = nil
	c.readElement()
	return c.exists
}

// MoveTo positions on the element at index. If the scope has fewer
// elements, the cursor stops at the end and MoveTo returns false.
func (c *RowCursor) MoveTo(index int) bool {
	c.mustScope()
	c.reset()
	c.primed = true
	for c.index < index && c.exists {
		c.meta = c.end
		c.index++
		c.readElement()
	}
	return c.exists && c.index == index
}

// MoveToEnd positions at the append position of the scope.
func (c *RowCursor) MoveToEnd() {
	c.MoveTo(math.MaxInt)
	c.hasPath = false
	c.column = nil
}

// Count returns the number of elements (sparse fields for records).
func (c *RowCursor) Count() int {
	c.mustScope()
	it := *c
	it.reset()
	var n int
	for it.exists {
		n++
		it.meta = it.end
		it.index++
		it.readElement()
	}
	return n
}

// Skip moves a parent cursor past the element holding child, after edits
// made through child.
func (c *RowCursor) Skip(child *RowCursor) bool {
	c.sync()
	if child.row != c.row || !c.exists || child.start < c.value || child.start > c.end {
		panic("hybridrow: Skip with a cursor that is not inside the current element")
	}
	return c.MoveNext()
}

// ReadScope descends into the scope at the cursor.
func (c *RowCursor) ReadScope() (RowCursor, Result) {
	c.sync()
	if c.isColumn() {
		return RowCursor{}, TypeConstraint
	}
	if !c.exists {
		return RowCursor{}, NotFound
	}
	if !c.cellType.IsScope() {
		return RowCursor{}, TypeConstraint
	}
	child := c.childScope()
	if child.scopeType.IsFixedArity() && child.Count() != len(child.scopeArgs.args) {
		return RowCursor{}, TypeConstraint
	}
	return child, Success
}

func (c *RowCursor) childScope() RowCursor {
	t := c.cellType
	child := RowCursor{
		row:       c.row,
		layout:    c.layout,
		scopeType: t,
		scopeArgs: c.cellArgs,
		immutable: c.immutable || t.IsImmutable(),
		start:     c.value + 4,
		sizeOff:   c.value,
		parents:   c.chain(),
	}
	if t.base() == CodeSchema {
		child.layout = c.row.mustResolveUDT(c.value, c.cellArgs.schemaID)
	}
	child.reset()
	return child
}
