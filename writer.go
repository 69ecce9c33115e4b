package hybridrow

import (
	"iter"
	"math"
)

// WriteScopeFunc writes a new scope of type t at the cursor and calls fn
// once with a cursor into it. The callback may populate the scope even if
// t is immutable. Sets and maps may be filled with plain positional writes;
// they are sorted afterwards, and duplicate elements (keys) are dropped
// with an Exists result. The cursor given to fn is writable only during the
// call; copies of it must not outlive fn.
func (c *RowCursor) WriteScopeFunc(t *LayoutType, args TypeArgumentList, p UpdatePolicy, fn func(scope *RowCursor) Result) Result {
	scope, r := c.WriteScope(t, args, p)
	if r != Success {
		return r
	}
	immutable := scope.immutable
	scope.immutable = false
	scope.bulk = t.IsUnique()
	r = fn(&scope)
	if t.IsUnique() {
		if sr := scope.sortUnique(); r == Success {
			r = sr
		}
	}
	scope.immutable, scope.bulk = immutable, false
	return r
}

// WriteElements appends one element per item to the collection scope c.
// fn receives a cursor positioned to receive exactly one value and must
// write it; the cursor then advances on its own.
func WriteElements[T any](c *RowCursor, items iter.Seq[T], fn func(elem *RowCursor, item T) Result) Result {
	if !c.scopeType.IsIndexed() {
		panic("hybridrow: WriteElements needs an indexed scope, got " + c.scopeType.name)
	}
	elem := *c
	elem.MoveTo(math.MaxInt)
	for item := range items {
		before := elem.index
		if r := fn(&elem, item); r != Success {
			return r
		}
		if !elem.exists || elem.index != before {
			return TypeConstraint
		}
		elem.MoveNext()
	}
	return Success
}
