package hybridrow

import (
	"bytes"
	"slices"
)

// Sets keep their elements sorted by value and maps keep their entries
// sorted by key. Neither accepts positional writes: values are encoded in a
// temporary field first and then moved in with MoveField, which finds the
// sorted position and enforces uniqueness.

// uniqueKey returns the part of an encoded element that identifies it: the
// whole value for sets, the key for map entries.
func (c *RowCursor) uniqueKey(elem []byte) []byte {
	if c.scopeType.base() != CodeTypedMapScope {
		return elem
	}
	kt := c.scopeArgs.args[0].typ
	return elem[4 : 4+valueLen(elem, 4, kt)]
}

func (c *RowCursor) uniqueKeyType() TypeArgument {
	return c.scopeArgs.args[0]
}

// seekUnique scans the unique scope for key. It returns the position of the
// matching element if found, or of the first greater element otherwise.
func (c *RowCursor) seekUnique(key []byte) (it RowCursor, found bool) {
	it = *c
	it.reset()
	it.primed = true
	kt := c.uniqueKeyType()
	for it.exists {
		k := c.uniqueKey(it.row.buf[it.value:it.end])
		if bytes.Equal(k, key) {
			return it, true
		}
		if compareEncoded(kt, k, key) > 0 {
			return it, false
		}
		it.meta = it.end
		it.index++
		it.readElement()
	}
	return it, false
}

// MoveField moves the value at src into the collection scope c and deletes
// src. For sets and maps the value lands at its sorted position: Insert
// fails with Exists on a duplicate (key), Update fails with NotFound if
// there is none, Upsert replaces. For arrays the value is written at c's
// current position following the usual policy rules.
//
// On failure the row is left unchanged. On success c is positioned on the
// moved element.
func (c *RowCursor) MoveField(src *RowCursor, p UpdatePolicy) Result {
	c.mustScope()
	src.sync()
	if src.row != c.row {
		panic("hybridrow: MoveField across rows")
	}
	st := c.scopeType
	switch st.base() {
	case CodeTypedSetScope, CodeTypedMapScope, CodeArrayScope, CodeTypedArrayScope:
	default:
		return TypeConstraint
	}
	if c.immutable || src.immutable {
		return InsufficientPermissions
	}
	if src.isColumn() || !src.exists {
		return NotFound
	}
	if src.scopeType.IsFixedArity() {
		return TypeConstraint
	}
	if src.cellType.IsFixedArity() {
		tuple := src.childScope()
		if tuple.Count() != len(src.cellArgs.args) {
			return TypeConstraint
		}
	}
	if src.meta >= c.start && src.meta < c.scopeEnd() {
		panic("hybridrow: MoveField source lies inside the destination scope")
	}
	if c.sizeOff >= src.meta && c.sizeOff < src.end {
		panic("hybridrow: MoveField destination lies inside the source")
	}

	ta := TypeArgument{src.cellType, src.cellArgs}
	if st.IsTyped() {
		want, _ := c.elemType(0)
		if !want.Equal(ta) {
			return TypeConstraint
		}
	}
	value := slices.Clone(c.row.buf[src.value:src.end])

	unique := st.IsUnique()
	if unique {
		_, found := c.seekUnique(c.uniqueKey(value))
		if _, r := resolvePolicy(st, p, found); r != Success {
			return r
		}
	} else {
		c.sync()
		if _, r := resolvePolicy(st, p, c.exists); r != Success {
			return r
		}
	}

	srcMeta, n := src.meta, src.end-src.meta
	src.deleteElement()
	if srcMeta < c.start {
		c.shift(srcMeta, -n)
	}
	c.gen = len(c.row.edits)

	target := c
	var it RowCursor
	if unique {
		var found bool
		it, found = c.seekUnique(c.uniqueKey(value))
		// when absent, it sits on the first greater element: insert before it
		it.exists = found
		it.bulk = true
		target = &it
	}
	r := target.writeSparse(ta, value, p)
	if unique && r == Success {
		it.bulk = c.bulk
		*c = it
	}
	return r
}

// shift moves every offset of c at or after from by delta.
func (c *RowCursor) shift(from, delta int) {
	adj := func(off *int) {
		if *off >= from {
			*off += delta
		}
	}
	adj(&c.start)
	adj(&c.sizeOff)
	adj(&c.meta)
	adj(&c.value)
	adj(&c.end)
	parents := slices.Clone(c.parents)
	for i := range parents {
		adj(&parents[i])
	}
	c.parents = parents
}

// FindInScope looks up the element of the set or map c that matches the
// value at pattern. For maps, pattern may hold either a key or a whole
// entry. The returned cursor is positioned on the match; c and pattern are
// not modified.
func (c *RowCursor) FindInScope(pattern *RowCursor) (RowCursor, Result) {
	c.mustScope()
	pattern.sync()
	if !c.scopeType.IsUnique() {
		return RowCursor{}, TypeConstraint
	}
	if !pattern.exists || pattern.isColumn() {
		return RowCursor{}, NotFound
	}
	ta := TypeArgument{pattern.cellType, pattern.cellArgs}
	value := c.row.buf[pattern.value:pattern.end]
	var key []byte
	switch elem, _ := c.elemType(0); {
	case elem.Equal(ta):
		key = c.uniqueKey(value)
	case c.scopeType.base() == CodeTypedMapScope && c.uniqueKeyType().Equal(ta):
		key = value
	default:
		return RowCursor{}, TypeConstraint
	}
	it, found := c.seekUnique(slices.Clone(key))
	if !found {
		return RowCursor{}, NotFound
	}
	return it, Success
}

// sortUnique sorts the elements of a set or map written in bulk and drops
// duplicates, keeping the first. It reports Exists if any were dropped.
func (c *RowCursor) sortUnique() Result {
	c.mustScope()
	first, end := c.firstChild(), c.scopeEnd()
	type elem struct {
		data []byte
		key  []byte
	}
	var elems []elem
	it := *c
	it.reset()
	for it.exists {
		data := slices.Clone(it.row.buf[it.value:it.end])
		elems = append(elems, elem{data, c.uniqueKey(data)})
		it.meta = it.end
		it.index++
		it.readElement()
	}
	kt := c.uniqueKeyType()
	slices.SortStableFunc(elems, func(a, b elem) int {
		return compareEncoded(kt, a.key, b.key)
	})
	seen := make(map[string]bool, len(elems))
	payload := make([]byte, 0, end-first)
	result := Success
	for _, e := range elems {
		if seen[string(e.key)] {
			result = Exists
			continue
		}
		seen[string(e.key)] = true
		payload = append(payload, e.data...)
	}
	c.row.splice(first, end-first, payload, c.chain())
	c.row.recordEdit(first)
	c.reset()
	return result
}
