/*
Package hybridrow implements HybridRow, a schema-driven binary row format
that mixes fixed-offset columns with self-describing sparse fields.

We implement:

1. Layouts, compiled schemas that assign every column a storage kind
(fixed, variable or sparse), a type and a position.

2. Row buffers, byte slices holding one row, created for a layout or read
from existing bytes.

3. Cursors, which navigate and edit the row in place: columns, sparse
fields, and nested scopes (objects, arrays, sets, maps, tuples, nullables
and UDTs).

4. Namespaces, collections of layouts that resolve UDT references and
round-trip through msgpack or JSON.

# Technical Details

**Results.**
Write and read operations return a Result code instead of an error. Only
corruption of the underlying bytes is reported as *DataError; a cursor used
after a structural edit it cannot follow panics with ErrStaleCursor.

**Update policies.**
Upsert replaces or inserts; Insert fails with Exists on a present element;
Update fails with NotFound on a missing one; InsertAt inserts before the
cursor and is only allowed in arrays.

## Binary encoding

**Header**: version byte (0x81), schema id (int32 LE), layout size (uint32 LE).

**Layout region**: presence bitmask (nullable fixed columns, then variable
columns), fixed column slots, then one uint32 offset per variable column.
The region is followed by variable payloads in column order (uvarint length
and bytes; varint for VarInt and VarUInt) and then the sparse region.

**Sparse elements**:
1. Layout code (1 byte) and type arguments, unless the enclosing scope is typed.
2. Path (in objects and UDTs only): uvarint token, or uvarint(len+tokens)
followed by UTF-8 bytes.
3. Value. Scopes are prefixed with their payload size (uint32 LE).

**Unique scopes** (typed sets and maps) keep their elements sorted; map
entries are ordered by key.
*/
package hybridrow
