package hybridrow

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Export returns the row as a tree of plain Go values. Records and objects
// become map[string]any; arrays, sets and tuples become []any; maps with
// utf8 keys become map[string]any and other maps a []any of [key, value]
// pairs; nullables become their value or nil. Absent columns are omitted.
func Export(row *RowBuffer) (tree map[string]any, err error) {
	defer recoverDataError(&err)
	root := CreateRoot(row)
	return exportRecord(&root), nil
}

// Validate checks the whole row for structural consistency.
func (b *RowBuffer) Validate() error {
	_, err := Export(b)
	return err
}

func exportRecord(c *RowCursor) map[string]any {
	m := make(map[string]any)
	base, layout := c.start, c.layout
	for _, col := range layout.fixed {
		if v, r := c.row.readFixed(base, col); r == Success {
			m[col.name] = v
		}
	}
	expected := base + layout.size
	for _, col := range layout.variable {
		if !c.row.isSet(base, col) {
			continue
		}
		if off := c.row.varOffset(base, col); off != expected {
			corruptf(c.row.buf, base+col.offset, "%s.%s: variable offset %d, expected %d", layout.name, col.name, off-base, expected-base)
		}
		v, _ := c.row.readVariable(base, col)
		m[col.name] = v
		expected += scalarPayloadLen(c.row.buf, expected, col.typ)
	}
	exportFields(c, m)
	return m
}

func exportFields(c *RowCursor, m map[string]any) {
	it := *c
	it.reset()
	for it.MoveNext() {
		if _, dup := m[it.path]; dup {
			corruptf(it.row.buf, it.meta, "duplicate field %q", it.path)
		}
		m[it.path] = exportElement(&it)
	}
}

func exportList(c *RowCursor) []any {
	list := []any{}
	it := *c
	it.reset()
	for it.MoveNext() {
		list = append(list, exportElement(&it))
	}
	return list
}

func exportElement(c *RowCursor) any {
	if !c.cellType.IsScope() {
		if c.cellType == TypeNull {
			return nil
		}
		return c.scalarAt()
	}
	child := c.childScope()
	buf := c.row.buf
	switch child.scopeType.base() {
	case CodeSchema:
		return exportRecord(&child)
	case CodeObjectScope:
		m := make(map[string]any)
		exportFields(&child, m)
		return m
	case CodeNullableScope:
		hasValue := buf[child.start]
		if hasValue > 1 || (hasValue == 1) != child.exists {
			corruptf(buf, child.start, "nullable presence flag %d does not match its content", hasValue)
		}
		if !child.exists {
			return nil
		}
		if child.end != child.scopeEnd() {
			corruptf(buf, child.end, "nullable holds more than one value")
		}
		return exportElement(&child)
	case CodeTypedMapScope:
		return exportMap(&child)
	default:
		list := exportList(&child)
		if child.scopeType.IsFixedArity() && len(list) != len(child.scopeArgs.args) {
			corruptf(buf, child.start, "%s%s holds %d values", child.scopeType, child.scopeArgs, len(list))
		}
		return list
	}
}

func exportMap(c *RowCursor) any {
	byString := c.scopeArgs.args[0].typ == TypeUtf8
	var m map[string]any
	var pairs []any
	if byString {
		m = make(map[string]any)
	} else {
		pairs = []any{}
	}
	it := *c
	it.reset()
	for it.MoveNext() {
		kv := exportElement(&it).([]any)
		if byString {
			m[kv[0].(string)] = kv[1]
		} else {
			pairs = append(pairs, kv)
		}
	}
	if byString {
		return m
	}
	return pairs
}

func ExportJSON(row *RowBuffer) ([]byte, error) {
	tree, err := Export(row)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("export %s row to JSON: %w", row.layout.name, err)
	}
	return raw, nil
}

func ExportMsgPack(row *RowBuffer) ([]byte, error) {
	tree, err := Export(row)
	if err != nil {
		return nil, err
	}
	raw, err := msgpack.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("export %s row to MsgPack: %w", row.layout.name, err)
	}
	return raw, nil
}

var cborMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	return must(opts.EncMode())
}()

// ExportCBOR encodes the row as deterministic (canonical) CBOR.
func ExportCBOR(row *RowBuffer) ([]byte, error) {
	tree, err := Export(row)
	if err != nil {
		return nil, err
	}
	raw, err := cborMode.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("export %s row to CBOR: %w", row.layout.name, err)
	}
	return raw, nil
}
