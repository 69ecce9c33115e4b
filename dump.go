package hybridrow

import (
	"fmt"
	"strings"
)

type DumpFlags uint64

const (
	DumpHeader = DumpFlags(1 << iota)
	DumpOffsets
	DumpHex

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)

	indentStep = "  "
)

var dumpSep = strings.Repeat("-", 60)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the row as an indented listing of its fields, for debugging.
// Malformed rows are dumped up to the first problem.
func (b *RowBuffer) Dump(f DumpFlags) string {
	var w strings.Builder
	if f.Contains(DumpHeader) {
		fmt.Fprintf(&w, "%s v=0x%02x schema=%d size=%d\n", b.layout.name, b.buf[0], b.layout.id, len(b.buf))
		fmt.Fprintln(&w, dumpSep)
	}
	err := func() (err error) {
		defer recoverDataError(&err)
		root := CreateRoot(b)
		dumpRecord(&w, f, "", &root)
		return nil
	}()
	if err != nil {
		fmt.Fprintf(&w, "** ERROR: %v\n", err)
	}
	if f.Contains(DumpHex) {
		fmt.Fprintln(&w, dumpSep)
		fmt.Fprintln(&w, hexstr(b.buf))
	}
	return w.String()
}

func dumpLine(w *strings.Builder, f DumpFlags, indent string, off int, label, typ string, v any) {
	line := indent + label + ": " + typ
	if v != nil {
		line = rpad(line, 40, ' ') + fmt.Sprintf(" = %v", v)
	}
	if f.Contains(DumpOffsets) {
		fmt.Fprintf(w, "%5d  %s\n", off, line)
	} else {
		fmt.Fprintln(w, line)
	}
}

func dumpRecord(w *strings.Builder, f DumpFlags, indent string, c *RowCursor) {
	base := c.start
	for _, col := range c.layout.fixed {
		if v, r := c.row.readFixed(base, col); r == Success {
			dumpLine(w, f, indent, base+col.offset, col.name, col.TypeArg().String(), v)
		}
	}
	for _, col := range c.layout.variable {
		if v, r := c.row.readVariable(base, col); r == Success {
			dumpLine(w, f, indent, c.row.varOffset(base, col), col.name, col.TypeArg().String(), v)
		}
	}
	dumpElements(w, f, indent, c)
}

func dumpElements(w *strings.Builder, f DumpFlags, indent string, c *RowCursor) {
	it := *c
	it.reset()
	for it.MoveNext() {
		label := it.path
		if it.scopeType.IsIndexed() {
			label = fmt.Sprintf("[%d]", it.index)
		}
		ta := TypeArgument{it.cellType, it.cellArgs}
		if !it.cellType.IsScope() {
			dumpLine(w, f, indent, it.meta, label, ta.String(), it.scalarAt())
			continue
		}
		dumpLine(w, f, indent, it.meta, label, ta.String(), nil)
		child := it.childScope()
		if child.scopeType.base() == CodeSchema {
			dumpRecord(w, f, indent+indentStep, &child)
		} else {
			dumpElements(w, f, indent+indentStep, &child)
		}
	}
}
