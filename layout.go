package hybridrow

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SchemaID names a Layout. Zero is not a valid id.
type SchemaID int32

// StorageKind says in which region of a row a column lives.
type StorageKind uint8

const (
	StorageSparse StorageKind = iota
	StorageFixed
	StorageVariable
)

func (s StorageKind) String() string {
	switch s {
	case StorageSparse:
		return "sparse"
	case StorageFixed:
		return "fixed"
	case StorageVariable:
		return "variable"
	default:
		return fmt.Sprintf("StorageKind(%d)", uint8(s))
	}
}

type LayoutColumn struct {
	name     string
	token    int
	storage  StorageKind
	typ      *LayoutType
	typeArgs TypeArgumentList
	nullable bool
	size     int // fixed slot size
	offset   int // fixed: slot offset; variable: offset-table slot offset
	index    int // position within its storage class
	nullBit  int // presence bit, -1 if always present
}

func (c *LayoutColumn) Name() string               { return c.name }
func (c *LayoutColumn) Token() int                 { return c.token }
func (c *LayoutColumn) Storage() StorageKind       { return c.storage }
func (c *LayoutColumn) Type() *LayoutType          { return c.typ }
func (c *LayoutColumn) TypeArgs() TypeArgumentList { return c.typeArgs }
func (c *LayoutColumn) TypeArg() TypeArgument      { return TypeArgument{c.typ, c.typeArgs} }
func (c *LayoutColumn) Nullable() bool             { return c.nullable }
func (c *LayoutColumn) Size() int                  { return c.size }
func (c *LayoutColumn) Offset() int                { return c.offset }
func (c *LayoutColumn) Index() int                 { return c.index }

func (c *LayoutColumn) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s %s %s", c.storage, c.name, c.TypeArg())
	if c.nullable {
		buf.WriteString(" nullable")
	}
	if c.storage == StorageFixed && !c.typ.IsFixed() {
		fmt.Fprintf(&buf, " size=%d", c.size)
	}
	return buf.String()
}

// Layout is the compiled form of one schema: the physical placement of every
// declared column. Layouts are immutable and safe to share.
type Layout struct {
	id          SchemaID
	name        string
	size        int
	bitmaskSize int
	columns     []*LayoutColumn
	fixed       []*LayoutColumn
	variable    []*LayoutColumn
	sparse      []*LayoutColumn
	byName      map[string]*LayoutColumn
	tokenizer   *Tokenizer
	fingerprint uint64
}

func (l *Layout) SchemaID() SchemaID    { return l.id }
func (l *Layout) Name() string          { return l.name }
func (l *Layout) Tokenizer() *Tokenizer { return l.tokenizer }

// Size is the byte size of the layout region: presence bitmask, fixed
// slots and the variable offset table.
func (l *Layout) Size() int { return l.size }

func (l *Layout) Columns() []*LayoutColumn         { return l.columns }
func (l *Layout) FixedColumns() []*LayoutColumn    { return l.fixed }
func (l *Layout) VariableColumns() []*LayoutColumn { return l.variable }
func (l *Layout) SparseColumns() []*LayoutColumn   { return l.sparse }

func (l *Layout) Find(name string) (*LayoutColumn, bool) {
	col, ok := l.byName[name]
	return col, ok
}

func (l *Layout) MustFind(name string) *LayoutColumn {
	col, ok := l.byName[name]
	if !ok {
		panic(fmt.Errorf("layout %s has no column %q", l.name, name))
	}
	return col
}

// Fingerprint is a hash of the layout's physical description. Layouts with
// equal fingerprints encode rows identically.
func (l *Layout) Fingerprint() uint64 { return l.fingerprint }

func (l *Layout) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "schema %d %s size=%d\n", l.id, l.name, l.size)
	for _, col := range l.columns {
		buf.WriteString("  ")
		buf.WriteString(col.String())
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (l *Layout) computeFingerprint() {
	l.fingerprint = xxhash.Sum64String(l.String())
}
