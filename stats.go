package hybridrow

// RowStats summarizes how a row's bytes are spent.
type RowStats struct {
	Size         int
	LayoutSize   int
	VariableSize int
	SparseSize   int

	Fields   int // top-level sparse fields
	Scopes   int // scopes at any depth
	MaxDepth int
}

// Stats walks the row. It panics with *DataError on malformed rows; call
// Validate first when the bytes are untrusted.
func (b *RowBuffer) Stats() RowStats {
	root := CreateRoot(b)
	sparse := b.sparseStart(HeaderSize, b.layout)
	s := RowStats{
		Size:         len(b.buf),
		LayoutSize:   b.layout.size,
		VariableSize: sparse - HeaderSize - b.layout.size,
		SparseSize:   len(b.buf) - sparse,
		Fields:       root.Count(),
	}
	statsScope(&s, &root, 0)
	return s
}

func statsScope(s *RowStats, c *RowCursor, depth int) {
	s.MaxDepth = max(s.MaxDepth, depth)
	it := *c
	it.reset()
	for it.MoveNext() {
		if it.cellType.IsScope() {
			s.Scopes++
			child := it.childScope()
			statsScope(s, &child, depth+1)
		}
	}
}
