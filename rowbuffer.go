package hybridrow

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"slices"
)

const (
	// HybridRowVersion is the first byte of every row.
	HybridRowVersion byte = 0x81

	// HeaderSize covers version, schema id and layout size.
	HeaderSize = 9
)

// RowBuffer owns the bytes of one row. It is not safe for concurrent use.
//
// Every structural edit (one that moves bytes) is appended to an edit log;
// cursors remember the log length they were positioned at and refuse to
// operate once an edit has moved the bytes they point into.
type RowBuffer struct {
	buf      []byte
	layout   *Layout
	resolver LayoutResolver
	opts     Options
	logger   *slog.Logger
	edits    []int
}

func NewRowBuffer(opts Options) *RowBuffer {
	if opts.InitialCapacity <= 0 {
		opts.InitialCapacity = defaultInitialCapacity
	}
	return &RowBuffer{
		buf:    make([]byte, 0, opts.InitialCapacity),
		opts:   opts,
		logger: opts.logger(),
	}
}

// InitLayout starts an empty row of layout. resolver is consulted for UDT
// scopes and may be nil when none are used.
func (b *RowBuffer) InitLayout(layout *Layout, resolver LayoutResolver) {
	b.layout = layout
	b.resolver = resolver
	n := HeaderSize + layout.size
	b.buf = ensureCapacity(b.buf[:0], n)[:n]
	clear(b.buf)
	b.buf[0] = HybridRowVersion
	binary.LittleEndian.PutUint32(b.buf[1:], uint32(layout.id))
	binary.LittleEndian.PutUint32(b.buf[5:], uint32(layout.size))
	b.recordEdit(0)
}

// ReadFrom adopts data as the row's bytes after validating the header.
// The row keeps a reference to data.
func (b *RowBuffer) ReadFrom(data []byte, resolver LayoutResolver) error {
	d := makeByteDecoder(data)
	ver, err := d.Byte()
	if err != nil {
		return err
	}
	if ver != HybridRowVersion {
		return dataErrf(data, 0, nil, "unsupported row version 0x%02x", ver)
	}
	rawID, err := d.Uint32()
	if err != nil {
		return err
	}
	id := SchemaID(int32(rawID))
	if resolver == nil {
		return dataErrf(data, 1, nil, "no resolver for schema %d", id)
	}
	layout, ok := resolver.Resolve(id)
	if !ok {
		return dataErrf(data, 1, nil, "unknown schema %d", id)
	}
	size, err := d.Uint32()
	if err != nil {
		return err
	}
	if int(size) != layout.size {
		return dataErrf(data, 5, nil, "layout size %d does not match schema %s (%d)", size, layout.name, layout.size)
	}
	if len(data) < HeaderSize+layout.size {
		return dataErrf(data, HeaderSize, nil, "truncated layout region")
	}
	b.buf = data
	b.layout = layout
	b.resolver = resolver
	b.recordEdit(0)
	return nil
}

// Bytes returns the encoded row. The slice is invalidated by the next write.
func (b *RowBuffer) Bytes() []byte { return b.buf }

func (b *RowBuffer) Len() int                 { return len(b.buf) }
func (b *RowBuffer) Layout() *Layout          { return b.layout }
func (b *RowBuffer) Resolver() LayoutResolver { return b.resolver }

// Generation counts structural edits made to the row so far.
func (b *RowBuffer) Generation() int { return len(b.edits) }

// Clone returns an independent copy of the row.
func (b *RowBuffer) Clone() *RowBuffer {
	return &RowBuffer{
		buf:      slices.Clone(b.buf),
		layout:   b.layout,
		resolver: b.resolver,
		opts:     b.opts,
		logger:   b.logger,
	}
}

func (b *RowBuffer) Root() RowCursor {
	return CreateRoot(b)
}

func (b *RowBuffer) recordEdit(off int) {
	b.edits = append(b.edits, off)
}

// clean reports whether no edit since gen touched an offset below guard.
func (b *RowBuffer) clean(gen, guard int) bool {
	if gen > len(b.edits) {
		return false
	}
	for _, e := range b.edits[gen:] {
		if e < guard {
			return false
		}
	}
	return true
}

func (b *RowBuffer) resolveUDT(id SchemaID) (*Layout, bool) {
	if b.layout != nil && id == b.layout.id {
		return b.layout, true
	}
	if b.resolver == nil {
		return nil, false
	}
	return b.resolver.Resolve(id)
}

func (b *RowBuffer) mustResolveUDT(off int, id SchemaID) *Layout {
	l, ok := b.resolveUDT(id)
	if !ok {
		corruptf(b.buf, off, "unknown schema %d", id)
	}
	return l
}

// splice replaces buf[off:off+oldLen] with data, shifting the tail and
// adjusting every scope size field in chain.
func (b *RowBuffer) splice(off, oldLen int, data []byte, chain []int) Result {
	delta := len(data) - oldLen
	if delta > 0 {
		if b.opts.MaxSize > 0 && len(b.buf)+delta > b.opts.MaxSize {
			b.logger.Warn("hybridrow: row size limit reached", "schema", b.layout.name, "size", len(b.buf), "grow", delta, "max", b.opts.MaxSize)
			return InsufficientBuffer
		}
		oldCap := cap(b.buf)
		var tail int
		tail, b.buf = grow(b.buf, delta)
		if cap(b.buf) != oldCap {
			b.logger.Debug("hybridrow: row grown", "schema", b.layout.name, "len", len(b.buf), "cap", cap(b.buf))
		}
		copy(b.buf[off+len(data):], b.buf[off+oldLen:tail])
	} else if delta < 0 {
		copy(b.buf[off+len(data):], b.buf[off+oldLen:])
		b.buf = b.buf[:len(b.buf)+delta]
	}
	copy(b.buf[off:], data)
	if delta != 0 {
		for _, sizeOff := range chain {
			putUint32(b.buf, sizeOff, uint32(int(readUint32(b.buf, sizeOff))+delta))
		}
		b.recordEdit(off)
	}
	return Success
}

func (b *RowBuffer) String() string {
	if b.layout == nil {
		return "<uninitialized row>"
	}
	return fmt.Sprintf("%s row (%d bytes)", b.layout.name, len(b.buf))
}
