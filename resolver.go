package hybridrow

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// LayoutResolver maps schema ids to layouts. Implementations must be safe
// for concurrent use; Namespace is, once built.
type LayoutResolver interface {
	Resolve(id SchemaID) (*Layout, bool)
}

// Namespace is a set of layouts that may reference each other through UDT
// columns.
type Namespace struct {
	name        string
	layouts     []*Layout
	byID        map[SchemaID]*Layout
	byLowerName map[string]*Layout
}

var _ LayoutResolver = (*Namespace)(nil)

func NewNamespace(name string, layouts ...*Layout) *Namespace {
	ns := &Namespace{
		name:        name,
		byID:        make(map[SchemaID]*Layout),
		byLowerName: make(map[string]*Layout),
	}
	for _, l := range layouts {
		ns.Add(l)
	}
	return ns
}

func (ns *Namespace) Add(l *Layout) {
	if prev := ns.byID[l.id]; prev != nil {
		panic(fmt.Errorf("namespace %s: schema id %d used by both %s and %s", ns.name, l.id, prev.name, l.name))
	}
	ns.layouts = append(ns.layouts, l)
	ns.byID[l.id] = l
	ns.byLowerName[strings.ToLower(l.name)] = l
}

func (ns *Namespace) Name() string { return ns.name }

func (ns *Namespace) Layouts() []*Layout {
	return slices.Clone(ns.layouts)
}

func (ns *Namespace) Resolve(id SchemaID) (*Layout, bool) {
	l, ok := ns.byID[id]
	return l, ok
}

func (ns *Namespace) MustResolve(id SchemaID) *Layout {
	l, ok := ns.byID[id]
	if !ok {
		panic(fmt.Errorf("namespace %s: unknown schema id %d", ns.name, id))
	}
	return l
}

// LayoutNamed finds a layout by case-insensitive name.
func (ns *Namespace) LayoutNamed(name string) *Layout {
	return ns.byLowerName[strings.ToLower(name)]
}

// Check verifies that every UDT reference resolves within the namespace.
func (ns *Namespace) Check() error {
	for _, l := range ns.layouts {
		for _, col := range l.columns {
			if err := ns.checkTypeArg(col.TypeArg()); err != nil {
				return fmt.Errorf("namespace %s: %s.%s: %w", ns.name, l.name, col.name, err)
			}
		}
	}
	return nil
}

func (ns *Namespace) checkTypeArg(ta TypeArgument) error {
	if ta.typ.base() == CodeSchema {
		if _, ok := ns.byID[ta.args.schemaID]; !ok {
			return fmt.Errorf("unknown schema id %d", ta.args.schemaID)
		}
	}
	for _, a := range ta.args.args {
		if err := ns.checkTypeArg(a); err != nil {
			return err
		}
	}
	return nil
}

// Fingerprint combines the fingerprints of all layouts in schema id order.
func (ns *Namespace) Fingerprint() uint64 {
	sorted := ns.Layouts()
	slices.SortFunc(sorted, func(a, b *Layout) int { return int(a.id) - int(b.id) })
	d := xxhash.New()
	var buf [12]byte
	for _, l := range sorted {
		binary.LittleEndian.PutUint32(buf[:], uint32(l.id))
		binary.LittleEndian.PutUint64(buf[4:], l.fingerprint)
		d.Write(buf[:])
	}
	return d.Sum64()
}
