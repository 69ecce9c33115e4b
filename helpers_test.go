package hybridrow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	addressLayout = DefineLayout(2, "Address", func(b *LayoutBuilder) {
		b.Variable("street", TypeUtf8)
		b.Variable("city", TypeUtf8)
		b.Fixed("zip", TypeInt32, true)
	})
	guestLayout = DefineLayout(1, "Guest", func(b *LayoutBuilder) {
		b.Fixed("id", TypeGuid, false)
		b.Variable("first_name", TypeUtf8)
		b.Variable("last_name", TypeUtf8)
		b.Sparse("title", TypeUtf8, TypeArgumentList{})
		b.Sparse("emails", TypeTypedArray, TypeArgs(Arg(TypeUtf8)))
		b.UDT("home", 2, false)
	})
	hotelLayout = DefineLayout(3, "Hotel", func(b *LayoutBuilder) {
		b.FixedLength("hotel_id", TypeUtf8, 8, false)
		b.Variable("name", TypeUtf8)
		b.Fixed("stars", TypeInt8, true)
		b.UDT("address", 2, true)
	})
	movieLayout = DefineLayout(4, "Movie", func(b *LayoutBuilder) {
		b.Variable("title", TypeUtf8)
		b.Sparse("cast", TypeTypedMap, TypeArgs(Arg(TypeUtf8), Arg(TypeUtf8)))
		b.Sparse("genres", TypeTypedSet, TypeArgs(Arg(TypeUtf8)))
		b.Sparse("ratings", TypeTypedMap, TypeArgs(Arg(TypeInt32), Arg(TypeFloat64)))
	})

	testNamespace = NewNamespace("Test", guestLayout, addressLayout, hotelLayout, movieLayout)
)

func newRow(t testing.TB, layout *Layout) *RowBuffer {
	t.Helper()
	row := NewRowBuffer(DefaultOptions())
	row.InitLayout(layout, testNamespace)
	return row
}

func ok(t testing.TB, r Result) {
	t.Helper()
	if r != Success {
		t.Fatalf("** result = %v, wanted success", r)
	}
}

func catchPanic(f func()) (v any) {
	defer func() {
		v = recover()
	}()
	f()
	return nil
}

// writeUtf8At sets a top-level field of row.
func writeUtf8At(t testing.TB, row *RowBuffer, path, value string) {
	t.Helper()
	c := row.Root().Field(path)
	ok(t, c.WriteUtf8(value, Upsert))
}

// putEntry encodes a key/value tuple in a scratch field and moves it into
// the map m.
func putEntry[K, V any](t testing.TB, row *RowBuffer, m *RowCursor, k K, v V, p UpdatePolicy) Result {
	t.Helper()
	tmp := row.Root().Field("__tmp")
	tup, r := tmp.WriteScope(TypeTypedTuple, m.ScopeTypeArgs(), Upsert)
	ok(t, r)
	ok(t, tup.Write(k, Upsert))
	tup.MoveNext()
	ok(t, tup.Write(v, Upsert))
	r = m.MoveField(&tmp, p)
	if r != Success {
		ok(t, tmp.DeleteField())
	}
	return r
}

// readList reads every scalar element of the scope at c.
func readList(t testing.TB, c RowCursor) []any {
	t.Helper()
	scope, r := c.ReadScope()
	ok(t, r)
	var list []any
	for scope.MoveNext() {
		v, r := scope.Read()
		ok(t, r)
		list = append(list, v)
	}
	return list
}

// readEntries reads a map scope as [key, value] pairs in stored order.
func readEntries(t testing.TB, c RowCursor) [][2]any {
	t.Helper()
	m, r := c.ReadScope()
	ok(t, r)
	var entries [][2]any
	for m.MoveNext() {
		tup, r := m.ReadScope()
		ok(t, r)
		require.True(t, tup.MoveNext())
		k, r := tup.Read()
		ok(t, r)
		require.True(t, tup.MoveNext())
		v, r := tup.Read()
		ok(t, r)
		entries = append(entries, [2]any{k, v})
	}
	return entries
}

func field(row *RowBuffer, path string) *RowCursor {
	c := row.Root().Field(path)
	return &c
}

func countFields(row *RowBuffer) int {
	root := row.Root()
	return root.Count()
}
