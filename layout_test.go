package hybridrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineLayout_Placement(t *testing.T) {
	l := hotelLayout
	// bits: stars, name; slots: hotel_id[8], stars[1]; one offset
	assert.Equal(t, 1+8+1+4, l.Size())

	hid := l.MustFind("hotel_id")
	assert.Equal(t, StorageFixed, hid.Storage())
	assert.Equal(t, 1, hid.Offset())
	assert.Equal(t, 8, hid.Size())
	assert.False(t, hid.Nullable())

	stars := l.MustFind("stars")
	assert.Equal(t, 9, stars.Offset())
	assert.True(t, stars.Nullable())

	name := l.MustFind("name")
	assert.Equal(t, StorageVariable, name.Storage())
	assert.Equal(t, 10, name.Offset())

	addr := l.MustFind("address")
	assert.Equal(t, StorageSparse, addr.Storage())
	assert.Equal(t, TypeImmutableUDT, addr.Type())
	assert.Equal(t, SchemaID(2), addr.TypeArgs().SchemaID())

	_, found := l.Find("nope")
	assert.False(t, found)
	assert.Panics(t, func() { l.MustFind("nope") })

	assert.Len(t, l.FixedColumns(), 2)
	assert.Len(t, l.VariableColumns(), 1)
	assert.Len(t, l.SparseColumns(), 1)
}

func TestDefineLayout_Invalid(t *testing.T) {
	tests := map[string]func(b *LayoutBuilder){
		"duplicate":      func(b *LayoutBuilder) { b.Variable("a", TypeUtf8); b.Variable("a", TypeBinary) },
		"empty name":     func(b *LayoutBuilder) { b.Fixed("", TypeInt32, false) },
		"fixed scope":    func(b *LayoutBuilder) { b.Fixed("a", TypeObject, false) },
		"fixed utf8":     func(b *LayoutBuilder) { b.Fixed("a", TypeUtf8, false) },
		"variable int":   func(b *LayoutBuilder) { b.Variable("a", TypeInt32) },
		"zero length":    func(b *LayoutBuilder) { b.FixedLength("a", TypeBinary, 0, false) },
		"missing args":   func(b *LayoutBuilder) { b.Sparse("a", TypeTypedArray, TypeArgumentList{}) },
		"empty tuple":    func(b *LayoutBuilder) { b.Sparse("a", TypeTuple, TypeArgumentList{}) },
		"udt without id": func(b *LayoutBuilder) { b.Sparse("a", TypeUDT, TypeArgumentList{}) },
	}
	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, func() { DefineLayout(10, "Bad", f) })
		})
	}
	assert.Panics(t, func() { DefineLayout(0, "Zero", func(b *LayoutBuilder) {}) })
}

func TestLayout_Fingerprint(t *testing.T) {
	again := DefineLayout(1, "Guest", func(b *LayoutBuilder) {
		b.Fixed("id", TypeGuid, false)
		b.Variable("first_name", TypeUtf8)
		b.Variable("last_name", TypeUtf8)
		b.Sparse("title", TypeUtf8, TypeArgumentList{})
		b.Sparse("emails", TypeTypedArray, TypeArgs(Arg(TypeUtf8)))
		b.UDT("home", 2, false)
	})
	assert.Equal(t, guestLayout.Fingerprint(), again.Fingerprint())

	changed := DefineLayout(1, "Guest", func(b *LayoutBuilder) {
		b.Fixed("id", TypeGuid, true)
		b.Variable("first_name", TypeUtf8)
		b.Variable("last_name", TypeUtf8)
		b.Sparse("title", TypeUtf8, TypeArgumentList{})
		b.Sparse("emails", TypeTypedArray, TypeArgs(Arg(TypeUtf8)))
		b.UDT("home", 2, false)
	})
	assert.NotEqual(t, guestLayout.Fingerprint(), changed.Fingerprint())
}

func TestTokenizer(t *testing.T) {
	tok := guestLayout.Tokenizer()
	assert.Equal(t, len(guestLayout.Columns()), tok.Count())
	n, found := tok.Token("emails")
	require.True(t, found)
	s, found := tok.String(n)
	require.True(t, found)
	assert.Equal(t, "emails", s)

	// declared names are one-byte tokens, others are spelled out
	enc := tok.appendPath(nil, "emails")
	assert.Equal(t, []byte{byte(n)}, enc)
	path, k := tok.readPath(enc, 0)
	assert.Equal(t, "emails", path)
	assert.Equal(t, 1, k)

	enc = tok.appendPath(nil, "nick")
	assert.Len(t, enc, tok.pathLen("nick"))
	assert.Equal(t, byte(len("nick")+tok.Count()), enc[0])
	path, k = tok.readPath(enc, 0)
	assert.Equal(t, "nick", path)
	assert.Equal(t, 5, k)
}

func TestNamespace(t *testing.T) {
	l, found := testNamespace.Resolve(4)
	require.True(t, found)
	assert.Equal(t, movieLayout, l)
	_, found = testNamespace.Resolve(99)
	assert.False(t, found)
	assert.Equal(t, hotelLayout, testNamespace.LayoutNamed("HOTEL"))
	assert.Nil(t, testNamespace.LayoutNamed("Motel"))
	require.NoError(t, testNamespace.Check())

	assert.Panics(t, func() { NewNamespace("dup", guestLayout, guestLayout) })

	err := NewNamespace("partial", hotelLayout).Check()
	assert.ErrorContains(t, err, "unknown schema id 2")
}

func TestNamespace_Codecs(t *testing.T) {
	for _, enc := range []encodingMethod{MsgPack, JSON} {
		data := enc.EncodeNamespace(testNamespace)
		ns, err := enc.DecodeNamespace(data)
		require.NoError(t, err)
		assert.Equal(t, testNamespace.Name(), ns.Name())
		assert.Equal(t, testNamespace.Fingerprint(), ns.Fingerprint())
		for _, want := range testNamespace.Layouts() {
			got, found := ns.Resolve(want.SchemaID())
			require.True(t, found)
			assert.Equal(t, want.String(), got.String())
			assert.Equal(t, want.Fingerprint(), got.Fingerprint())
		}
	}

	// the package default is MessagePack
	assert.Equal(t, MsgPack.EncodeNamespace(testNamespace), EncodeNamespace(testNamespace))

	_, err := DecodeNamespace([]byte{0xC1})
	var de *DataError
	assert.ErrorAs(t, err, &de)

	_, err = JSON.DecodeNamespace([]byte(`{"name":"x","schemas":[{"id":1,"name":"A","columns":[{"name":"a","storage":1,"type":{"t":22}}]}]}`))
	assert.ErrorAs(t, err, &de, "fixed utf8 without a size")
}

func TestNamespace_FingerprintOrderIndependent(t *testing.T) {
	a := NewNamespace("a", guestLayout, addressLayout)
	b := NewNamespace("b", addressLayout, guestLayout)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	c := NewNamespace("c", guestLayout, addressLayout, movieLayout)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
