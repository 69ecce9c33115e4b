package hybridrow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDump(t *testing.T) {
	row := newMovie(t)

	s := row.Dump(0)
	assert.NotContains(t, s, "schema=")
	assert.Contains(t, s, "title: utf8")
	assert.Contains(t, s, "= Heat")
	assert.Contains(t, s, "cast: map_t<utf8, utf8>")
	assert.Contains(t, s, "  [0]: tuple_t<utf8, utf8>")
	assert.Contains(t, s, "    [0]: utf8")
	assert.Contains(t, s, "= Vincent")
	assert.Contains(t, s, "= 12.50")

	s = row.Dump(DumpAll)
	assert.True(t, strings.HasPrefix(s, "Movie v=0x81 schema=4 "), s)
	assert.Contains(t, s, hexstr(row.Bytes()))
	assert.NotContains(t, s, "** ERROR")
}

func TestStats(t *testing.T) {
	row := newMovie(t)
	st := row.Stats()
	assert.Equal(t, row.Len(), st.Size)
	assert.Equal(t, movieLayout.Size(), st.LayoutSize)
	assert.Equal(t, 5, st.VariableSize)
	assert.Equal(t, st.Size-HeaderSize-st.LayoutSize-st.VariableSize, st.SparseSize)
	assert.Equal(t, 4, st.Fields)
	// cast, its two entries, genres, ratings and its entry
	assert.Equal(t, 6, st.Scopes)
	assert.Equal(t, 2, st.MaxDepth)
}

func TestUpdatePolicy_String(t *testing.T) {
	assert.Equal(t, "upsert", Upsert.String())
	assert.Equal(t, "insert_at", InsertAt.String())
	assert.Equal(t, "UpdatePolicy(9)", UpdatePolicy(9).String())
	assert.Equal(t, "exists", Exists.String())
}
