package rowstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hybridrow "github.com/microsoft/HybridRow-sub002"
)

var (
	personLayout = hybridrow.DefineLayout(1, "Person", func(b *hybridrow.LayoutBuilder) {
		b.Variable("name", hybridrow.TypeUtf8)
		b.Fixed("age", hybridrow.TypeInt32, true)
	})
	petLayout = hybridrow.DefineLayout(2, "Pet", func(b *hybridrow.LayoutBuilder) {
		b.Variable("name", hybridrow.TypeUtf8)
	})
	testNamespace = hybridrow.NewNamespace("People", personLayout, petLayout)

	otherNamespace = hybridrow.NewNamespace("People", hybridrow.DefineLayout(1, "Person", func(b *hybridrow.LayoutBuilder) {
		b.Variable("name", hybridrow.TypeUtf8)
	}))
)

func testOptions(t testing.TB) Options {
	return Options{
		Path:      filepath.Join(t.TempDir(), "rows.db"),
		IsTesting: true,
		Row:       hybridrow.DefaultOptions(),
	}
}

func forEachBackend(t *testing.T, f func(t *testing.T, s *Store)) {
	t.Run("mem", func(t *testing.T) {
		s, err := OpenMemory(testNamespace, testOptions(t))
		require.NoError(t, err)
		defer s.Close()
		f(t, s)
	})
	t.Run("bolt", func(t *testing.T) {
		s, err := Open(testNamespace, testOptions(t))
		require.NoError(t, err)
		defer s.Close()
		f(t, s)
	})
}

func person(t testing.TB, name string, age int32) *hybridrow.RowBuffer {
	t.Helper()
	row := hybridrow.NewRowBuffer(hybridrow.DefaultOptions())
	row.InitLayout(personLayout, testNamespace)
	c := row.Root().Field("name")
	require.NoError(t, c.WriteUtf8(name, hybridrow.Insert).Err())
	c = row.Root().Field("age")
	require.NoError(t, c.WriteInt32(age, hybridrow.Insert).Err())
	return row
}

func nameOf(t testing.TB, row *hybridrow.RowBuffer) string {
	t.Helper()
	c := row.Root().Field("name")
	s, r := c.ReadUtf8()
	require.NoError(t, r.Err())
	return s
}

func TestStore_PutGetDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		row := person(t, "Ada", 36)
		require.NoError(t, s.Put([]byte("ada"), row))

		a, err := s.Get([]byte("ada"))
		require.NoError(t, err)
		assert.Equal(t, row.Bytes(), a.Bytes())
		assert.Equal(t, personLayout, a.Layout())
		assert.Equal(t, "Ada", nameOf(t, a))

		require.NoError(t, s.Put([]byte("ada"), person(t, "Ada Lovelace", 36)))
		a, err = s.Get([]byte("ada"))
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", nameOf(t, a))

		require.NoError(t, s.Delete([]byte("ada")))
		_, err = s.Get([]byte("ada"))
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, s.Delete([]byte("ada")))
	})
}

func TestStore_PutForeignLayout(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		row := hybridrow.NewRowBuffer(hybridrow.DefaultOptions())
		row.InitLayout(otherNamespace.MustResolve(1), otherNamespace)
		err := s.Put([]byte("x"), row)
		var se *StoreError
		require.ErrorAs(t, err, &se)
		assert.ErrorIs(t, err, ErrNamespaceMismatch)
		assert.Equal(t, "Person", se.Schema)
	})
}

func TestStore_Scan(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		for _, name := range []string{"carol", "alice", "bob", "dave"} {
			require.NoError(t, s.Put([]byte(name), person(t, name, 20)))
		}

		var keys []string
		require.NoError(t, s.Scan(nil, func(key []byte, row *hybridrow.RowBuffer) bool {
			assert.Equal(t, string(key), nameOf(t, row))
			keys = append(keys, string(key))
			return true
		}))
		assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, keys)

		keys = nil
		require.NoError(t, s.Scan([]byte("b"), func(key []byte, row *hybridrow.RowBuffer) bool {
			keys = append(keys, string(key))
			return len(keys) < 2
		}))
		assert.Equal(t, []string{"bob", "carol"}, keys)

		st, err := s.Stats()
		require.NoError(t, err)
		assert.Equal(t, 4, st.Rows)
		assert.Positive(t, st.DataSize)
	})
}

func TestStore_ReadMany(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		var keys [][]byte
		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
			require.NoError(t, s.Put([]byte(name), person(t, name, 1)))
			keys = append(keys, []byte(name))
		}

		var mu sync.Mutex
		var names []string
		err := s.ReadMany(context.Background(), keys, func(key []byte, row *hybridrow.RowBuffer) error {
			n := nameOf(t, row)
			mu.Lock()
			defer mu.Unlock()
			names = append(names, n)
			return nil
		})
		require.NoError(t, err)
		slices.Sort(names)
		assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, names)

		err = s.ReadMany(context.Background(), append(keys, []byte("zzz")), func(key []byte, row *hybridrow.RowBuffer) error {
			return nil
		})
		assert.ErrorIs(t, err, ErrNotFound)

		errStop := errors.New("stop")
		err = s.ReadMany(context.Background(), keys, func(key []byte, row *hybridrow.RowBuffer) error {
			return errStop
		})
		assert.ErrorIs(t, err, errStop)
	})
}

func TestStore_Verify(t *testing.T) {
	opt := testOptions(t)
	opt.Verify = true
	s, err := OpenMemory(testNamespace, opt)
	require.NoError(t, err)
	defer s.Close()

	good := person(t, "Eve", 30).Bytes()
	bad := append(slices.Clone(good), 0xFF)
	row := hybridrow.NewRowBuffer(hybridrow.DefaultOptions())
	require.NoError(t, row.ReadFrom(bad, testNamespace))
	require.NoError(t, s.Put([]byte("eve"), row))

	_, err = s.Get([]byte("eve"))
	var de *hybridrow.DataError
	assert.ErrorAs(t, err, &de)

	err = s.Scan(nil, func(key []byte, row *hybridrow.RowBuffer) bool { return true })
	assert.ErrorAs(t, err, &de)
}

func TestOpen_Reopen(t *testing.T) {
	opt := testOptions(t)
	s, err := Open(testNamespace, opt)
	require.NoError(t, err)
	require.NoError(t, s.Put([]byte("ada"), person(t, "Ada", 36)))
	require.NoError(t, s.Close())

	s, err = Open(nil, opt)
	require.NoError(t, err)
	assert.Equal(t, testNamespace.Fingerprint(), s.Namespace().Fingerprint())
	row, err := s.Get([]byte("ada"))
	require.NoError(t, err)
	assert.Equal(t, "Ada", nameOf(t, row))
	require.NoError(t, s.Close())

	s, err = Open(testNamespace, opt)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(otherNamespace, opt)
	assert.ErrorIs(t, err, ErrNamespaceMismatch)
}

func TestOpen_NoNamespace(t *testing.T) {
	_, err := Open(nil, testOptions(t))
	assert.ErrorIs(t, err, ErrNoNamespace)

	_, err = OpenMemory(nil, testOptions(t))
	assert.ErrorIs(t, err, ErrNoNamespace)
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("path: /tmp/rows.db\nverify: true\nrow:\n  max_size: 1024\n"), 0o644))

	opt, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rows.db", opt.Path)
	assert.True(t, opt.Verify)
	assert.Equal(t, defaultParallelism, opt.Parallelism)
	assert.Equal(t, 1024, opt.Row.MaxSize)
	assert.Equal(t, 256, opt.Row.InitialCapacity)

	t.Setenv("HYBRIDROW_STORE_PATH", "/var/rows.db")
	opt, err = LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/rows.db", opt.Path)

	require.NoError(t, os.WriteFile(path, []byte("row:\n  log_level: chatty\n"), 0o644))
	_, err = LoadOptions(path)
	assert.Error(t, err)
}
