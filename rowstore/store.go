// Package rowstore persists HybridRow rows in a key-value store (Bolt, or
// memory for tests) together with the namespace that describes them.
package rowstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.etcd.io/bbolt"
	"golang.org/x/sync/errgroup"

	hybridrow "github.com/microsoft/HybridRow-sub002"
)

const (
	metaBucket = "meta"
	rowsBucket = "rows"

	namespaceKey   = "namespace"
	fingerprintKey = "fingerprint"

	// rowPrefixSize is the layout fingerprint stored in front of each row.
	rowPrefixSize = 8
)

// Store holds rows keyed by arbitrary byte keys. It is safe for concurrent
// use; RowBuffers it returns are owned by the caller.
type Store struct {
	st     storage
	ns     *hybridrow.Namespace
	opt    Options
	logger *slog.Logger
}

// Open opens (creating if needed) a Bolt-backed store at opt.Path. If ns is
// nil, the namespace persisted in the store is used; otherwise ns must match
// the persisted one, or is persisted if the store is new.
func Open(ns *hybridrow.Namespace, opt Options) (*Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}
	bdb, err := bbolt.Open(opt.Path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("rowstore: %w", err)
	}
	s, err := open(newBoltStorage(bdb), ns, opt)
	if err != nil {
		bdb.Close()
		return nil, err
	}
	s.logger.Debug("rowstore: opened", "path", opt.Path, "schemas", len(s.ns.Layouts()))
	return s, nil
}

// OpenMemory returns a transient in-memory store.
func OpenMemory(ns *hybridrow.Namespace, opt Options) (*Store, error) {
	return open(newMemStorage(), ns, opt)
}

func open(st storage, ns *hybridrow.Namespace, opt Options) (*Store, error) {
	if opt.Parallelism <= 0 {
		opt.Parallelism = defaultParallelism
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{st: st, opt: opt, logger: logger}
	err := s.write(func(tx storageTx) error {
		meta, err := tx.CreateBucket(metaBucket)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucket(rowsBucket); err != nil {
			return err
		}
		stored := meta.Get([]byte(fingerprintKey))
		switch {
		case ns == nil && stored == nil:
			return ErrNoNamespace
		case ns == nil:
			ns, err = hybridrow.DecodeNamespace(slices.Clone(meta.Get([]byte(namespaceKey))))
			if err != nil {
				return &StoreError{Msg: "loading namespace", Err: err}
			}
		case stored == nil:
			if err := ns.Check(); err != nil {
				return err
			}
			if err := meta.Put([]byte(namespaceKey), hybridrow.EncodeNamespace(ns)); err != nil {
				return err
			}
			if err := meta.Put([]byte(fingerprintKey), binary.LittleEndian.AppendUint64(nil, ns.Fingerprint())); err != nil {
				return err
			}
		default:
			if len(stored) != 8 || binary.LittleEndian.Uint64(stored) != ns.Fingerprint() {
				logger.Warn("rowstore: namespace mismatch", "namespace", ns.Name(), hybridrow.HexAttr("stored", stored))
				return ErrNamespaceMismatch
			}
		}
		return nil
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("rowstore: open: %w", err)
	}
	s.ns = ns
	return s, nil
}

func (s *Store) Namespace() *hybridrow.Namespace { return s.ns }

func (s *Store) Close() error {
	return s.st.Close()
}

func (s *Store) write(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) read(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

// Put stores the row under key, replacing any previous row.
func (s *Store) Put(key []byte, row *hybridrow.RowBuffer) error {
	layout := row.Layout()
	if l, ok := s.ns.Resolve(layout.SchemaID()); !ok || l.Fingerprint() != layout.Fingerprint() {
		return &StoreError{Schema: layout.Name(), Key: key, Msg: "layout is not part of the store namespace", Err: ErrNamespaceMismatch}
	}
	value := make([]byte, rowPrefixSize, rowPrefixSize+row.Len())
	binary.LittleEndian.PutUint64(value, layout.Fingerprint())
	value = append(value, row.Bytes()...)
	return s.write(func(tx storageTx) error {
		return tx.Bucket(rowsBucket).Put(key, value)
	})
}

// Get loads the row stored under key, or fails with ErrNotFound.
func (s *Store) Get(key []byte) (*hybridrow.RowBuffer, error) {
	var data []byte
	err := s.read(func(tx storageTx) error {
		v := tx.Bucket(rowsBucket).Get(key)
		if v == nil {
			return ErrNotFound
		}
		data = slices.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.decodeRow(key, data)
}

func (s *Store) decodeRow(key, data []byte) (*hybridrow.RowBuffer, error) {
	if len(data) < rowPrefixSize {
		return nil, &StoreError{Key: key, Msg: "truncated value"}
	}
	row := hybridrow.NewRowBuffer(s.opt.Row)
	if err := row.ReadFrom(data[rowPrefixSize:], s.ns); err != nil {
		return nil, &StoreError{Key: key, Msg: "decoding row", Err: err}
	}
	layout := row.Layout()
	if binary.LittleEndian.Uint64(data) != layout.Fingerprint() {
		return nil, &StoreError{Schema: layout.Name(), Key: key, Msg: "row was written with a different layout", Err: ErrNamespaceMismatch}
	}
	if s.opt.Verify {
		if err := row.Validate(); err != nil {
			return nil, &StoreError{Schema: layout.Name(), Key: key, Msg: "invalid row", Err: err}
		}
	}
	return row, nil
}

// Delete removes the row under key. Deleting a missing row is not an error.
func (s *Store) Delete(key []byte) error {
	return s.write(func(tx storageTx) error {
		return tx.Bucket(rowsBucket).Delete(key)
	})
}

// Scan calls fn for every row with key >= from, in key order, until fn
// returns false.
func (s *Store) Scan(from []byte, fn func(key []byte, row *hybridrow.RowBuffer) bool) error {
	return s.read(func(tx storageTx) error {
		c := tx.Bucket(rowsBucket).Cursor()
		var k, v []byte
		if from == nil {
			k, v = c.First()
		} else {
			k, v = c.Seek(from)
		}
		for ; k != nil; k, v = c.Next() {
			key := slices.Clone(k)
			row, err := s.decodeRow(key, slices.Clone(v))
			if err != nil {
				return err
			}
			if !fn(key, row) {
				return nil
			}
		}
		return nil
	})
}

// ReadMany loads keys in parallel and calls fn for each row as it arrives.
// fn may be called concurrently. The first error cancels the rest.
func (s *Store) ReadMany(ctx context.Context, keys [][]byte, fn func(key []byte, row *hybridrow.RowBuffer) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opt.Parallelism)
	for _, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := s.Get(key)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					s.logger.Error("rowstore: bulk read failed", hybridrow.HexAttr("key", key), "err", err)
				}
				return fmt.Errorf("rowstore: %x: %w", key, err)
			}
			return fn(key, row)
		})
	}
	return g.Wait()
}

type Stats struct {
	Rows      int
	DataSize  int64
	DataAlloc int64
	FileSize  int64
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.read(func(tx storageTx) error {
		bs := tx.Bucket(rowsBucket).Stats()
		st = Stats{
			Rows:      bs.KeyN,
			DataSize:  bs.LeafInuse,
			DataAlloc: bs.TotalAlloc(),
			FileSize:  tx.Size(),
		}
		return nil
	})
	return st, err
}
