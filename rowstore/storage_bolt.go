package rowstore

import (
	"unsafe"

	"go.etcd.io/bbolt"
)

type boltStorage struct {
	bdb *bbolt.DB
}

func newBoltStorage(bdb *bbolt.DB) storage {
	return &boltStorage{bdb: bdb}
}

func (s *boltStorage) BeginTx(writable bool) (storageTx, error) {
	btx, err := s.bdb.Begin(writable)
	if err != nil {
		return nil, err
	}
	return &boltStorageTx{btx: btx}, nil
}

func (s *boltStorage) Close() error {
	return s.bdb.Close()
}

type boltStorageTx struct {
	btx *bbolt.Tx
}

func (tx *boltStorageTx) Writable() bool { return tx.btx.Writable() }

func (tx *boltStorageTx) Bucket(name string) storageBucket {
	b := tx.btx.Bucket(unsafeBytesFromString(name))
	if b == nil {
		return nil
	}
	return boltBucket{b: b}
}

func (tx *boltStorageTx) CreateBucket(name string) (storageBucket, error) {
	b, err := tx.btx.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return nil, err
	}
	return boltBucket{b: b}, nil
}

func (tx *boltStorageTx) Commit() error { return tx.btx.Commit() }

func (tx *boltStorageTx) Rollback() error {
	err := tx.btx.Rollback()
	if err == bbolt.ErrTxClosed {
		return nil
	}
	return err
}

func (tx *boltStorageTx) Size() int64 { return tx.btx.Size() }

type boltBucket struct {
	b *bbolt.Bucket
}

func (b boltBucket) Get(key []byte) []byte { return b.b.Get(key) }

func (b boltBucket) Put(key, value []byte) error { return b.b.Put(key, value) }

func (b boltBucket) Delete(key []byte) error { return b.b.Delete(key) }

func (b boltBucket) Cursor() storageCursor { return b.b.Cursor() }

func (b boltBucket) Stats() bucketStats {
	s := b.b.Stats()
	return bucketStats{
		KeyN:        s.KeyN,
		LeafInuse:   int64(s.LeafInuse + s.InlineBucketInuse),
		LeafAlloc:   int64(s.LeafAlloc),
		BranchAlloc: int64(s.BranchAlloc),
	}
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
