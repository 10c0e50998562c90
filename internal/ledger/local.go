package ledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const ledgerBucket = "ledger"

// Local keeps the ledger in a bbolt file, one key per row in append order.
// It has the same header-then-append contract as Sheets and is meant for development.
type Local struct {
	db *bbolt.DB
}

// NewLocal opens (or creates) the ledger file
func NewLocal(path string) (*Local, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: opening boltdb: %w", ErrConnection, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(ledgerBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating bucket: %w", ErrConnection, err)
	}

	return &Local{db: db}, nil
}

// Append writes the header when the ledger is empty, then the row, in one transaction
func (l *Local) Append(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	err := l.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if k, _ := bucket.Cursor().First(); k == nil {
			if err := putRow(bucket, Header); err != nil {
				return fmt.Errorf("writing header row: %w", err)
			}
		}
		return putRow(bucket, row.Cells())
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Rows returns every row including the header, in append order
func (l *Local) Rows() ([][]string, error) {
	rows := make([][]string, 0)
	err := l.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		return bucket.ForEach(func(k, v []byte) error {
			var cells []string
			if err := json.Unmarshal(v, &cells); err != nil {
				return fmt.Errorf("unmarshaling row: %w", err)
			}
			rows = append(rows, cells)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close closes the database
func (l *Local) Close() error {
	return l.db.Close()
}

func putRow(bucket *bbolt.Bucket, cells []string) error {
	seq, err := bucket.NextSequence()
	if err != nil {
		return err
	}
	data, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("marshaling row: %w", err)
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return bucket.Put(key, data)
}
