package store

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ayoisaiah/serene/internal/timeutil"
)

const (
	keySchemaVersion = "schema_version"
	schemaVersion    = 2
)

// migrateHistoryKeys rewrites history keys that were stored as RFC3339
// strings into fixed width UTC keys so that range scans stay ordered.
func migrateHistoryKeys(tx *bbolt.Tx) error {
	bucket := tx.Bucket([]byte(historyBucket))

	type record struct {
		StartTime time.Time `json:"start_time"`
	}

	var pending []string

	moved := make(map[string][]byte)

	err := bucket.ForEach(func(k, v []byte) error {
		var r record

		if err := json.Unmarshal(v, &r); err != nil {
			return err
		}

		newKey := timeutil.ToKey(r.StartTime)
		if !bytes.Equal(newKey, k) {
			pending = append(pending, string(k))
			moved[string(newKey)] = bytes.Clone(v)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// bbolt forbids mutating a bucket during ForEach.
	for _, oldKey := range pending {
		if err := bucket.Delete([]byte(oldKey)); err != nil {
			return err
		}
	}

	for newKey, v := range moved {
		if err := bucket.Put([]byte(newKey), v); err != nil {
			return err
		}
	}

	return nil
}

func readSchemaVersion(tx *bbolt.Tx) int {
	v := tx.Bucket([]byte(metaBucket)).Get([]byte(keySchemaVersion))

	n, err := strconv.Atoi(string(v))
	if err != nil {
		return 1
	}

	return n
}

func migrate(tx *bbolt.Tx) error {
	if readSchemaVersion(tx) >= schemaVersion {
		return nil
	}

	if err := migrateHistoryKeys(tx); err != nil {
		return err
	}

	return tx.Bucket([]byte(metaBucket)).Put(
		[]byte(keySchemaVersion),
		[]byte(strconv.Itoa(schemaVersion)),
	)
}
