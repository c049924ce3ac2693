package store

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/serene/internal/models"
	"github.com/ayoisaiah/serene/internal/timeutil"
)

// SaveRecord stores rec keyed by its start time. A record with the same start
// time is overwritten.
func (c *Client) SaveRecord(rec *models.Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).
			Put(timeutil.ToKey(rec.StartTime), value)
	})
}

// Records returns the records that started within [start, end], oldest first.
// A zero end means no upper bound. When kinds is non-empty only records of
// those kinds are returned.
func (c *Client) Records(
	start, end time.Time,
	kinds ...models.RecordKind,
) ([]models.Record, error) {
	var records []models.Record

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(historyBucket)).Cursor()

		minKey := timeutil.ToKey(start)

		var maxKey []byte
		if !end.IsZero() {
			maxKey = timeutil.ToKey(end)
		}

		for k, v := cur.Seek(minKey); k != nil; k, v = cur.Next() {
			if maxKey != nil && bytes.Compare(k, maxKey) > 0 {
				break
			}

			var rec models.Record

			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			if len(kinds) > 0 && !slices.Contains(kinds, rec.Kind) {
				continue
			}

			records = append(records, rec)
		}

		return nil
	})

	return records, err
}

// DeleteRecords removes the given records.
func (c *Client) DeleteRecords(records []models.Record) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(historyBucket))

		for i := range records {
			if err := b.Delete(timeutil.ToKey(records[i].StartTime)); err != nil {
				return err
			}
		}

		return nil
	})
}
