// Package store connects to the data store and manages the session flags,
// sensor consent decisions and activity history
package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/serene/internal/apperr"
	"github.com/ayoisaiah/serene/internal/osutil"
)

const (
	sessionBucket = "session"
	consentBucket = "permissions"
	historyBucket = "history"
	metaBucket    = "meta"
)

var (
	errAlreadyRunning = &apperr.Error{
		Message: "is Serene already running? Only one instance can access the database at a time",
	}

	errOpenDB = &apperr.Error{
		Message: "unable to open database",
	}
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	if err := os.MkdirAll(filepath.Dir(pathToDB), osutil.DirPermission); err != nil {
		return nil, errOpenDB.Wrap(err)
	}

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, errOpenDB.Wrap(err)
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection with every bucket
// created and pending migrations applied.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{
			sessionBucket,
			consentBucket,
			historyBucket,
			metaBucket,
		} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return migrate(tx)
	})
	if err != nil {
		_ = db.Close()
		return nil, errOpenDB.Wrap(err)
	}

	return &Client{
		db,
	}, nil
}
