package store

import (
	bolt "go.etcd.io/bbolt"
)

// Keys persisted for the login session.
const (
	KeyUserName   = "userName"
	KeyIsLoggedIn = "isLoggedIn"
)

// Get returns the value stored under key. A missing key yields an empty
// string and false.
func (c *Client) Get(key string) (string, bool, error) {
	var (
		val   string
		found bool
	)

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket)).Get([]byte(key))
		if b == nil {
			return nil
		}

		val, found = string(b), true

		return nil
	})

	return val, found, err
}

// Set stores value under key, overwriting any previous value.
func (c *Client) Set(key, value string) error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(key), []byte(value))
	})
}

// Remove deletes the given keys in a single transaction.
func (c *Client) Remove(keys ...string) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}

		return nil
	})
}
