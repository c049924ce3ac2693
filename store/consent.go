package store

import (
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/serene/internal/models"
)

// Consent returns the recorded decision for sensor, or models.Prompt when the
// user has not been asked yet.
func (c *Client) Consent(sensor models.Sensor) (models.PermissionStatus, error) {
	status := models.Prompt

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(consentBucket)).Get([]byte(sensor))

		if s := models.PermissionStatus(v); s.Valid() {
			status = s
		}

		return nil
	})

	return status, err
}

// SetConsent records the user's decision for sensor.
func (c *Client) SetConsent(
	sensor models.Sensor,
	status models.PermissionStatus,
) error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(consentBucket)).
			Put([]byte(sensor), []byte(status))
	})
}

// ResetConsent forgets every recorded decision.
func (c *Client) ResetConsent() error {
	return c.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(consentBucket)); err != nil {
			return err
		}

		_, err := tx.CreateBucket([]byte(consentBucket))

		return err
	})
}
