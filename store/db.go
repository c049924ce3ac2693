package store

import (
	"time"

	"github.com/ayoisaiah/serene/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// Get returns the session value stored under key
	Get(key string) (string, bool, error)
	// Set stores a session value
	Set(key, value string) error
	// Remove deletes session values
	Remove(keys ...string) error
	// Consent returns the recorded permission decision for a sensor
	Consent(sensor models.Sensor) (models.PermissionStatus, error)
	// SetConsent records a permission decision
	SetConsent(sensor models.Sensor, status models.PermissionStatus) error
	// ResetConsent forgets all permission decisions
	ResetConsent() error
	// SaveRecord stores a history record. The record is created if it
	// doesn't exist already, or overwritten if it does.
	SaveRecord(rec *models.Record) error
	// Records returns saved records according to the time and kind
	// constraints
	Records(start, end time.Time, kinds ...models.RecordKind) ([]models.Record, error)
	// DeleteRecords deletes one or more saved records
	DeleteRecords(records []models.Record) error
	// Close ends the database connection
	Close() error
}

var _ DB = (*Client)(nil)
