package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Duration wraps time.Duration for text unmarshaling (YAML, env vars).
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// StorageDriver names an artifact storage backend.
type StorageDriver string

const (
	// DriverFilesystem reads artifacts from a local directory.
	DriverFilesystem StorageDriver = "fs"
	// DriverMemory keeps artifacts in process memory (tests, seeding).
	DriverMemory StorageDriver = "memory"
	// DriverS3 reads artifacts from an S3 compatible bucket.
	DriverS3 StorageDriver = "s3"
)

// Valid reports whether d is a known driver.
func (d StorageDriver) Valid() bool {
	switch d {
	case DriverFilesystem, DriverMemory, DriverS3:
		return true
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler. Driver names are case-insensitive.
func (d *StorageDriver) UnmarshalText(text []byte) error {
	*d = StorageDriver(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}
