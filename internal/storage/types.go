package storage

import (
	"context"
	"errors"
	"io"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
)

var (
	// ErrNotFound is returned when no object exists for a key.
	ErrNotFound = errors.New("object not found")

	// ErrInvalidKey is returned for empty, absolute or traversing keys.
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnknownDriver is returned by Open for an unrecognised driver.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Reader opens stored objects for reading.
type Reader interface {
	// Get opens the object at key. The caller closes the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Driver reports the backend in use.
	Driver() Driver
}

// Config selects and parameterises a driver.
type Config struct {
	Driver Driver

	// Root is the base directory for the fs driver.
	Root string

	S3 S3Config
}
