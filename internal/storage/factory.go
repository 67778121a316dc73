package storage

import (
	"context"
	"fmt"
)

// Open constructs the Reader selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Reader, error) {
	switch cfg.Driver {
	case DriverFilesystem, "":
		return NewFS(cfg.Root)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
