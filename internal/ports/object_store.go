package ports

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore reads uploaded objects. Metadata keys are lower case.
type ObjectStore interface {
	Metadata(ctx context.Context, bucket, key string) (map[string]string, error)
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}
