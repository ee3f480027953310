package ports

import (
	"fmt"

	"github.com/google/uuid"
)

type CorrelationIDSource interface {
	NewCorrelationID() (string, error)
}

// UUIDSource issues time-based (version 1) UUIDs.
type UUIDSource struct{}

func (UUIDSource) NewCorrelationID() (string, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return "", fmt.Errorf("generate correlation id: %w", err)
	}
	return id.String(), nil
}

// StaticID always returns the same id.
type StaticID string

func (s StaticID) NewCorrelationID() (string, error) {
	return string(s), nil
}
