package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEvent     = errors.New("invalid event")
	ErrMissingCreatorID = errors.New("missing creator id")
	ErrTableParse       = errors.New("table parse failed")
	ErrActiveHoldsQuery = errors.New("active holds query failed")
)

type InvalidEventError struct {
	Field   string
	Message string
}

func (e *InvalidEventError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid event message parameters: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid event message parameters: %s", e.Message)
}

func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEvent
}

type MissingCreatorIDError struct {
	Bucket string
	Key    string
}

func (e *MissingCreatorIDError) Error() string {
	return fmt.Sprintf("object %s/%s did not have creator_id, it might not be uploaded from OA", e.Bucket, e.Key)
}

func (e *MissingCreatorIDError) Is(target error) bool {
	return target == ErrMissingCreatorID
}

type TableParseError struct {
	Line    int
	Message string
	Err     error
}

func (e *TableParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse vendor table at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("parse vendor table: %s", e.Message)
}

func (e *TableParseError) Unwrap() error {
	return e.Err
}

func (e *TableParseError) Is(target error) bool {
	return target == ErrTableParse
}

// ActiveHoldsQueryError carries the raw service answer when the bulk lookup fails.
type ActiveHoldsQueryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ActiveHoldsQueryError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("failed to get active holds for vendor (status %d): %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("failed to get active holds for vendor: %v", e.Err)
	default:
		return fmt.Sprintf("failed to get active holds for vendor (status %d): %s", e.StatusCode, e.Body)
	}
}

func (e *ActiveHoldsQueryError) Unwrap() error {
	return e.Err
}

func (e *ActiveHoldsQueryError) Is(target error) bool {
	return target == ErrActiveHoldsQuery
}

// IsTerminal reports whether err ends an invocation quietly: logged, never surfaced
// to the invoking platform.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrMissingCreatorID) ||
		errors.Is(err, ErrTableParse) ||
		errors.Is(err, ErrActiveHoldsQuery)
}
