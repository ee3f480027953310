package ports

import (
	"context"
	"encoding/json"
	"fmt"
)

// Request addresses a named internal service; the client resolves the host.
type Request struct {
	Method        string
	Service       string
	Path          string
	CorrelationID string
	Headers       map[string]string
	Body          []byte
}

type Response struct {
	StatusCode int
	Text       string
}

func (r Response) JSON(v any) error {
	if err := json.Unmarshal([]byte(r.Text), v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

type ServiceClient interface {
	Send(ctx context.Context, req Request) (Response, error)
}
