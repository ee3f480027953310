// Package writer prints notifications instead of publishing them. Local runs
// use it when no topic is configured.
package writer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/payment-holds/internal/ports"
)

type Publisher struct {
	out io.Writer
	mu  sync.Mutex
}

var _ ports.Publisher = (*Publisher)(nil)

func NewPublisher(out io.Writer) *Publisher {
	if out == nil {
		out = io.Discard
	}
	return &Publisher{out: out}
}

func (p *Publisher) Publish(ctx context.Context, notification ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintf(p.out, "Subject: %s\n\n%s\n", notification.Subject, notification.Message); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}
