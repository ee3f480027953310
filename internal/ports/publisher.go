package ports

import "context"

type Notification struct {
	Subject string
	Message string
}

type Publisher interface {
	Publish(ctx context.Context, notification Notification) error
}
