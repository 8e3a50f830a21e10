package notification

import "context"

// Channel delivers one message to the recipients it was configured with.
type Channel interface {
	Name() string
	Recipients() []string
	Send(ctx context.Context, msg Message) error
}
