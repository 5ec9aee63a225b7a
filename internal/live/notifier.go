package live

import (
	"context"
	"fmt"
)

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	ChangeChannel(collection string) string
}

// Notifier fans collection-change signals out through Redis pub/sub so
// every API instance sees mutations made on any of them.
type Notifier struct {
	client publisher
}

// NewNotifier builds a notifier on top of the shared Redis client.
func NewNotifier(client publisher) (*Notifier, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Notifier{client: client}, nil
}

// Publish announces that the named collection changed. The payload is
// the collection name itself; subscribers reload from the database, so
// no mutation detail travels over the wire.
func (n *Notifier) Publish(ctx context.Context, collection string) error {
	return n.client.Publish(ctx, n.client.ChangeChannel(collection), collection)
}
