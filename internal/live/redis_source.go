package live

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"
)

type subscriberClient interface {
	Subscribe(ctx context.Context, channels ...string) (*redislib.PubSub, error)
	ChangeChannel(collection string) string
}

// RedisSource adapts Redis pub/sub into the hub's change stream.
type RedisSource struct {
	client      subscriberClient
	collections []string
}

// NewRedisSource subscribes to the change channels of the provided
// collections.
func NewRedisSource(client subscriberClient, collections ...string) (*RedisSource, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if len(collections) == 0 {
		return nil, fmt.Errorf("at least one collection required")
	}
	return &RedisSource{client: client, collections: collections}, nil
}

// Changes opens the subscription and returns a stream of collection
// names. The stream closes when the context ends or Redis drops the
// subscription.
func (s *RedisSource) Changes(ctx context.Context) (<-chan string, error) {
	channels := make([]string, 0, len(s.collections))
	for _, collection := range s.collections {
		channels = append(channels, s.client.ChangeChannel(collection))
	}

	pubsub, err := s.client.Subscribe(ctx, channels...)
	if err != nil {
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				// Publishers send the collection name as the payload.
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
