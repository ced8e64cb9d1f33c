package leads

import (
	"context"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

const defaultPublishTimeout = 10 * time.Second

// PubSubPublisher adapts a Pub/Sub topic publisher to the event publisher
// the lead service expects. Publish blocks until the server acks the message
// so a failure surfaces to the best-effort logging path.
type PubSubPublisher struct {
	publisher *gcppubsub.Publisher
}

// NewPubSubPublisher wraps the topic publisher.
func NewPubSubPublisher(publisher *gcppubsub.Publisher) *PubSubPublisher {
	return &PubSubPublisher{publisher: publisher}
}

func (p *PubSubPublisher) Publish(ctx context.Context, data []byte) error {
	if p == nil || p.publisher == nil {
		return errors.New("publisher not configured")
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	result := p.publisher.Publish(publishCtx, &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": EventLeadCreated,
		},
	})
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	_, err := result.Get(publishCtx)
	return err
}
