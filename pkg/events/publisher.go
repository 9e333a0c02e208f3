package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// OrderCreated announces one newly ingested order to downstream consumers
type OrderCreated struct {
	AccountID   string `json:"account_id"`
	OrderID     string `json:"order_id"`
	VendorID    string `json:"vendor_id"`
	OrderNumber string `json:"order_number"`
	ItemCount   int    `json:"item_count"`
}

// Publisher pushes pipeline events to a Pub/Sub topic. A nil Publisher is
// valid and drops events, so callers never branch on whether eventing is
// configured.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPublisher creates a publisher for the given project and topic
func NewPublisher(ctx context.Context, projectID, topicName, credentialsFile string) (*Publisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking topic existence: %v", err)
	} else if !exists {
		log.Printf("[PubSub] Topic %s does not exist, events will fail until it is created", topicName)
	}

	return &Publisher{client: client, topic: topic}, nil
}

// PublishOrderCreated sends one order.created event. Safe on a nil receiver.
func (p *Publisher) PublishOrderCreated(ctx context.Context, event OrderCreated) error {
	if p == nil || p.topic == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %v", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event": "order.created"},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish order event: %v", err)
	}

	log.Printf("[PubSub] Published order.created for order %s (%s)", event.OrderID, event.OrderNumber)
	return nil
}

// Close stops the topic's publish goroutines and releases the client
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		log.Printf("[PubSub] Error closing client: %v", err)
	}
}
