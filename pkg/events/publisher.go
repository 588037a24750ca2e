// Package events contains the publisher that fans out gate transitions to
// Google Cloud Pub/Sub for downstream consumers (notifications, analytics).
package events

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"
	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/dgca/paywalled-blog/pkg/access"
)

// TransitionMessage is the JSON payload published for each gate transition
type TransitionMessage struct {
	Account    string `json:"account"`
	ContentID  uint64 `json:"contentId"`
	Slug       string `json:"slug"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
	Reason     string `json:"reason,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// NewPublisher creates a Publisher for the given project and topic
func NewPublisher(ctx context.Context, projectID string, topicName string) (*Publisher, error) {
	if projectID == "" || topicName == "" {
		return nil, errors.New("Need both a project ID and a topic name")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "Error creating pubsub client")
	}
	return &Publisher{
		client: client,
		topic:  client.Topic(topicName),
	}, nil
}

// Publisher publishes gate transitions to a pubsub topic. Publish failures
// are logged, never propagated into the access decision.
type Publisher struct {
	client *pubsub.Client

	topic *pubsub.Topic
}

// HandleTransition is the gate subscriber that publishes the transition.
// Register it via gate.Subscribe.
func (p *Publisher) HandleTransition(t access.Transition) {
	message := &TransitionMessage{
		Account:    t.Account.Hex(),
		ContentID:  t.Content.ID(),
		Slug:       t.Content.Slug(),
		FromStatus: t.From.Status.String(),
		ToStatus:   t.To.Status.String(),
		Reason:     string(t.To.Reason),
		Timestamp:  t.Ts,
	}
	data, err := json.Marshal(message)
	if err != nil {
		log.Errorf("Error marshaling transition message: err: %v", err)
		return
	}
	result := p.topic.Publish(context.Background(), &pubsub.Message{Data: data})
	go func() {
		_, err := result.Get(context.Background())
		if err != nil {
			log.Errorf("Error publishing transition message: err: %v", err)
		}
	}()
}

// Close stops the topic's publish goroutines and closes the client
func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
