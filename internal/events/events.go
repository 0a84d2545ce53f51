// Package events defines the ledger's outbound notifications.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Topics
const (
	TopicTransactionRecorded = "ledger.transaction_recorded"
	TopicInconsistency       = "ledger.inconsistency"
)

// Publisher sends an event to a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// TransactionRecorded is emitted after a transaction is stored and its
// balance effect applied.
type TransactionRecorded struct {
	OccurredAt    time.Time       `json:"occurred_at"`
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Direction     string          `json:"direction"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// InconsistencyDetected is emitted when a transaction was stored but its
// balance effect could not be applied.
type InconsistencyDetected struct {
	OccurredAt    time.Time       `json:"occurred_at"`
	Condition     string          `json:"condition"`
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Error         string          `json:"error"`
	Delta         decimal.Decimal `json:"delta"`
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }

// Message is a published event captured by Recorder
type Message struct {
	Event any
	Topic string
	Key   string
}

// Recorder keeps published events in memory
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	// Err, when set, is returned from every Publish.
	Err error
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Message{Event: event, Topic: topic, Key: key})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns the events published to topic, oldest first
func (r *Recorder) Messages(topic string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}
