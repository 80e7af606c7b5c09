// Package messaging provides broker-agnostic publishing used to announce
// assistant activity to the rest of the stack.
package messaging

import (
	"context"
	"time"
)

// Message represents a message sent to a message broker.
type Message struct {
	// Subject is the topic the message is published to.
	Subject string

	// Data is the raw message payload.
	Data []byte

	// Metadata contains optional key-value pairs sent as headers.
	Metadata map[string]string

	// Timestamp is when the message was produced.
	Timestamp time.Time
}

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish sends data to subject, fire-and-forget.
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishMsg sends a Message with headers.
	PublishMsg(ctx context.Context, msg *Message) error

	// Close releases any resources held by the publisher.
	Close() error
}
