package port

import "context"

// Sink stores one serialized book bundle per symbol for later retrieval.
// The payload is opaque to the core.
type Sink interface {
	Publish(ctx context.Context, symbol string, payload []byte) error
}
