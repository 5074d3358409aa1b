package mqtt

import "context"

// Publisher delivers payloads to a broker topic.
type Publisher interface {
	// Publish sends payload to topic, retrying transient failures until the
	// configured attempts are exhausted or ctx is done.
	Publish(ctx context.Context, topic string, payload []byte) error
}
