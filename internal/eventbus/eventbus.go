// Package eventbus carries prediction and validation events from request
// handlers to asynchronous consumers such as metrics collectors and the MQTT
// forwarder. Delivery is best effort: a slow subscriber loses events instead
// of delaying a prediction.
package eventbus

// Event represents an arbitrary event passed on the bus.
type Event interface{}

// EventBus implements a simple publish/subscribe event bus.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// DefaultBuffer is the per-subscriber channel capacity used by New.
const DefaultBuffer = 64

// Bus is the default EventBus implementation using fan-out channels.
type Bus = TypedBus[Event]

// New creates a new Bus with DefaultBuffer capacity per subscriber.
func New() *Bus { return NewTyped[Event](DefaultBuffer) }
