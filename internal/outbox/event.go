// Package outbox implements the transactional outbox: scheduling commands
// append events in the same transaction as their state change, and the
// publisher relays them to Kafka. A failed or slow broker never affects the
// originating command.
package outbox

// Event is the domain event envelope written to the outbox table. The Kafka
// topic name equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}
