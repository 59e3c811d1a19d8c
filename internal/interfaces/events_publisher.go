package interfaces

// EventPublisher receives an immutable record after a state transition
// commits. Delivery is fire-and-forget from the ledger's point of view.
type EventPublisher interface {
	Publish(topic string, event any) error
}
