// Package memory provides a collecting event publisher for tests and
// single-process runs.
package memory

import (
	"sync"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
)

// Published is one recorded event.
type Published struct {
	Topic string
	Event any
}

// Publisher records events in order of publication.
type Publisher struct {
	mu        sync.Mutex
	published []Published
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, Published{Topic: topic, Event: event})
	return nil
}

// Events returns a copy of everything published so far.
func (p *Publisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.published))
	copy(out, p.published)
	return out
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
