// Package analytics emits widget usage events.
//
// Delivery is fire and forget: a slow or failing sink logs and drops, it
// never blocks or breaks the widget.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Event is one widget usage event.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Shop      string         `json:"shop,omitempty"`
	Product   string         `json:"product,omitempty"`
	URL       string         `json:"url,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Sink receives events. Emit must not block on delivery.
type Sink interface {
	Emit(event Event)
}

// Emitter stamps and forwards events to a sink.
type Emitter struct {
	sink    Sink
	shop    string
	product string
	url     string
	now     func() time.Time
}

// Option customizes an Emitter.
type Option func(*Emitter)

// WithClock overrides the timestamp source. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) { e.now = now }
}

// NewEmitter builds an emitter bound to one page context. A nil sink yields
// an emitter that silently drops events, which keeps call sites free of
// conditionals when analytics is disabled.
func NewEmitter(sink Sink, shop, product, url string, opts ...Option) *Emitter {
	e := &Emitter{
		sink:    sink,
		shop:    shop,
		product: product,
		url:     url,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit forwards one event. Safe on a nil emitter or nil sink.
func (e *Emitter) Emit(eventType string, attrs map[string]any) {
	if e == nil || e.sink == nil || eventType == "" {
		return
	}
	e.sink.Emit(Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Shop:      e.shop,
		Product:   e.product,
		URL:       e.url,
		Timestamp: e.now(),
		Attrs:     attrs,
	})
}
