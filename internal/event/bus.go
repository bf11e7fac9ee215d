// Package event provides the in-process publish/subscribe bus that connects
// round components without direct references.
//
// Delivery is synchronous and depth-first: Publish returns only after every
// subscriber of the topic has handled the event, including any events those
// subscribers published in turn.
package event

// Topic identifies a family of events on the bus.
type Topic string

// Event is implemented by every message carried on the bus.
type Event interface {
	Topic() Topic
}

// Handler processes a single event.
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
	active  bool
}

// Bus dispatches events to subscribers in subscription order.
// It is not safe for concurrent use; one bus belongs to one round session.
type Bus struct {
	handlers map[Topic][]*subscriber
	nextID   uint64
	depth    int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Topic][]*subscriber),
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus   *Bus
	topic Topic
	sub   *subscriber
}

// Cancel stops delivery to the subscriber. Safe to call more than once and
// from inside a handler; a cancelled subscriber is skipped even if the
// current publish has not reached it yet.
func (s Subscription) Cancel() {
	if s.bus == nil || s.sub == nil || !s.sub.active {
		return
	}
	s.sub.active = false

	subs := s.bus.handlers[s.topic]
	for i, sub := range subs {
		if sub.id == s.sub.id {
			// Copy instead of in-place removal: a publish in progress may be
			// iterating the old slice.
			next := make([]*subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			s.bus.handlers[s.topic] = next
			break
		}
	}
}

// Active reports whether the subscription still receives events.
func (s Subscription) Active() bool {
	return s.sub != nil && s.sub.active
}

// SubscribeTopic registers a handler for a raw topic.
func (b *Bus) SubscribeTopic(topic Topic, h Handler) Subscription {
	b.nextID++
	sub := &subscriber{id: b.nextID, handler: h, active: true}
	b.handlers[topic] = append(b.handlers[topic], sub)
	return Subscription{bus: b, topic: topic, sub: sub}
}

// Publish delivers the event to every active subscriber of its topic.
func (b *Bus) Publish(e Event) {
	if b == nil || e == nil {
		return
	}
	subs := b.handlers[e.Topic()]
	if len(subs) == 0 {
		return
	}

	b.depth++
	defer func() { b.depth-- }()

	for _, sub := range subs {
		if !sub.active {
			continue
		}
		sub.handler(e)
	}
}

// Depth returns the current publish nesting depth (0 outside of dispatch).
func (b *Bus) Depth() int {
	return b.depth
}

// HandlerCount returns the number of active subscribers for a topic.
func (b *Bus) HandlerCount(topic Topic) int {
	return len(b.handlers[topic])
}

// Subscribe registers a typed handler. The topic is taken from the zero
// value of E, so every event type must return a constant topic.
func Subscribe[E Event](b *Bus, fn func(E)) Subscription {
	var zero E
	return b.SubscribeTopic(zero.Topic(), func(e Event) {
		if typed, ok := e.(E); ok {
			fn(typed)
		}
	})
}

// Group collects subscriptions so a component can release them together.
type Group struct {
	subs []Subscription
}

// Add appends subscriptions to the group.
func (g *Group) Add(subs ...Subscription) {
	g.subs = append(g.subs, subs...)
}

// Cancel cancels every subscription in the group.
func (g *Group) Cancel() {
	for _, s := range g.subs {
		s.Cancel()
	}
	g.subs = nil
}

// Len returns the number of subscriptions held.
func (g *Group) Len() int {
	return len(g.subs)
}
