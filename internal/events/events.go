// Package events implements the event publisher of spec.md §4.8 (C9):
// per-symbol fan-out of Trade/OrderUpdate/BookDelta/Triggered/Expired
// events to subscribers, each with its own bounded buffer and an explicit
// block-producer or drop-oldest-with-gap-marker policy chosen at
// subscription time. Nothing is ever silently dropped without informing
// that subscriber (spec.md §9: "Source uses try-send with silent loss ...
// replaced ... by an explicit per-subscriber policy plus gap markers").
//
// Grounded on the teacher's internal/worker.go WorkerPool: a bounded
// channel fed by one producer and drained by independent consumers,
// generalized here from "pool of task executors" to "set of event
// subscribers".
package events

import "exchangecore/internal/common"

// Kind tags the payload carried by an Event.
type Kind int

const (
	KindTrade Kind = iota
	KindOrderUpdate
	KindBookDelta
	KindTriggered
	KindExpired
	KindGapMarker
)

// DeltaAction describes what happened to a price level.
type DeltaAction int

const (
	DeltaAdd DeltaAction = iota
	DeltaRemove
	DeltaChange
)

// BookDelta is one price-level change, emitted in the natural order events
// for a single submission occur (spec.md §4.8).
type BookDelta struct {
	Symbol             string
	IsBid              bool
	Price              int64
	AggregateDisplayQty int64
	Action             DeltaAction
	EngineSeq          uint64
}

// OrderUpdate reports a status/fill change on an order.
type OrderUpdate struct {
	OrderID   string
	Symbol    string
	Status    common.Status
	FilledQty int64
	EngineSeq uint64
}

// Triggered reports a stop order firing.
type Triggered struct {
	OrderID   string
	Symbol    string
	EngineSeq uint64
}

// Expired reports a GTD order reaching its expiry.
type Expired struct {
	OrderID   string
	Symbol    string
	EngineSeq uint64
}

// Event is the envelope delivered to subscribers. Exactly one of the
// payload fields is populated, selected by Kind.
type Event struct {
	Kind        Kind
	Trade       *common.Trade
	OrderUpdate *OrderUpdate
	BookDelta   *BookDelta
	Triggered   *Triggered
	Expired     *Expired
	Gap         int // number of events dropped, set only on KindGapMarker
}

// Policy selects what happens when a subscriber's buffer is full.
type Policy int

const (
	// BlockProducer makes the publisher wait for buffer space. This is a
	// suspension point for the single-writer engine (spec.md §5).
	BlockProducer Policy = iota
	// DropOldestWithGapMarker evicts the oldest buffered event to make
	// room, and injects a KindGapMarker event carrying the drop count at the
	// first delivery after which the buffer still has room, so the
	// subscriber can detect the gap.
	DropOldestWithGapMarker
)

// Subscriber is one registered consumer of a symbol's event stream.
type Subscriber struct {
	ch     chan Event
	policy Policy
	gap    int // pending drop count not yet surfaced as a GapMarker
}

// Chan exposes the subscriber's receive-only channel.
func (s *Subscriber) Chan() <-chan Event { return s.ch }

// Publisher fans out events for one symbol to its subscribers.
type Publisher struct {
	symbol      string
	subscribers []*Subscriber
}

func NewPublisher(symbol string) *Publisher {
	return &Publisher{symbol: symbol}
}

// Subscribe registers a new subscriber with the given buffer size and
// overflow policy, returning the handle the caller reads events from.
func (p *Publisher) Subscribe(bufferSize int, policy Policy) *Subscriber {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	sub := &Subscriber{ch: make(chan Event, bufferSize), policy: policy}
	p.subscribers = append(p.subscribers, sub)
	return sub
}

// Unsubscribe removes a subscriber; its channel is closed so the consumer's
// range loop terminates.
func (p *Publisher) Unsubscribe(sub *Subscriber) {
	for i, s := range p.subscribers {
		if s == sub {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(s.ch)
			return
		}
	}
}

// Publish delivers ev to every subscriber according to each one's policy.
// Under BlockProducer this can suspend the calling goroutine (spec.md §5
// suspension point b); under DropOldestWithGapMarker it never blocks.
func (p *Publisher) Publish(ev Event) {
	for _, sub := range p.subscribers {
		p.deliver(sub, ev)
	}
}

func (p *Publisher) deliver(sub *Subscriber, ev Event) {
	switch sub.policy {
	case BlockProducer:
		sub.ch <- ev
	case DropOldestWithGapMarker:
		for {
			select {
			case sub.ch <- ev:
				p.flushGap(sub)
				return
			default:
			}
			select {
			case <-sub.ch:
				sub.gap++
			default:
				// Buffer drained concurrently; retry the send.
			}
		}
	}
}

// flushGap attempts to surface a pending gap marker once buffer space
// opens up; if it can't fit, the gap count simply grows and is reported
// the next time space is available.
func (p *Publisher) flushGap(sub *Subscriber) {
	if sub.gap == 0 {
		return
	}
	select {
	case sub.ch <- Event{Kind: KindGapMarker, Gap: sub.gap}:
		sub.gap = 0
	default:
	}
}

func (p *Publisher) SubscriberCount() int { return len(p.subscribers) }
