package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockProducerDeliversEveryEvent(t *testing.T) {
	p := NewPublisher("TEST")
	sub := p.Subscribe(2, BlockProducer)

	done := make(chan struct{})
	go func() {
		p.Publish(Event{Kind: KindTrade})
		p.Publish(Event{Kind: KindOrderUpdate})
		p.Publish(Event{Kind: KindBookDelta})
		close(done)
	}()

	received := []Kind{}
	for i := 0; i < 3; i++ {
		received = append(received, (<-sub.Chan()).Kind)
	}
	<-done
	assert.Equal(t, []Kind{KindTrade, KindOrderUpdate, KindBookDelta}, received)
}

func TestDropOldestWithGapMarkerNeverBlocks(t *testing.T) {
	p := NewPublisher("TEST")
	sub := p.Subscribe(1, DropOldestWithGapMarker)

	p.Publish(Event{Kind: KindTrade})
	p.Publish(Event{Kind: KindOrderUpdate}) // evicts KindTrade, should not block

	ev := <-sub.Chan()
	assert.Equal(t, KindOrderUpdate, ev.Kind)
}

func TestDropOldestSurfacesGapMarkerOnceSpaceOpens(t *testing.T) {
	p := NewPublisher("TEST")
	sub := p.Subscribe(2, DropOldestWithGapMarker)

	p.Publish(Event{Kind: KindTrade})      // buf=[Trade]
	p.Publish(Event{Kind: KindOrderUpdate}) // buf=[Trade,OrderUpdate], full
	p.Publish(Event{Kind: KindBookDelta})   // evicts Trade (gap=1), buf=[OrderUpdate,BookDelta], full again

	require.Equal(t, KindOrderUpdate, (<-sub.Chan()).Kind)
	require.Equal(t, KindBookDelta, (<-sub.Chan()).Kind)

	// Buffer is now empty with room to spare, so the next publish both
	// delivers and flushes the pending gap marker behind it.
	p.Publish(Event{Kind: KindTriggered})
	assert.Equal(t, KindTriggered, (<-sub.Chan()).Kind)

	ev := <-sub.Chan()
	assert.Equal(t, KindGapMarker, ev.Kind)
	assert.Equal(t, 1, ev.Gap)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	p := NewPublisher("TEST")
	sub := p.Subscribe(1, BlockProducer)
	assert.Equal(t, 1, p.SubscriberCount())

	p.Unsubscribe(sub)
	assert.Equal(t, 0, p.SubscriberCount())

	_, ok := <-sub.Chan()
	assert.False(t, ok)
}
