package stream

// Handle is a unit's stable index in the store arena.
type Handle int

// windowBus delivers window changes to subscribed units, in handle order.
// Subscriptions are indexed by handle so a unit can drop out mid-publish.
type windowBus struct {
	subs []func(Window)
}

func (b *windowBus) subscribe(h Handle, fn func(Window)) {
	for int(h) >= len(b.subs) {
		b.subs = append(b.subs, nil)
	}
	b.subs[h] = fn
}

func (b *windowBus) unsubscribe(h Handle) {
	if int(h) < len(b.subs) {
		b.subs[h] = nil
	}
}

func (b *windowBus) subscribed(h Handle) bool {
	return int(h) < len(b.subs) && b.subs[h] != nil
}

func (b *windowBus) publish(w Window) {
	for i := 0; i < len(b.subs); i++ {
		if fn := b.subs[i]; fn != nil {
			fn(w)
		}
	}
}

// retirement is posted by a unit that left the window.
type retirement struct {
	segment SegmentCoord
	handle  Handle
}

// mailbox queues retirements until the store applies them.
type mailbox struct {
	queue []retirement
}

func (m *mailbox) post(r retirement) {
	m.queue = append(m.queue, r)
}

func (m *mailbox) drain() []retirement {
	q := m.queue
	m.queue = nil
	return q
}

// pendingRender is an initial render scheduled at bind time.
type pendingRender struct {
	handle  Handle
	segment SegmentCoord
}
