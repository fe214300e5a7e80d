package core

import (
	"sort"
	"sync"
)

// broker is the callback registry behind Manager.Subscribe.
type broker struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

func newBroker() *broker {
	return &broker{subs: make(map[int]func(Event))}
}

func (b *broker) subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// publish calls every subscriber in registration order, outside the lock so
// subscribers may (un)subscribe from within a callback.
func (b *broker) publish(e Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (b *broker) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
