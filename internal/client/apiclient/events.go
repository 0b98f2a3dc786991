package apiclient

import (
	"sync"

	"github.com/dmitrijs2005/pulse/internal/client/models"
)

type EventKind int

const (
	// EventTokensRefreshed carries the pair issued by /auth/refresh.
	EventTokensRefreshed EventKind = iota + 1
	// EventSessionInvalidated is emitted once per failed refresh; Err holds the cause.
	EventSessionInvalidated
)

func (k EventKind) String() string {
	switch k {
	case EventTokensRefreshed:
		return "tokens_refreshed"
	case EventSessionInvalidated:
		return "session_invalidated"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind   EventKind
	Tokens models.TokenPair
	Err    error
}

type subscription struct {
	fn func(Event)
}

type eventBus struct {
	mu   sync.Mutex
	subs []*subscription
}

func (b *eventBus) subscribe(fn func(Event)) func() {
	s := &subscription{fn: fn}

	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, cur := range b.subs {
				if cur == s {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// emit calls subscribers in registration order on the caller's goroutine.
func (b *eventBus) emit(ev Event) {
	b.mu.Lock()
	subs := make([]*subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
