package gateway

import "sync"

// SessionListeners is the subscriber registry shared by Auth backends.
type SessionListeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(*Session)
}

// Subscribe registers fn and returns a function that removes it.
func (l *SessionListeners) Subscribe(fn func(*Session)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(*Session))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// Notify calls every subscriber with s, outside the registry lock.
func (l *SessionListeners) Notify(s *Session) {
	l.mu.Lock()
	fns := make([]func(*Session), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		var cp *Session
		if s != nil {
			c := *s
			cp = &c
		}
		fn(cp)
	}
}
