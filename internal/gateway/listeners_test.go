package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionListeners(t *testing.T) {
	var l SessionListeners

	var got []string
	unsubscribe := l.Subscribe(func(s *Session) {
		if s == nil {
			got = append(got, "signed-out")
			return
		}
		got = append(got, s.UID)
	})

	l.Notify(&Session{UID: "u1"})
	l.Notify(nil)
	unsubscribe()
	unsubscribe()
	l.Notify(&Session{UID: "u2"})

	assert.Equal(t, []string{"u1", "signed-out"}, got)
}

func TestSessionListeners_SubscriberGetsCopy(t *testing.T) {
	var l SessionListeners
	l.Subscribe(func(s *Session) { s.UID = "mutated" })

	s := &Session{UID: "u1"}
	l.Notify(s)

	assert.Equal(t, "u1", s.UID)
}
