package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationSeedsGreeting(t *testing.T) {
	c := NewConversation("hello", time.Now())
	assert.Equal(t, []Turn{{Role: RoleBot, Text: "hello"}}, c.Turns())

	empty := NewConversation("", time.Now())
	assert.Equal(t, 0, empty.Len())
}

func TestConversationAppendOnly(t *testing.T) {
	c := NewConversation("hi", time.Now())
	c.Append(Turn{Role: RoleUser, Text: "skills"}, Turn{Role: RoleBot, Text: "Key skills: Go."})

	turns := c.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, RoleUser, turns[1].Role)
	assert.Equal(t, RoleBot, turns[2].Role)

	// Mutating the copy leaves the log alone.
	turns[0].Text = "changed"
	assert.Equal(t, "hi", c.Turns()[0].Text)
}

func TestSessionsGetCreatesAndReuses(t *testing.T) {
	s := NewSessions("hi", time.Hour, 0)

	id, c := s.Get("")
	require.NotEmpty(t, id)
	c.Append(Turn{Role: RoleUser, Text: "q"})

	id2, c2 := s.Get(id)
	assert.Equal(t, id, id2)
	assert.Same(t, c, c2)
	assert.Equal(t, 2, c2.Len())

	_, other := s.Get("")
	assert.NotSame(t, c, other)
	assert.Equal(t, 2, s.Len())
}

func TestSessionsIgnoreClientChosenIDs(t *testing.T) {
	s := NewSessions("hi", time.Hour, 0)

	id, _ := s.Get("attacker-chosen")
	assert.NotEqual(t, "attacker-chosen", id)
	_, ok := s.Lookup("attacker-chosen")
	assert.False(t, ok)

	id, _ = s.Reset("also-chosen")
	assert.NotEqual(t, "also-chosen", id)
	assert.Equal(t, 2, s.Len())
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions("hi", time.Hour, 2)
	s.now = func() time.Time { return now }

	a, _ := s.Get("")
	now = now.Add(time.Minute)
	b, _ := s.Get("")
	now = now.Add(time.Minute)
	s.Get(a) // a is now the most recent
	now = now.Add(time.Minute)
	c, _ := s.Get("")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Lookup(b)
	assert.False(t, ok)
	_, ok = s.Lookup(a)
	assert.True(t, ok)
	_, ok = s.Lookup(c)
	assert.True(t, ok)
}

func TestSessionsBoundedUnderLoad(t *testing.T) {
	s := NewSessions("hi", time.Hour, 50)
	for i := 0; i < 500; i++ {
		s.Get("")
	}
	assert.Equal(t, 50, s.Len())
}

func TestSessionsReset(t *testing.T) {
	s := NewSessions("hi", time.Hour, 0)
	id, c := s.Get("")
	c.Append(Turn{Role: RoleUser, Text: "q"})

	id2, fresh := s.Reset(id)
	assert.Equal(t, id, id2)
	assert.Equal(t, []Turn{{Role: RoleBot, Text: "hi"}}, fresh.Turns())

	got, ok := s.Lookup(id)
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions("hi", 30*time.Minute, 0)
	s.now = func() time.Time { return now }

	old, _ := s.Get("")
	now = now.Add(20 * time.Minute)
	recent, _ := s.Get("")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	_, ok := s.Lookup(old)
	assert.False(t, ok)
	_, ok = s.Lookup(recent)
	assert.True(t, ok)
}

func TestSessionsSweepDisabled(t *testing.T) {
	s := NewSessions("hi", 0, 0)
	s.Get("")
	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestSessionsDrop(t *testing.T) {
	s := NewSessions("hi", time.Hour, 0)
	id, _ := s.Get("")
	s.Drop(id)
	_, ok := s.Lookup(id)
	assert.False(t, ok)
}
