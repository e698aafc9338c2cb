package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Conversation is an append-only log of turns for one widget session.
type Conversation struct {
	mu       sync.Mutex
	turns    []Turn
	lastSeen time.Time
}

func NewConversation(greeting string, now time.Time) *Conversation {
	c := &Conversation{turns: make([]Turn, 0, 16), lastSeen: now}
	if greeting != "" {
		c.turns = append(c.turns, Turn{Role: RoleBot, Text: greeting})
	}
	return c
}

func (c *Conversation) Append(turns ...Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turns...)
}

// Turns returns a copy of the log.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]Turn, len(c.turns))
	copy(cp, c.turns)
	return cp
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

func (c *Conversation) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Conversation) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// DefaultMaxSessions bounds Sessions when NewSessions is given no limit.
const DefaultMaxSessions = 10000

// Sessions keeps one Conversation per browser session in memory. Nothing is
// written to disk; an idle session is dropped by Sweep and a restart forgets
// all of them. Ids are always issued here, never taken from the client, and
// once limit sessions are held the least recently used one makes room.
type Sessions struct {
	mu       sync.Mutex
	convs    map[string]*Conversation
	greeting string
	idle     time.Duration
	limit    int
	now      func() time.Time
}

func NewSessions(greeting string, idle time.Duration, limit int) *Sessions {
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return &Sessions{
		convs:    make(map[string]*Conversation),
		greeting: greeting,
		idle:     idle,
		limit:    limit,
		now:      time.Now,
	}
}

// Get returns the conversation for id. An empty or unknown id starts a new
// conversation under a fresh id; the returned id is the one to keep.
func (s *Sessions) Get(id string) (string, *Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, ok := s.convs[id]; ok {
		c.touch(now)
		return id, c
	}
	return s.create(now)
}

// Lookup returns an existing conversation without creating one.
func (s *Sessions) Lookup(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	return c, ok
}

// Reset replaces the conversation for id with a fresh one holding only the
// greeting. An unknown id gets a new session, as in Get.
func (s *Sessions) Reset(id string) (string, *Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, ok := s.convs[id]; !ok {
		return s.create(now)
	}
	c := NewConversation(s.greeting, now)
	s.convs[id] = c
	return id, c
}

// create must be called with s.mu held.
func (s *Sessions) create(now time.Time) (string, *Conversation) {
	for len(s.convs) >= s.limit {
		s.evictOldest()
	}
	id := uuid.New().String()
	c := NewConversation(s.greeting, now)
	s.convs[id] = c
	return id, c
}

func (s *Sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, c := range s.convs {
		if seen := c.idleSince(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(s.convs, oldestID)
}

func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, id)
}

// Sweep removes sessions idle for longer than the configured window and
// returns how many were removed.
func (s *Sessions) Sweep() int {
	if s.idle <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idle)
	removed := 0
	for id, c := range s.convs {
		if c.idleSince().Before(cutoff) {
			delete(s.convs, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}
