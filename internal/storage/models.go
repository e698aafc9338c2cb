package storage

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Visit is one tracked page view. The client IP is stored only as a salted
// hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Country   string    `json:"country,omitempty"`
}

// Query records that the assistant answered a question. The question text
// itself is never stored.
type Query struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	Intent    string    `json:"intent"`
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
}

type IntentCount struct {
	Intent string `json:"intent"`
	Count  int64  `json:"count"`
}

type AdminStats struct {
	TotalVisitors    int64         `json:"total_visitors"`
	UniqueVisitors   int64         `json:"unique_visitors"`
	VisitorsToday    int64         `json:"visitors_today"`
	VisitorsThisWeek int64         `json:"visitors_this_week"`
	TotalQuestions   int64         `json:"total_questions"`
	UnansweredRate   float64       `json:"unanswered_rate"`
	TopIntents       []IntentCount `json:"top_intents"`
	RecentVisitors   []Visit       `json:"recent_visitors"`
}
