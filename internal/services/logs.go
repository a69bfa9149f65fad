package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/safence/sentinelguard/internal/bus"
)

const logCapacity = 500

// LogEntry is one row of the dashboard event log.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // info, warning, error
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}

// LogService keeps a bounded in-memory event log for the dashboard. Oldest
// entries are evicted when the capacity is reached.
type LogService struct {
	mu      sync.RWMutex
	entries []LogEntry
	events  *bus.Bus
}

// NewLogService creates an empty log service. The bus is optional.
func NewLogService(events *bus.Bus) *LogService {
	return &LogService{events: events}
}

// Append records an event and returns the stored entry.
func (s *LogService) Append(level, source, message string) LogEntry {
	entry := LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Level:     level,
		Source:    source,
		Message:   message,
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > logCapacity {
		s.entries = s.entries[len(s.entries)-logCapacity:]
	}
	s.mu.Unlock()

	if s.events != nil {
		s.events.Publish(bus.EventLog, entry)
	}
	return entry
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *LogService) Recent(limit int) []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]LogEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out
}
