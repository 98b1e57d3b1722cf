package events

import (
	"sync"
	"time"
)

// Planning lifecycle event types
const (
	SolveStartedEvent        = "solve.started"
	SolveFinishedEvent       = "solve.finished"
	WarmstartAppliedEvent    = "warmstart.applied"
	WarmstartRejectedEvent   = "warmstart.rejected"
	WarmstartLowQualityEvent = "warmstart.low_quality"
	HorizonRolledEvent       = "horizon.rolled"
	SchedulerResetEvent      = "scheduler.reset"
)

// Event is one recorded planning lifecycle event
type Event struct {
	Type      string
	Stream    string
	Data      map[string]any
	Timestamp time.Time
	Version   int
}

// Log is an append-only in-memory event log, safe for concurrent use
type Log struct {
	mu      sync.RWMutex
	streams map[string][]Event
	all     []Event
}

// NewLog creates an empty event log
func NewLog() *Log {
	return &Log{streams: make(map[string][]Event)}
}

// Append records an event on a stream, stamping time and version
func (l *Log) Append(stream, eventType string, data map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Event{
		Type:      eventType,
		Stream:    stream,
		Data:      data,
		Timestamp: time.Now(),
		Version:   len(l.streams[stream]) + 1,
	}
	l.streams[stream] = append(l.streams[stream], e)
	l.all = append(l.all, e)
}

// Stream returns the events of one stream in append order
func (l *Log) Stream(stream string) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.streams[stream]))
	copy(out, l.streams[stream])
	return out
}

// All returns every recorded event in append order
func (l *Log) All() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.all))
	copy(out, l.all)
	return out
}

// CountByType returns the number of recorded events per type
func (l *Log) CountByType() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	counts := make(map[string]int)
	for _, e := range l.all {
		counts[e.Type]++
	}
	return counts
}
