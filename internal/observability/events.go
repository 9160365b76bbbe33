package observability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// EventType categorizes timeline events for filtering and display.
type EventType string

const (
	EventTypeRunStart         EventType = "run.start"
	EventTypeRunEnd           EventType = "run.end"
	EventTypeRunError         EventType = "run.error"
	EventTypeHypothesisStart  EventType = "hypothesis.start"
	EventTypeHypothesisEnd    EventType = "hypothesis.end"
	EventTypeHypothesisError  EventType = "hypothesis.error"
	EventTypeTranslationStart EventType = "translation.start"
	EventTypeTranslationEnd   EventType = "translation.end"
	EventTypeDataLoaded       EventType = "data.loaded"
	EventTypeCustom           EventType = "custom"
)

// Event represents a single event in a run timeline.
type Event struct {
	ID           string         `json:"id"`
	Type         EventType      `json:"type"`
	Timestamp    time.Time      `json:"timestamp"`
	RunID        string         `json:"run_id,omitempty"`
	HypothesisID string         `json:"hypothesis_id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Duration     time.Duration  `json:"duration_ns,omitempty"`
	Error        string         `json:"error,omitempty"`
	TraceID      string         `json:"trace_id,omitempty"`
	SpanID       string         `json:"span_id,omitempty"`
}

// EventStore stores and retrieves events for debugging.
type EventStore interface {
	// Record stores an event.
	Record(event *Event) error

	// GetByRunID returns all events for a run, sorted by timestamp.
	GetByRunID(runID string) ([]*Event, error)

	// GetByType returns events of a specific type, most recent first.
	GetByType(eventType EventType, limit int) ([]*Event, error)

	// Get returns a single event by ID.
	Get(id string) (*Event, error)

	// Delete removes events older than the given duration and reports how
	// many were removed.
	Delete(olderThan time.Duration) (int, error)
}

// MemoryEventStore is an in-memory implementation of EventStore.
type MemoryEventStore struct {
	mu      sync.RWMutex
	events  map[string]*Event
	byRunID map[string][]string
	maxSize int
}

// NewMemoryEventStore creates a new in-memory event store. maxSize bounds
// retained events; zero or negative means 10000.
func NewMemoryEventStore(maxSize int) *MemoryEventStore {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &MemoryEventStore{
		events:  make(map[string]*Event),
		byRunID: make(map[string][]string),
		maxSize: maxSize,
	}
}

func (s *MemoryEventStore) Record(event *Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) >= s.maxSize {
		s.evictOldest()
	}

	s.events[event.ID] = event

	if event.RunID != "" {
		s.byRunID[event.RunID] = append(s.byRunID[event.RunID], event.ID)
	}

	return nil
}

func (s *MemoryEventStore) GetByRunID(runID string) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byRunID[runID]
	events := make([]*Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.events[id]; ok {
			events = append(events, e)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return events, nil
}

func (s *MemoryEventStore) GetByType(eventType EventType, limit int) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []*Event
	for _, e := range s.events {
		if e.Type == eventType {
			events = append(events, e)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}

func (s *MemoryEventStore) Get(id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event not found: %s", id)
	}
	return e, nil
}

func (s *MemoryEventStore) Delete(olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	deleted := 0

	for id, e := range s.events {
		if e.Timestamp.Before(cutoff) {
			delete(s.events, id)
			deleted++
		}
	}

	for runID, ids := range s.byRunID {
		var remaining []string
		for _, id := range ids {
			if _, ok := s.events[id]; ok {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) == 0 {
			delete(s.byRunID, runID)
		} else {
			s.byRunID[runID] = remaining
		}
	}

	return deleted, nil
}

// evictOldest removes the oldest 10% of events. Callers must hold the lock.
func (s *MemoryEventStore) evictOldest() {
	toRemove := s.maxSize / 10
	if toRemove < 1 {
		toRemove = 1
	}

	var events []*Event
	for _, e := range s.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	for i := 0; i < toRemove && i < len(events); i++ {
		delete(s.events, events[i].ID)
	}
}

// EventRecorder provides a convenient API for recording timeline events.
// A nil recorder drops events, so components can treat it as optional.
type EventRecorder struct {
	store  EventStore
	logger *Logger
}

// NewEventRecorder creates a new event recorder.
func NewEventRecorder(store EventStore, logger *Logger) *EventRecorder {
	return &EventRecorder{
		store:  store,
		logger: logger,
	}
}

// Record records an event, extracting correlation IDs from context.
func (r *EventRecorder) Record(ctx context.Context, eventType EventType, name string, data map[string]any) error {
	if r == nil || r.store == nil {
		return nil
	}

	event := &Event{
		ID:           generateEventID(),
		Type:         eventType,
		Timestamp:    time.Now(),
		RunID:        GetRunID(ctx),
		HypothesisID: GetHypothesisID(ctx),
		Name:         name,
		Data:         data,
		TraceID:      GetTraceID(ctx),
		SpanID:       GetSpanID(ctx),
	}

	if r.logger != nil {
		r.logger.Debug(ctx, "event recorded",
			"event_type", string(eventType),
			"event_name", name,
			"event_id", event.ID,
		)
	}

	return r.store.Record(event)
}

// RecordError records an error event.
func (r *EventRecorder) RecordError(ctx context.Context, eventType EventType, name string, err error, data map[string]any) error {
	if r == nil || r.store == nil {
		return nil
	}
	if data == nil {
		data = make(map[string]any)
	}
	data["error"] = err.Error()

	event := &Event{
		ID:           generateEventID(),
		Type:         eventType,
		Timestamp:    time.Now(),
		RunID:        GetRunID(ctx),
		HypothesisID: GetHypothesisID(ctx),
		Name:         name,
		Data:         data,
		Error:        err.Error(),
		TraceID:      GetTraceID(ctx),
		SpanID:       GetSpanID(ctx),
	}

	if r.logger != nil {
		r.logger.Error(ctx, "error event recorded",
			"event_type", string(eventType),
			"event_name", name,
			"event_id", event.ID,
			"error", err,
		)
	}

	return r.store.Record(event)
}

// RecordHypothesisStart records the start of a hypothesis evaluation.
func (r *EventRecorder) RecordHypothesisStart(ctx context.Context, hypothesisID, name string) error {
	ctx = AddHypothesisID(ctx, hypothesisID)
	return r.Record(ctx, EventTypeHypothesisStart, name, map[string]any{
		"hypothesis_id": hypothesisID,
	})
}

// RecordHypothesisEnd records a finished hypothesis evaluation. A non-nil
// err marks the event as a hypothesis error.
func (r *EventRecorder) RecordHypothesisEnd(ctx context.Context, hypothesisID, name string, duration time.Duration, err error) error {
	ctx = AddHypothesisID(ctx, hypothesisID)
	data := map[string]any{
		"hypothesis_id": hypothesisID,
		"duration_ms":   duration.Milliseconds(),
	}
	if err != nil {
		return r.RecordError(ctx, EventTypeHypothesisError, name, err, data)
	}
	return r.Record(ctx, EventTypeHypothesisEnd, name, data)
}

// RecordRunStart records a run start event.
func (r *EventRecorder) RecordRunStart(ctx context.Context, runID string, data map[string]any) error {
	ctx = AddRunID(ctx, runID)
	return r.Record(ctx, EventTypeRunStart, "run_start", data)
}

// RecordRunEnd records a run end event.
func (r *EventRecorder) RecordRunEnd(ctx context.Context, duration time.Duration, err error) error {
	data := map[string]any{
		"duration_ms": duration.Milliseconds(),
	}
	if err != nil {
		return r.RecordError(ctx, EventTypeRunError, "run_error", err, data)
	}
	return r.Record(ctx, EventTypeRunEnd, "run_end", data)
}

// RecordDataLoaded records rows arriving in the event store.
func (r *EventRecorder) RecordDataLoaded(ctx context.Context, source string, rows int) error {
	return r.Record(ctx, EventTypeDataLoaded, "data_loaded", map[string]any{
		"source": source,
		"rows":   rows,
	})
}

// Timeline represents a sequence of events for display.
type Timeline struct {
	RunID     string           `json:"run_id"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Duration  time.Duration    `json:"duration"`
	Events    []*Event         `json:"events"`
	Summary   *TimelineSummary `json:"summary"`
}

// TimelineSummary provides aggregate statistics for a timeline.
type TimelineSummary struct {
	TotalEvents   int           `json:"total_events"`
	ErrorCount    int           `json:"error_count"`
	Hypotheses    int           `json:"hypotheses"`
	Translations  int           `json:"translations"`
	TotalDuration time.Duration `json:"total_duration"`
}

// BuildTimeline creates a timeline from events.
func BuildTimeline(events []*Event) *Timeline {
	if len(events) == 0 {
		return &Timeline{Summary: &TimelineSummary{}}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	timeline := &Timeline{
		Events:    events,
		StartTime: events[0].Timestamp,
		EndTime:   events[len(events)-1].Timestamp,
		Duration:  events[len(events)-1].Timestamp.Sub(events[0].Timestamp),
		Summary:   &TimelineSummary{TotalEvents: len(events)},
	}

	for _, e := range events {
		if e.RunID != "" {
			timeline.RunID = e.RunID
			break
		}
	}

	for _, e := range events {
		if e.Error != "" {
			timeline.Summary.ErrorCount++
		}
		switch e.Type {
		case EventTypeHypothesisStart:
			timeline.Summary.Hypotheses++
		case EventTypeTranslationStart:
			timeline.Summary.Translations++
		}
		timeline.Summary.TotalDuration += e.Duration
	}

	return timeline
}

// FormatTimeline formats a timeline for terminal display.
func FormatTimeline(timeline *Timeline) string {
	if timeline == nil || len(timeline.Events) == 0 {
		return "No events found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Timeline for Run: %s ===\n", timeline.RunID)
	fmt.Fprintf(&b, "Duration: %v\n", timeline.Duration)
	fmt.Fprintf(&b, "Events: %d (Errors: %d)\n", timeline.Summary.TotalEvents, timeline.Summary.ErrorCount)
	fmt.Fprintf(&b, "Hypotheses: %d, Translations: %d\n\n",
		timeline.Summary.Hypotheses, timeline.Summary.Translations)

	for i, e := range timeline.Events {
		prefix := "├─"
		if i == len(timeline.Events)-1 {
			prefix = "└─"
		}

		timestamp := e.Timestamp.Format("15:04:05.000")
		errorMark := ""
		if e.Error != "" {
			errorMark = " !"
		}

		fmt.Fprintf(&b, "%s [%s] %s: %s%s\n", prefix, timestamp, e.Type, e.Name, errorMark)

		if e.Duration > 0 {
			fmt.Fprintf(&b, "   Duration: %v\n", e.Duration)
		}
		if e.HypothesisID != "" {
			fmt.Fprintf(&b, "   Hypothesis: %s\n", e.HypothesisID)
		}
		if e.Error != "" {
			fmt.Fprintf(&b, "   Error: %s\n", e.Error)
		}
	}

	return b.String()
}

var (
	eventIDCounter int64
	eventIDMu      sync.Mutex
)

func generateEventID() string {
	eventIDMu.Lock()
	defer eventIDMu.Unlock()
	eventIDCounter++
	return fmt.Sprintf("evt_%d_%d", time.Now().UnixNano(), eventIDCounter)
}
