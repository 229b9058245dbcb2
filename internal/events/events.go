// Package events is the in-process bus that carries state changes from the
// controller to whichever front end is rendering them.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/canlog/canlog-client/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventTabChanged     EventType = "tab_changed"     // Active tab switched
	EventFilesChanged   EventType = "files_changed"   // Save/delete tables re-rendered
	EventActionStarted  EventType = "action_started"  // Controller began a backend action
	EventActionFinished EventType = "action_finished" // Controller action produced a Result
	EventProgress       EventType = "progress"        // Bytes moved for an upload or download
	EventLog            EventType = "log"
)

// LogLevel defines log severity levels
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// TabChangedEvent is published after TabState.Switch.
type TabChangedEvent struct {
	BaseEvent
	From string
	To   string
}

// FilesChangedEvent is published whenever the file tables are replaced.
// Count is the number of stored files, zero when only placeholders remain.
type FilesChangedEvent struct {
	BaseEvent
	Count int
}

// ActionEvent marks the start or end of a controller action.
type ActionEvent struct {
	BaseEvent
	ActionID string
	Action   string // "upload", "save_all", "download", "delete_all", "delete", "list", "health"
	Status   string // empty on start; Result status on finish
	Message  string
}

// ProgressEvent reports transfer progress for one named item.
type ProgressEvent struct {
	BaseEvent
	Name         string
	BytesCurrent int64
	BytesTotal   int64 // -1 when unknown
}

// Fraction returns progress in [0,1], or -1 when the total is unknown.
func (e *ProgressEvent) Fraction() float64 {
	if e.BytesTotal <= 0 {
		return -1
	}
	f := float64(e.BytesCurrent) / float64(e.BytesTotal)
	if f > 1 {
		f = 1
	}
	return f
}

// LogEvent represents log messages
type LogEvent struct {
	BaseEvent
	Level   LogLevel
	Message string
	Action  string
	Error   error
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers (non-blocking with optimized buffer)
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	// Send to specific type subscribers
	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			// Slow subscriber; drop rather than block the publisher
			eb.droppedEvents.Add(1)
		}
	}

	// Send to all-events subscribers
	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	// Close specific type channels
	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}

	// Close all-events channels
	for _, ch := range eb.all {
		close(ch)
	}
}

// PublishLog is a convenience method for publishing log events
func (eb *EventBus) PublishLog(level LogLevel, message, action string, err error) {
	eb.Publish(&LogEvent{
		BaseEvent: BaseEvent{EventType: EventLog, Time: time.Now()},
		Level:     level,
		Message:   message,
		Action:    action,
		Error:     err,
	})
}

// PublishTabChanged announces a tab switch.
func (eb *EventBus) PublishTabChanged(from, to string) {
	eb.Publish(&TabChangedEvent{
		BaseEvent: BaseEvent{EventType: EventTabChanged, Time: time.Now()},
		From:      from,
		To:        to,
	})
}

// PublishFilesChanged announces a table replacement.
func (eb *EventBus) PublishFilesChanged(count int) {
	eb.Publish(&FilesChangedEvent{
		BaseEvent: BaseEvent{EventType: EventFilesChanged, Time: time.Now()},
		Count:     count,
	})
}

// PublishActionStarted announces that a controller action began.
func (eb *EventBus) PublishActionStarted(actionID, action string) {
	eb.Publish(&ActionEvent{
		BaseEvent: BaseEvent{EventType: EventActionStarted, Time: time.Now()},
		ActionID:  actionID,
		Action:    action,
	})
}

// PublishActionFinished announces the outcome of a controller action.
func (eb *EventBus) PublishActionFinished(actionID, action, status, message string) {
	eb.Publish(&ActionEvent{
		BaseEvent: BaseEvent{EventType: EventActionFinished, Time: time.Now()},
		ActionID:  actionID,
		Action:    action,
		Status:    status,
		Message:   message,
	})
}

// PublishProgress is a convenience method for publishing progress events
func (eb *EventBus) PublishProgress(name string, current, total int64) {
	eb.Publish(&ProgressEvent{
		BaseEvent:    BaseEvent{EventType: EventProgress, Time: time.Now()},
		Name:         name,
		BytesCurrent: current,
		BytesTotal:   total,
	})
}

// Unsubscribe removes a subscription channel from a specific event type
// This prevents memory leaks from abandoned subscriptions
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	// Find and remove the channel from the event type's subscribers
	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			// Remove channel by replacing with last element and truncating
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// UnsubscribeAll removes a subscription channel from all event types
// Use this when cleaning up a subscriber that subscribed to multiple event types
func (eb *EventBus) UnsubscribeAll(ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	// Remove from all event type subscribers
	for eventType, subscribers := range eb.subscribers {
		for i, subCh := range subscribers {
			if subCh == ch {
				subscribers[i] = subscribers[len(subscribers)-1]
				eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
				break
			}
		}
	}

	// Remove from all-events subscribers
	for i, subCh := range eb.all {
		if subCh == ch {
			eb.all[i] = eb.all[len(eb.all)-1]
			eb.all = eb.all[:len(eb.all)-1]
			break
		}
	}
}

// GetDroppedEventCount returns the total number of events dropped due to full buffers
// Useful for monitoring and detecting if buffer sizes need adjustment
func (eb *EventBus) GetDroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}

// ResetDroppedEventCount resets the dropped event counter to zero
// Useful for periodic monitoring windows
func (eb *EventBus) ResetDroppedEventCount() int64 {
	return eb.droppedEvents.Swap(0)
}
