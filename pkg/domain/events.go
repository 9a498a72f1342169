package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventRunEnd    EventType = "run_end"
	EventTransform EventType = "transform"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// RunEvent marks the start or the end of a machine run. Steps and Halted are
// only set on EventRunEnd.
type RunEvent struct {
	EventBase
	State  string `json:"state"`
	Steps  int    `json:"steps,omitempty"`
	Halted bool   `json:"halted,omitempty"`
	Err    error  `json:"-"`
}

// TransformEvent reports a finished transformation.
type TransformEvent struct {
	EventBase
	Kind   string `json:"kind"`
	Cached bool   `json:"cached"`
	States int    `json:"states"`
	Err    error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnRunEnd    func(context.Context, *RunEvent)
	OnTransform func(context.Context, *TransformEvent)
}
