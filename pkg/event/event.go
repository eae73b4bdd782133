// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-rope/pkg/physics"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	GrabStarted     Type = "grab_started"
	GrabEnded       Type = "grab_ended"
	SimulationReset Type = "simulation_reset"
	PauseToggled    Type = "pause_toggled"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it from the
// bus; calling Cancel more than once is harmless.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, s := range handlers {
		if s.id == id {
			b.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(event)
	}
}

// DragEvent describes the start or end of a drag of a particle
type DragEvent struct {
	BaseEvent
	Particle      int
	Position      physics.Vector3
	PlaneDistance float64
}

// NewDragEvent creates a new drag event
func NewDragEvent(eventType Type, source interface{}, particle int, position physics.Vector3, planeDistance float64) *DragEvent {
	return &DragEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Particle:      particle,
		Position:      position,
		PlaneDistance: planeDistance,
	}
}

// ResetEvent is published after the rope has been rebuilt
type ResetEvent struct {
	BaseEvent
	Particles int
}

// NewResetEvent creates a new reset event
func NewResetEvent(source interface{}, particles int) *ResetEvent {
	return &ResetEvent{
		BaseEvent: BaseEvent{
			EventType: SimulationReset,
			Source:    source,
		},
		Particles: particles,
	}
}

// PauseEvent is published when integration is paused or resumed
type PauseEvent struct {
	BaseEvent
	Paused bool
}

// NewPauseEvent creates a new pause event
func NewPauseEvent(source interface{}, paused bool) *PauseEvent {
	return &PauseEvent{
		BaseEvent: BaseEvent{
			EventType: PauseToggled,
			Source:    source,
		},
		Paused: paused,
	}
}
