package sim

import "fmt"

type EventType int

const (
	EventPhaseChanged EventType = iota
	EventObstacleHit
	EventHoleEntered
	EventOutOfBounds
	EventExitRequested
)

func (t EventType) String() string {
	switch t {
	case EventPhaseChanged:
		return "phase_changed"
	case EventObstacleHit:
		return "obstacle_hit"
	case EventHoleEntered:
		return "hole_entered"
	case EventOutOfBounds:
		return "out_of_bounds"
	case EventExitRequested:
		return "exit_requested"
	}
	return fmt.Sprintf("event(%d)", int(t))
}

type Event struct {
	Type EventType
	Tick uint64
	X, Z float64 // ball position on the board

	From, To Phase   // EventPhaseChanged
	Speed    float64 // EventObstacleHit: ball speed before the bounce
	Index    int     // EventObstacleHit, EventHoleEntered: insertion index
	Final    bool    // EventHoleEntered
}

type EventHandler func(Event)

// EventBus delivers events synchronously on the simulation goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
	all      []EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

// SubscribeAll registers fn for every event type, after the typed handlers.
func (eb *EventBus) SubscribeAll(fn EventHandler) {
	eb.all = append(eb.all, fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
	for _, fn := range eb.all {
		fn(e)
	}
}
