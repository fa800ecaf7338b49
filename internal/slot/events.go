package slot

// Event represents a manager lifecycle event.
// Minimal and stable: name + role and optional fields via key/values.
type Event struct {
	Name   string
	Role   Role
	Fields map[string]any
}

// Event names published by the manager. Tests assert ordering on these.
const (
	EventLoadStart          = "load_start"
	EventLoadDone           = "load_done"
	EventLoadError          = "load_error"
	EventEvict              = "evict"
	EventUnload             = "unload"
	EventIdleUnload         = "idle_unload"
	EventBudgetSoftExceeded = "budget_soft_exceeded"
)

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
