package handle

import (
	"fmt"

	"github.com/wippyai/smallany/typeid"
)

// Handle is an opaque reference to a value in a Table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventInserted EventType = iota
	EventRemoved
	EventBorrowed
	EventReturned
	EventDropped
)

func (e EventType) String() string {
	switch e {
	case EventInserted:
		return "inserted"
	case EventRemoved:
		return "removed"
	case EventBorrowed:
		return "borrowed"
	case EventReturned:
		return "returned"
	case EventDropped:
		return "dropped"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(e))
	}
}

// Event describes a change to a table slot.
type Event struct {
	TypeID typeid.ID
	Handle Handle
	Type   EventType
}

// Observer receives lifecycle events. Observers run on the goroutine that
// caused the event, after the table lock is released.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnHandleEvent calls f(e).
func (f ObserverFunc) OnHandleEvent(e Event) { f(e) }
