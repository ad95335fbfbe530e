package log

import (
	"time"
)

// Event represents a discovery log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Source identifies which discovery source emitted the event.
	Source Source `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// SessionID correlates events of one probe session (UUID).
	SessionID string `cbor:"4,keyasint,omitempty"`

	// URI is the printer or candidate URI the event refers to.
	URI string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Probe   *ProbeEvent       `cbor:"6,keyasint,omitempty"` // Candidate path attempts
	Printer *PrinterEvent     `cbor:"7,keyasint,omitempty"` // Found/lost printers
	State   *StateChangeEvent `cbor:"8,keyasint,omitempty"` // Announcing state changes
	Error   *ErrorEventData   `cbor:"9,keyasint,omitempty"` // Swallowed errors
}

// Source identifies the discovery source that emitted an event.
type Source uint8

const (
	// SourceManual is the manual (user-added) discovery source.
	SourceManual Source = 0
	// SourceMDNS is the mDNS discovery source.
	SourceMDNS Source = 1
	// SourceMulti is the aggregating discovery source.
	SourceMulti Source = 2
	// SourceStore is the persistence layer.
	SourceStore Source = 3
	// SourceCache is the capability cache.
	SourceCache Source = 4
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceManual:
		return "MANUAL"
	case SourceMDNS:
		return "MDNS"
	case SourceMulti:
		return "MULTI"
	case SourceStore:
		return "STORE"
	case SourceCache:
		return "CACHE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryProbe indicates a candidate path probe attempt or outcome.
	CategoryProbe Category = 0
	// CategoryFound indicates a printer found notification.
	CategoryFound Category = 1
	// CategoryLost indicates a printer lost notification.
	CategoryLost Category = 2
	// CategoryState indicates an announcing state change.
	CategoryState Category = 3
	// CategoryError indicates a swallowed error.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryProbe:
		return "PROBE"
	case CategoryFound:
		return "FOUND"
	case CategoryLost:
		return "LOST"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ProbeEvent captures one candidate path attempt or its outcome.
type ProbeEvent struct {
	// Path is the candidate resource path being tried.
	Path string `cbor:"1,keyasint"`

	// Outcome describes how the attempt ended.
	Outcome ProbeOutcome `cbor:"2,keyasint"`

	// Supported is set for OutcomeFound printers.
	Supported bool `cbor:"3,keyasint,omitempty"`
}

// ProbeOutcome describes how a candidate path attempt ended.
type ProbeOutcome uint8

const (
	// OutcomeStarted indicates the lookup was issued.
	OutcomeStarted ProbeOutcome = 0
	// OutcomeMiss indicates the path did not answer.
	OutcomeMiss ProbeOutcome = 1
	// OutcomeFound indicates a printer answered at this path.
	OutcomeFound ProbeOutcome = 2
	// OutcomeExhausted indicates no candidate path answered.
	OutcomeExhausted ProbeOutcome = 3
)

// String returns the outcome name.
func (o ProbeOutcome) String() string {
	switch o {
	case OutcomeStarted:
		return "STARTED"
	case OutcomeMiss:
		return "MISS"
	case OutcomeFound:
		return "FOUND"
	case OutcomeExhausted:
		return "EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// PrinterEvent captures printer details for found/lost notifications.
type PrinterEvent struct {
	// Name is the printer display name.
	Name string `cbor:"1,keyasint,omitempty"`

	// ID is the printer's stable identity token.
	ID string `cbor:"2,keyasint,omitempty"`

	// Location is the printer's location text.
	Location string `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures announcing state changes.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors that discovery swallows by contract,
// such as persistence failures.
type ErrorEventData struct {
	// Op describes what operation was being performed.
	Op string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`
}
