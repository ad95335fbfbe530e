package log

import (
	"testing"
	"time"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}
	mock3 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2, mock3)

	event := Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryProbe,
		SessionID: "session-123",
	}

	multi.Log(event)

	// All loggers should have received the event
	for i, mock := range []*mockLogger{mock1, mock2, mock3} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].SessionID != "session-123" {
			t.Errorf("logger %d: SessionID = %q, want %q", i, mock.events[0].SessionID, "session-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()

	// Should not panic with empty logger list
	multi.Log(Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryProbe,
	})
}

func TestMultiLoggerSingleLogger(t *testing.T) {
	mock := &mockLogger{}
	multi := NewMultiLogger(mock)

	event := Event{
		Timestamp: time.Now(),
		Source:    SourceMDNS,
		Category:  CategoryLost,
		URI:       "ipp://printer.local:631",
	}

	multi.Log(event)

	if len(mock.events) != 1 {
		t.Fatalf("got %d events, want 1", len(mock.events))
	}
	if mock.events[0].URI != "ipp://printer.local:631" {
		t.Errorf("URI = %q, want %q", mock.events[0].URI, "ipp://printer.local:631")
	}
}

func TestNoopLoggerDiscards(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryProbe,
	})
}
