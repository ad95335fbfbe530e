package log

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "discovery.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	// File should exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "discovery.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	event := Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryProbe,
		SessionID: "session-123",
		URI:       "ipp://printer.local:631",
		Probe: &ProbeEvent{
			Path:    "ipp/printer",
			Outcome: OutcomeStarted,
		},
	}

	logger.Log(event)
	logger.Close()

	// Read the file and decode
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("log file is empty")
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}

	if decoded.SessionID != event.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, event.SessionID)
	}
	if decoded.Probe == nil {
		t.Error("Probe is nil")
	} else if decoded.Probe.Path != event.Probe.Path {
		t.Errorf("Probe.Path: got %q, want %q", decoded.Probe.Path, event.Probe.Path)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "discovery.plog")

	// Write first event
	logger1, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger1.Log(Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryProbe,
		SessionID: "session-1",
	})
	logger1.Close()

	// Open again and write second event
	logger2, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger second open failed: %v", err)
	}

	logger2.Log(Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryFound,
		SessionID: "session-2",
	})
	logger2.Close()

	// Read all events back
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	events, err := ReadEvents(f)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].SessionID != "session-1" {
		t.Errorf("first event SessionID: got %q, want %q", events[0].SessionID, "session-1")
	}
	if events[1].SessionID != "session-2" {
		t.Errorf("second event SessionID: got %q, want %q", events[1].SessionID, "session-2")
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "discovery.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const numGoroutines = 10
	const eventsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				logger.Log(Event{
					Timestamp: time.Now(),
					Source:    SourceManual,
					Category:  CategoryProbe,
					SessionID: "session-" + string(rune('A'+id)),
				})
			}
		}(i)
	}

	wg.Wait()
	logger.Close()

	// Count events in file
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	events, err := ReadEvents(f)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}

	expectedCount := numGoroutines * eventsPerGoroutine
	if len(events) != expectedCount {
		t.Errorf("event count: got %d, want %d", len(events), expectedCount)
	}
}

func TestFileLoggerClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "discovery.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	// Write an event
	logger.Log(Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryProbe,
		SessionID: "session-123",
	})

	// Close should not error
	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Double close should not panic or error
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Logging after close should not panic
	logger.Log(Event{
		Timestamp: time.Now(),
		Source:    SourceManual,
		Category:  CategoryProbe,
		SessionID: "session-456",
	})
}
