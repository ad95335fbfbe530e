// Package log provides structured discovery event logging.
//
// Discovery sources emit an Event for every probe attempt, printer
// found/lost notification, announcing state change and swallowed error.
// Applications receive events through the Logger interface and decide
// where they go:
//
//   - SlogAdapter writes events to a log/slog logger (console output).
//   - FileLogger appends events to a CBOR event log for later analysis.
//   - MultiLogger fans events out to several loggers at once.
//   - NoopLogger discards everything.
//
// The CBOR encoding uses integer keys for compactness and RFC3339Nano
// timestamps for nanosecond precision.
package log
