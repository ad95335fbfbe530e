package main

import (
	"net"
	"time"

	"github.com/printkit/printkit-go/pkg/discovery"
)

// dialSource is a demo-quality capability source: a candidate URI
// "answers" when a TCP connection to its host:port succeeds. It reports
// no name, identity or location, so added printers fall back to their
// URI host for display. It never distinguishes supported from
// unsupported printers; a real IPP client should replace it.
type dialSource struct {
	timeout time.Duration
}

func newDialSource() *dialSource {
	return &dialSource{timeout: 2 * time.Second}
}

// Request dials the candidate's host:port and reports the outcome
// asynchronously.
func (s *dialSource) Request(p *discovery.Printer, refresh bool, handler discovery.CapabilityHandler) {
	uri := *p.URI
	go func() {
		conn, err := net.DialTimeout("tcp", uri.Host, s.timeout)
		if err != nil {
			handler(nil)
			return
		}
		conn.Close()

		handler(&discovery.Capabilities{
			Path:      uri.String(),
			Supported: true,
		})
	}()
}

// Compile-time interface satisfaction check.
var _ discovery.CapabilitySource = (*dialSource)(nil)
