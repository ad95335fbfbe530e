package discovery

import (
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/printkit/printkit-go/pkg/log"
)

// AddRequest is the handle for one in-flight AddManualPrinter probe.
// Cancel abandons the probe; a cancelled request never invokes its
// callback.
type AddRequest struct {
	finder *capabilitiesFinder
}

// Cancel abandons the probe. Safe to call at any time, including after
// the callback already fired (then it is a no-op).
func (r *AddRequest) Cancel() {
	r.finder.cancel()
}

// capabilitiesFinder probes likely printer paths on one host until one
// answers or the candidates run out. It holds the remaining path queue
// and guarantees at most one outstanding capability request and exactly
// one callback invocation.
type capabilitiesFinder struct {
	parent    *ManualDiscovery
	base      *url.URL
	callback  AddCallback
	sessionID string

	mu      sync.Mutex
	paths   []string // remaining queue, consumed front to back
	current string   // path of the outstanding request
	done    bool     // set once the callback fired or the probe was cancelled
}

// newCapabilitiesFinder constructs a finder for the given probe base.
func newCapabilitiesFinder(parent *ManualDiscovery, base *url.URL, callback AddCallback) *capabilitiesFinder {
	return &capabilitiesFinder{
		parent:    parent,
		base:      base,
		callback:  callback,
		sessionID: uuid.NewString(),
		paths:     append([]string(nil), parent.paths...),
	}
}

// startNext moves on to the next candidate path, or reports failure if
// none remain. Invoked once to kick off the probe and again from the
// response handler after every miss.
func (f *capabilitiesFinder) startNext() {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}

	if len(f.paths) == 0 {
		f.done = true
		f.mu.Unlock()

		f.logProbe("", log.OutcomeExhausted, false)
		f.callback.NotFound()
		return
	}

	path := f.paths[0]
	f.paths = f.paths[1:]
	f.current = path

	tryURI := *f.base
	if path != "" {
		tryURI.Path = "/" + path
	}

	// Provisional unidentified printer for the lookup
	printer := &Printer{Name: "unknown", URI: &tryURI}
	f.mu.Unlock()

	f.logProbe(path, log.OutcomeStarted, false)
	f.parent.source.Request(printer, false, f.onCapabilities)
}

// onCapabilities handles the response for the current candidate path.
// The capability source invokes it exactly once per request.
func (f *capabilitiesFinder) onCapabilities(caps *Capabilities) {
	if caps == nil {
		// This path did not answer; advance immediately.
		f.mu.Lock()
		missed := f.current
		f.mu.Unlock()
		f.logProbe(missed, log.OutcomeMiss, false)
		f.startNext()
		return
	}

	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.mu.Unlock()

	printer, err := f.parent.printerFromCapabilities(caps)
	if err != nil {
		// A response we cannot turn into a printer counts as not found.
		f.parent.logError("parse capabilities", err)
		f.callback.NotFound()
		return
	}

	// Only supported printers are added to the registry
	if caps.Supported {
		f.parent.addPrinter(printer)
	}

	f.logProbe(printer.Path(), log.OutcomeFound, caps.Supported)
	f.callback.Found(printer, caps.Supported)
}

// cancel abandons the probe without invoking the callback.
func (f *capabilitiesFinder) cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = true
}

func (f *capabilitiesFinder) logProbe(path string, outcome log.ProbeOutcome, supported bool) {
	f.parent.logger.Log(log.Event{
		Timestamp: time.Now(),
		Source:    log.SourceManual,
		Category:  log.CategoryProbe,
		SessionID: f.sessionID,
		URI:       f.base.String(),
		Probe: &log.ProbeEvent{
			Path:      path,
			Outcome:   outcome,
			Supported: supported,
		},
	})
}
