package discovery_test

import (
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printkit/printkit-go/pkg/discovery"
)

// fakeDiscoverer is a hand-driven discovery source.
type fakeDiscoverer struct {
	mu       sync.Mutex
	listener discovery.Listener
	started  int
	stopped  int
}

func (f *fakeDiscoverer) Start(l discovery.Listener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = l
	f.started++
	return nil
}

func (f *fakeDiscoverer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = nil
	f.stopped++
}

func (f *fakeDiscoverer) emitFound(p *discovery.Printer) {
	f.mu.Lock()
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l.PrinterFound(p)
	}
}

func (f *fakeDiscoverer) emitLost(uri *url.URL) {
	f.mu.Lock()
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l.PrinterLost(uri)
	}
}

func testPrinter(t *testing.T, uri string) *discovery.Printer {
	t.Helper()
	u, err := url.Parse(uri)
	require.NoError(t, err)
	return &discovery.Printer{Name: u.Hostname(), URI: u}
}

func TestMultiDiscoveryDeduplicates(t *testing.T) {
	a := &fakeDiscoverer{}
	b := &fakeDiscoverer{}
	multi := discovery.NewMultiDiscovery(nil, a, b)

	listener := &recordingListener{}
	require.NoError(t, multi.Start(listener))
	assert.Equal(t, 1, a.started)
	assert.Equal(t, 1, b.started)

	p := testPrinter(t, "ipp://printer.local:631/ipp/printer")

	// Both sources report the same URI; the listener sees it once
	a.emitFound(p)
	b.emitFound(p)
	assert.Len(t, listener.found, 1)

	// Lost from one source only: still present
	a.emitLost(p.URI)
	assert.Empty(t, listener.lost)

	// Lost from the last source: now reported
	b.emitLost(p.URI)
	assert.Len(t, listener.lost, 1)

	// A stray lost for an unknown URI is swallowed
	b.emitLost(p.URI)
	assert.Len(t, listener.lost, 1)
}

func TestMultiDiscoveryStopSilences(t *testing.T) {
	a := &fakeDiscoverer{}
	multi := discovery.NewMultiDiscovery(nil, a)

	listener := &recordingListener{}
	require.NoError(t, multi.Start(listener))
	require.ErrorIs(t, multi.Start(listener), discovery.ErrAlreadyStarted)

	multi.Stop()
	assert.Equal(t, 1, a.stopped)

	a.emitFound(testPrinter(t, "ipp://late.local:631/ipp/printer"))
	assert.Empty(t, listener.found)

	// Restart works and reports fresh state
	require.NoError(t, multi.Start(listener))
	a.emitFound(testPrinter(t, "ipp://late.local:631/ipp/printer"))
	assert.Len(t, listener.found, 1)
}
