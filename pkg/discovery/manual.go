package discovery

import (
	"net/url"
	"sync"
	"time"

	"github.com/printkit/printkit-go/pkg/log"
	"github.com/printkit/printkit-go/pkg/persistence"
)

// ManualConfig configures a ManualDiscovery.
type ManualConfig struct {
	// Source performs capability lookups. Required.
	Source CapabilitySource

	// Store persists the registry across restarts. Nil disables
	// persistence.
	Store *persistence.PrinterStore

	// Logger receives discovery events. Nil disables logging.
	Logger log.Logger

	// Scheme overrides the URI scheme for probe bases.
	// Default: DefaultScheme.
	Scheme string

	// Port overrides the port filled into URIs that lack one.
	// Default: DefaultPort.
	Port int

	// Paths overrides the candidate path list, in priority order.
	// Default: ProbePaths().
	Paths []string
}

// ManualDiscovery manages the registry of printers added manually by the
// user. The registry is loaded from the store at construction and saved
// back on Close.
type ManualDiscovery struct {
	source CapabilitySource
	store  *persistence.PrinterStore
	logger log.Logger

	scheme string
	port   int
	paths  []string

	mu       sync.Mutex
	reg      registry
	listener Listener // non-nil while announcing
}

// NewManualDiscovery creates a manual discovery session and populates
// its registry from the store. A missing, unreadable or corrupt registry
// file is not an error; it is reported through the logger and the
// session starts with whatever loaded.
func NewManualDiscovery(cfg ManualConfig) (*ManualDiscovery, error) {
	if cfg.Source == nil {
		return nil, ErrMissingSource
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	if cfg.Scheme == "" {
		cfg.Scheme = DefaultScheme
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Paths == nil {
		cfg.Paths = ProbePaths()
	}

	m := &ManualDiscovery{
		source: cfg.Source,
		store:  cfg.Store,
		logger: cfg.Logger,
		scheme: cfg.Scheme,
		port:   cfg.Port,
		paths:  cfg.Paths,
	}
	m.load()
	return m, nil
}

// Start begins announcing: every printer currently in the registry is
// reported to the listener, after evicting any cached network state for
// its URI so a stale reachability verdict is not reused across session
// restarts.
func (m *ManualDiscovery) Start(l Listener) error {
	m.mu.Lock()
	if m.listener != nil {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.listener = l
	printers := m.reg.all()
	m.mu.Unlock()

	m.logState("idle", "announcing")

	cache, _ := m.source.(NetworkCache)
	for _, p := range printers {
		if cache != nil {
			cache.EvictOnNetworkChange(p.URI)
		}
		m.logPrinter(log.CategoryFound, p)
		l.PrinterFound(p)
	}
	return nil
}

// Stop ends announcing. No further notifications fire until the next
// Start.
func (m *ManualDiscovery) Stop() {
	m.mu.Lock()
	wasAnnouncing := m.listener != nil
	m.listener = nil
	m.mu.Unlock()

	if wasAnnouncing {
		m.logState("announcing", "idle")
	}
}

// Close persists the registry. The session remains usable afterwards;
// callers typically Close once at shutdown.
func (m *ManualDiscovery) Close() {
	m.save()
}

// AddManualPrinter asynchronously probes hostname for a printer, calling
// back with the outcome. The returned AddRequest cancels the probe;
// after Cancel the callback is guaranteed not to fire.
func (m *ManualDiscovery) AddManualPrinter(hostname string, callback AddCallback) (*AddRequest, error) {
	host, err := repairHostname(hostname)
	if err != nil {
		return nil, err
	}
	base, err := baseURI(m.scheme, host, m.port)
	if err != nil {
		return nil, err
	}

	finder := newCapabilitiesFinder(m, base, callback)
	finder.startNext()
	return &AddRequest{finder: finder}, nil
}

// RemoveManualPrinter removes the first registry entry whose URI path
// equals the target's path. No-op when nothing matches.
func (m *ManualDiscovery) RemoveManualPrinter(toRemove *Printer) {
	m.mu.Lock()
	removed := m.reg.removeByPath(toRemove)
	l := m.listener
	m.mu.Unlock()

	if removed == nil {
		return
	}
	m.logPrinter(log.CategoryLost, removed)
	if l != nil {
		l.PrinterLost(removed.URI)
	}
}

// Printers returns the current registry contents, most-recent-first.
func (m *ManualDiscovery) Printers() []*Printer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.all()
}

// addPrinter inserts a printer at the front of the registry, evicting
// any prior entry with the same URI first. Invoked by the finder on a
// supported probe result and by load when replaying persisted entries.
func (m *ManualDiscovery) addPrinter(p *Printer) {
	m.mu.Lock()
	evicted := m.reg.add(p)
	l := m.listener
	m.mu.Unlock()

	if l != nil {
		for _, old := range evicted {
			l.PrinterLost(old.URI)
		}
		l.PrinterFound(p)
	}
	m.logPrinter(log.CategoryFound, p)
}

// printerFromCapabilities normalizes a capability lookup result into a
// printer record. The URI gets an explicit port and an empty display
// name falls back to the URI host.
func (m *ManualDiscovery) printerFromCapabilities(caps *Capabilities) (*Printer, error) {
	uri, err := parsePrinterURI(caps.Path, m.scheme, m.port)
	if err != nil {
		return nil, err
	}

	name := caps.Name
	if name == "" {
		name = uri.Hostname()
	}

	return &Printer{
		ID:       normalizeUUID(caps.UUID),
		Name:     name,
		URI:      uri,
		Location: caps.Location,
	}, nil
}

// load rebuilds the registry from the store, replaying records through
// the same insertion logic as a live add. Records are stored
// most-recent-first, so the replay runs back to front to reproduce the
// original order. Records without a usable URI are skipped.
func (m *ManualDiscovery) load() {
	if m.store == nil {
		return
	}

	doc, err := m.store.Load()
	if err != nil {
		m.logError("load registry", err)
		return
	}
	if doc == nil {
		return
	}

	records := doc.ManualPrinters
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		uri, err := url.Parse(rec.URI)
		if err != nil || uri.Hostname() == "" {
			m.logError("load registry entry", ErrInvalidHostname)
			continue
		}
		fixMissingPort(uri, m.port)

		name := rec.Name
		if name == "" {
			name = uri.Hostname()
		}

		m.addPrinter(&Printer{
			ID:       rec.UUID,
			Name:     name,
			URI:      uri,
			Location: rec.Location,
		})
	}
}

// save serializes the registry to the store, replacing the prior
// contents. Failures are reported through the logger only; the
// in-memory registry stays intact and usable.
func (m *ManualDiscovery) save() {
	if m.store == nil {
		return
	}

	m.mu.Lock()
	printers := m.reg.all()
	m.mu.Unlock()

	doc := &persistence.Document{
		ManualPrinters: make([]persistence.PrinterRecord, 0, len(printers)),
	}
	for _, p := range printers {
		doc.ManualPrinters = append(doc.ManualPrinters, persistence.PrinterRecord{
			UUID:     p.ID,
			Name:     p.Name,
			URI:      p.URI.String(),
			Location: p.Location,
		})
	}

	if err := m.store.Save(doc); err != nil {
		m.logError("save registry", err)
	}
}

func (m *ManualDiscovery) logPrinter(cat log.Category, p *Printer) {
	m.logger.Log(log.Event{
		Timestamp: time.Now(),
		Source:    log.SourceManual,
		Category:  cat,
		URI:       p.URI.String(),
		Printer: &log.PrinterEvent{
			Name:     p.Name,
			ID:       p.ID,
			Location: p.Location,
		},
	})
}

func (m *ManualDiscovery) logState(old, new string) {
	m.logger.Log(log.Event{
		Timestamp: time.Now(),
		Source:    log.SourceManual,
		Category:  log.CategoryState,
		State:     &log.StateChangeEvent{OldState: old, NewState: new},
	})
}

func (m *ManualDiscovery) logError(op string, err error) {
	m.logger.Log(log.Event{
		Timestamp: time.Now(),
		Source:    log.SourceManual,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Op: op, Message: err.Error()},
	})
}

// Compile-time interface satisfaction check.
var _ Discoverer = (*ManualDiscovery)(nil)
