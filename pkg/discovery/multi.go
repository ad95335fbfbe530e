package discovery

import (
	"net/url"
	"sync"
	"time"

	"github.com/printkit/printkit-go/pkg/log"
)

// MultiDiscovery fans several discovery sources into a single listener.
// A printer reported by more than one source appears once; it is
// reported lost only after every source that found it loses it.
type MultiDiscovery struct {
	children []Discoverer
	logger   log.Logger

	mu       sync.Mutex
	listener Listener
	printers map[string]*Printer // keyed by URI
	counts   map[string]int      // how many sources currently report the URI
}

// NewMultiDiscovery creates an aggregating discoverer over the given
// sources.
func NewMultiDiscovery(logger log.Logger, children ...Discoverer) *MultiDiscovery {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &MultiDiscovery{
		children: children,
		logger:   logger,
	}
}

// Start starts every child source, announcing the union of their
// printers to the listener.
func (d *MultiDiscovery) Start(l Listener) error {
	d.mu.Lock()
	if d.listener != nil {
		d.mu.Unlock()
		return ErrAlreadyStarted
	}
	d.listener = l
	d.printers = make(map[string]*Printer)
	d.counts = make(map[string]int)
	d.mu.Unlock()

	for _, child := range d.children {
		if err := child.Start((*multiListener)(d)); err != nil {
			// Roll back the children already running
			for _, started := range d.children {
				if started == child {
					break
				}
				started.Stop()
			}
			d.mu.Lock()
			d.listener = nil
			d.mu.Unlock()
			return err
		}
	}
	return nil
}

// Stop stops every child source.
func (d *MultiDiscovery) Stop() {
	for _, child := range d.children {
		child.Stop()
	}

	d.mu.Lock()
	d.listener = nil
	d.printers = nil
	d.counts = nil
	d.mu.Unlock()
}

// multiListener is the listener handed to child sources. A separate type
// keeps the child-facing surface off MultiDiscovery's public API.
type multiListener MultiDiscovery

// PrinterFound aggregates found notifications across sources.
func (ml *multiListener) PrinterFound(p *Printer) {
	d := (*MultiDiscovery)(ml)

	d.mu.Lock()
	l := d.listener
	if l == nil {
		d.mu.Unlock()
		return
	}
	key := p.URI.String()
	d.counts[key]++
	first := d.counts[key] == 1
	if first {
		d.printers[key] = p
	}
	d.mu.Unlock()

	if first {
		d.logPrinter(log.CategoryFound, p)
		l.PrinterFound(p)
	}
}

// PrinterLost aggregates lost notifications across sources.
func (ml *multiListener) PrinterLost(uri *url.URL) {
	d := (*MultiDiscovery)(ml)

	d.mu.Lock()
	l := d.listener
	if l == nil {
		d.mu.Unlock()
		return
	}
	key := uri.String()
	if d.counts[key] == 0 {
		d.mu.Unlock()
		return
	}
	d.counts[key]--
	last := d.counts[key] == 0
	var p *Printer
	if last {
		p = d.printers[key]
		delete(d.printers, key)
		delete(d.counts, key)
	}
	d.mu.Unlock()

	if last {
		if p != nil {
			d.logPrinter(log.CategoryLost, p)
		}
		l.PrinterLost(uri)
	}
}

func (d *MultiDiscovery) logPrinter(cat log.Category, p *Printer) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		Source:    log.SourceMulti,
		Category:  cat,
		URI:       p.URI.String(),
		Printer: &log.PrinterEvent{
			Name:     p.Name,
			ID:       p.ID,
			Location: p.Location,
		},
	})
}

// Compile-time interface satisfaction check.
var _ Discoverer = (*MultiDiscovery)(nil)
var _ Listener = (*multiListener)(nil)
