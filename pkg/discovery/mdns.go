package discovery

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/printkit/printkit-go/pkg/log"
)

// MDNSConfig configures an MDNSDiscovery.
type MDNSConfig struct {
	// Service is the mDNS service type to browse.
	// Default: ServiceTypeIPP.
	Service string

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// Logger receives discovery events. Nil disables logging.
	Logger log.Logger
}

// DefaultMDNSConfig returns the default mDNS configuration.
func DefaultMDNSConfig() MDNSConfig {
	return MDNSConfig{
		Service: ServiceTypeIPP,
	}
}

// MDNSDiscovery discovers IPP printers via mDNS (Bonjour printing) and
// reports them on the same Listener surface ManualDiscovery uses.
type MDNSDiscovery struct {
	config MDNSConfig

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewMDNSDiscovery creates a new mDNS discovery source.
func NewMDNSDiscovery(config MDNSConfig) *MDNSDiscovery {
	if config.Service == "" {
		config.Service = ServiceTypeIPP
	}
	if config.Logger == nil {
		config.Logger = log.NoopLogger{}
	}
	return &MDNSDiscovery{config: config}
}

// Start begins browsing and announcing discovered printers to the
// listener. Printers are aggregated by instance name; addresses seen on
// multiple interfaces merge into one entry, and a printer is reported
// lost only once its last interface disappears.
func (d *MDNSDiscovery) Start(l Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := d.browserOptions()

	// Process entries with aggregation
	go func() {
		// Track printers by instance name, aggregating addresses
		type tracked struct {
			printer *Printer
			addrs   []string
		}
		printers := make(map[string]*tracked)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				printer := d.entryToPrinter(entry)
				if printer == nil {
					continue
				}

				existing, found := printers[entry.Instance]
				if found {
					existing.addrs = mergeAddresses(existing.addrs, entryAddresses(entry))
					continue
				}

				printers[entry.Instance] = &tracked{
					printer: printer,
					addrs:   entryAddresses(entry),
				}
				d.logPrinter(log.CategoryFound, printer)
				l.PrinterFound(printer)

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				existing, found := printers[entry.Instance]
				if !found {
					continue
				}
				existing.addrs = removeAddresses(existing.addrs, entryAddresses(entry))
				if len(existing.addrs) == 0 {
					delete(printers, entry.Instance)
					d.logPrinter(log.CategoryLost, existing.printer)
					l.PrinterLost(existing.printer.URI)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, d.config.Service, Domain, entries, removed, opts...)
	}()

	return nil
}

// Stop ends browsing. Discovered printers are forgotten; the next Start
// re-reports everything still on the network.
func (d *MDNSDiscovery) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// browserOptions returns zeroconf client options based on config.
func (d *MDNSDiscovery) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if d.config.Interface != "" {
		iface, err := net.InterfaceByName(d.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToPrinter converts a zeroconf entry to a Printer. Entries without
// a decodable resource path are dropped.
func (d *MDNSDiscovery) entryToPrinter(entry *zeroconf.ServiceEntry) *Printer {
	txt := StringsToTXTRecords(entry.Text)
	info, err := DecodePrinterTXT(txt)
	if err != nil {
		return nil
	}

	scheme := DefaultScheme
	if d.config.Service == ServiceTypeIPPS {
		scheme = DefaultSecureScheme
	}

	host := strings.TrimSuffix(entry.HostName, ".")
	if host == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	uri := &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	if info.ResourcePath != "" {
		uri.Path = "/" + info.ResourcePath
	}

	name := info.Name
	if name == "" {
		name = entry.Instance
	}
	if name == "" {
		name = uri.Hostname()
	}

	return &Printer{
		ID:       info.UUID,
		Name:     name,
		URI:      uri,
		Location: info.Note,
	}
}

func (d *MDNSDiscovery) logPrinter(cat log.Category, p *Printer) {
	d.config.Logger.Log(log.Event{
		Timestamp: time.Now(),
		Source:    log.SourceMDNS,
		Category:  cat,
		URI:       p.URI.String(),
		Printer: &log.PrinterEvent{
			Name:     p.Name,
			ID:       p.ID,
			Location: p.Location,
		},
	})
}

// entryAddresses collects all resolved addresses of an entry.
func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// mergeAddresses returns the union of both address lists.
func mergeAddresses(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[a] = struct{}{}
	}
	for _, a := range incoming {
		if _, ok := seen[a]; !ok {
			existing = append(existing, a)
			seen[a] = struct{}{}
		}
	}
	return existing
}

// removeAddresses removes the given addresses from the list.
func removeAddresses(existing, gone []string) []string {
	drop := make(map[string]struct{}, len(gone))
	for _, a := range gone {
		drop[a] = struct{}{}
	}
	kept := existing[:0]
	for _, a := range existing {
		if _, ok := drop[a]; !ok {
			kept = append(kept, a)
		}
	}
	return kept
}

// Compile-time interface satisfaction check.
var _ Discoverer = (*MDNSDiscovery)(nil)
