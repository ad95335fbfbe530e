package discovery

import (
	"errors"
	"net/url"
	"time"
)

// IPP defaults.
const (
	// DefaultScheme is the URI scheme assumed for manually added printers.
	DefaultScheme = "ipp"

	// DefaultSecureScheme is the URI scheme for TLS-encrypted IPP.
	DefaultSecureScheme = "ipps"

	// DefaultPort is the standard IPP port. URIs stored in the registry
	// always carry an explicit port; a missing port is filled with this.
	DefaultPort = 631
)

// Service type constants for mDNS (Bonjour printing).
const (
	// ServiceTypeIPP is the service type for IPP printers.
	ServiceTypeIPP = "_ipp._tcp"

	// ServiceTypeIPPS is the service type for IPP-over-TLS printers.
	ServiceTypeIPPS = "_ipps._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// TXT record key constants (Bonjour printing specification).
const (
	TXTKeyResourcePath = "rp"   // Resource path, e.g. "ipp/printer"
	TXTKeyName         = "ty"   // Human-readable make and model
	TXTKeyNote         = "note" // Free-text location
	TXTKeyUUID         = "UUID" // Stable printer identity
)

// Timing constants.
const (
	// DefaultCacheTTL is how long CapabilityCache keeps a lookup result.
	DefaultCacheTTL = 15 * time.Minute
)

// ProbePaths lists the resource paths tried, in order, when probing a
// hostname. Most path-specific candidates first, the bare root last.
func ProbePaths() []string {
	return []string{"ipp/printer", "ipp/print", "ipp", ""}
}

// Discovery errors.
var (
	ErrInvalidHostname = errors.New("invalid hostname")
	ErrMissingSource   = errors.New("capability source is required")
	ErrAlreadyStarted  = errors.New("discovery already started")
	ErrNotFound        = errors.New("printer not found")
	ErrInvalidTXT      = errors.New("invalid TXT record")
)

// Printer represents one printer reachable at a network location.
//
// URI is always present and carries an explicit port. ID is an optional
// stable identity (typically a urn:uuid form); Name falls back to the
// URI host when the device reported none.
type Printer struct {
	// ID is the printer's stable identity token, or "" if unknown.
	ID string

	// Name is the display name.
	Name string

	// URI identifies how to reach the printer (scheme://host:port/path).
	URI *url.URL

	// Location is an optional free-text location description.
	Location string
}

// Host returns the host portion of the printer's URI.
func (p *Printer) Host() string {
	if p.URI == nil {
		return ""
	}
	return p.URI.Hostname()
}

// Path returns the path portion of the printer's URI.
func (p *Printer) Path() string {
	if p.URI == nil {
		return ""
	}
	return p.URI.Path
}

// SameURI reports whether both printers name the same URI. This is the
// identity used for registry deduplication.
func (p *Printer) SameURI(other *Printer) bool {
	if p.URI == nil || other == nil || other.URI == nil {
		return false
	}
	return p.URI.String() == other.URI.String()
}

// String returns a short description for logging.
func (p *Printer) String() string {
	if p.URI == nil {
		return p.Name
	}
	return p.Name + " (" + p.URI.String() + ")"
}

// Capabilities is the result of a capability lookup against a candidate
// printer URI.
type Capabilities struct {
	// Path is the resolved printer URI as reported by the device. It may
	// include host and port and may lack a scheme.
	Path string

	// UUID is the printer's stable identity token, or "" if not reported.
	UUID string

	// Name is the reported display name, or "" if not reported.
	Name string

	// Location is the reported location text, or "" if not reported.
	Location string

	// Supported indicates whether this printer can be driven.
	Supported bool
}

// CapabilityHandler receives the result of a capability lookup. A nil
// Capabilities means the URI did not answer.
type CapabilityHandler func(caps *Capabilities)

// CapabilitySource performs capability lookups against candidate printer
// URIs. Implementations must invoke the handler exactly once per Request,
// from any goroutine. The refresh flag forces a fresh lookup through any
// caching layer.
type CapabilitySource interface {
	Request(p *Printer, refresh bool, handler CapabilityHandler)
}

// NetworkCache is implemented by capability sources that keep
// address-keyed network state. Discovery sessions evict entries when they
// re-announce printers so a stale reachability verdict is never reused
// across session restarts.
type NetworkCache interface {
	EvictOnNetworkChange(uri *url.URL)
}

// Listener receives printer notifications from a Discoverer while it is
// announcing.
type Listener interface {
	// PrinterFound reports a printer becoming available.
	PrinterFound(p *Printer)

	// PrinterLost reports that the printer at uri is no longer available.
	PrinterLost(uri *url.URL)
}

// Discoverer is a source of printer found/lost notifications.
type Discoverer interface {
	// Start begins announcing to the listener. Every printer already
	// known to the discoverer is reported immediately.
	Start(l Listener) error

	// Stop ends announcing. No notifications fire until the next Start.
	Stop()
}

// AddCallback receives the outcome of ManualDiscovery.AddManualPrinter.
// Exactly one of the methods is invoked, exactly once.
type AddCallback interface {
	// Found reports that a printer answered one of the probed paths.
	// supported is false when the printer was found but cannot be driven;
	// such printers are not added to the registry.
	Found(p *Printer, supported bool)

	// NotFound reports that no probed path answered.
	NotFound()
}
