// Package discovery implements discovery of IPP network printers.
//
// Two discovery sources are provided:
//
// # Manual discovery
//
// ManualDiscovery maintains a persisted registry of printers added by the
// user. Given a hostname, it probes a fixed list of likely IPP resource
// paths against a CapabilitySource until one answers:
//
//	ipp/printer, ipp/print, ipp, "" (root)
//
// The first responding path wins. Supported printers are inserted at the
// front of the registry (most-recent-first, deduplicated by URI) and the
// registry survives process restarts via pkg/persistence.
//
// # mDNS discovery
//
// MDNSDiscovery browses _ipp._tcp/_ipps._tcp (Bonjour printing) and maps
// discovered services onto the same Printer record and Listener surface.
//
// # Aggregation
//
// MultiDiscovery fans any number of Discoverers into a single Listener,
// deduplicating by printer URI.
//
// The actual capability lookup transport (issuing an IPP request and
// parsing the response) is not part of this package; callers supply it
// through the CapabilitySource interface. CapabilityCache decorates any
// CapabilitySource with TTL caching and network-change eviction.
package discovery
