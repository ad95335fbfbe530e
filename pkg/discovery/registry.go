package discovery

// registry is the ordered list of manually added printers,
// most-recent-first, with no duplicate URIs. It holds plain data only;
// the owning ManualDiscovery serializes all access under its mutex and
// performs listener signaling and persistence around these operations.
type registry struct {
	printers []*Printer
}

// add inserts p at the front, removing any prior entries with the same
// URI first. Removed entries are returned so the caller can signal them
// as lost.
func (r *registry) add(p *Printer) []*Printer {
	var evicted []*Printer

	kept := r.printers[:0]
	for _, other := range r.printers {
		if other.SameURI(p) {
			evicted = append(evicted, other)
			continue
		}
		kept = append(kept, other)
	}

	r.printers = append([]*Printer{p}, kept...)
	return evicted
}

// removeByPath removes the first entry whose URI path equals the
// target's path and returns it, or nil when nothing matched.
func (r *registry) removeByPath(target *Printer) *Printer {
	for i, p := range r.printers {
		if p.Path() == target.Path() {
			r.printers = append(r.printers[:i], r.printers[i+1:]...)
			return p
		}
	}
	return nil
}

// all returns a copy of the list, most-recent-first.
func (r *registry) all() []*Printer {
	out := make([]*Printer, len(r.printers))
	copy(out, r.printers)
	return out
}

// len returns the number of entries.
func (r *registry) len() int {
	return len(r.printers)
}
