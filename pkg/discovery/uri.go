package discovery

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// repairHostname normalizes a user-supplied hostname into a bare host
// (optionally host:port). A pasted URI like "ipp://host/path" is reduced
// to its host portion.
func repairHostname(hostname string) (string, error) {
	h := strings.TrimSpace(hostname)

	// Strip a pasted scheme
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}

	// Strip any path, query or fragment
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(h, sep); i >= 0 {
			h = h[:i]
		}
	}

	if h == "" {
		return "", ErrInvalidHostname
	}
	return h, nil
}

// baseURI builds the probe base for a repaired hostname. A port already
// present in the hostname is kept, otherwise the default is appended.
func baseURI(scheme, hostname string, port int) (*url.URL, error) {
	host := hostname
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, strconv.Itoa(port))
	}

	u, err := url.Parse(scheme + "://" + host)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHostname, hostname)
	}
	return u, nil
}

// parsePrinterURI parses a printer path as reported in a capability
// lookup result. The value may be a full URI or a bare "host:port/path";
// a missing scheme gets the supplied default and a missing port is
// filled with the default port.
func parsePrinterURI(path, scheme string, port int) (*url.URL, error) {
	s := strings.TrimSpace(path)
	if s == "" {
		return nil, fmt.Errorf("%w: empty printer path", ErrInvalidHostname)
	}
	if !strings.Contains(s, "://") {
		s = scheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHostname, path)
	}

	fixMissingPort(u, port)
	return u, nil
}

// fixMissingPort appends the given port when the URI has none.
func fixMissingPort(u *url.URL, port int) {
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	}
}

// normalizeUUID normalizes a reported identity token to urn:uuid form
// when it parses as a UUID. Unparsable tokens are kept verbatim; identity
// is opaque to the registry.
func normalizeUUID(s string) string {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "urn:uuid:")
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return "urn:uuid:" + id.String()
}
