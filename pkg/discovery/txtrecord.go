package discovery

import (
	"fmt"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// PrinterTXT carries the Bonjour printing TXT fields this package reads.
type PrinterTXT struct {
	// ResourcePath is the printer's resource path (key "rp"), without a
	// leading slash.
	ResourcePath string

	// Name is the human-readable make and model (key "ty").
	Name string

	// Note is the free-text location (key "note").
	Note string

	// UUID is the stable printer identity (key "UUID"), normalized to
	// urn:uuid form when it parses as a UUID.
	UUID string
}

// DecodePrinterTXT parses Bonjour printing TXT records. Only the
// resource path is required.
func DecodePrinterTXT(txt TXTRecordMap) (*PrinterTXT, error) {
	info := &PrinterTXT{}

	rp, ok := txt[TXTKeyResourcePath]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidTXT, TXTKeyResourcePath)
	}
	info.ResourcePath = strings.TrimPrefix(rp, "/")

	info.Name = txt[TXTKeyName]
	info.Note = txt[TXTKeyNote]
	info.UUID = normalizeUUID(txt[TXTKeyUUID])

	return info, nil
}

// EncodePrinterTXT creates Bonjour printing TXT records. Used by tests
// and by fixtures advertising fake printers.
func EncodePrinterTXT(info *PrinterTXT) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyResourcePath] = info.ResourcePath

	if info.Name != "" {
		txt[TXTKeyName] = info.Name
	}
	if info.Note != "" {
		txt[TXTKeyNote] = info.Note
	}
	if info.UUID != "" {
		txt[TXTKeyUUID] = strings.TrimPrefix(info.UUID, "urn:uuid:")
	}

	return txt
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, the format mDNS libraries use.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}
