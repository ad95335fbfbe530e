package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printkit/printkit-go/pkg/discovery"
)

func TestDecodePrinterTXT(t *testing.T) {
	t.Run("AllFields", func(t *testing.T) {
		txt := discovery.TXTRecordMap{
			"rp":   "ipp/printer",
			"ty":   "ACME LaserJet 9000",
			"note": "Copy room",
			"UUID": "550e8400-e29b-41d4-a716-446655440000",
		}

		info, err := discovery.DecodePrinterTXT(txt)
		require.NoError(t, err)
		assert.Equal(t, "ipp/printer", info.ResourcePath)
		assert.Equal(t, "ACME LaserJet 9000", info.Name)
		assert.Equal(t, "Copy room", info.Note)
		assert.Equal(t, "urn:uuid:550e8400-e29b-41d4-a716-446655440000", info.UUID)
	})

	t.Run("OnlyResourcePathRequired", func(t *testing.T) {
		info, err := discovery.DecodePrinterTXT(discovery.TXTRecordMap{"rp": "ipp/print"})
		require.NoError(t, err)
		assert.Equal(t, "ipp/print", info.ResourcePath)
		assert.Empty(t, info.Name)
	})

	t.Run("LeadingSlashStripped", func(t *testing.T) {
		info, err := discovery.DecodePrinterTXT(discovery.TXTRecordMap{"rp": "/ipp/printer"})
		require.NoError(t, err)
		assert.Equal(t, "ipp/printer", info.ResourcePath)
	})

	t.Run("MissingResourcePath", func(t *testing.T) {
		_, err := discovery.DecodePrinterTXT(discovery.TXTRecordMap{"ty": "nameless"})
		assert.ErrorIs(t, err, discovery.ErrInvalidTXT)
	})
}

func TestPrinterTXTRoundTrip(t *testing.T) {
	info := &discovery.PrinterTXT{
		ResourcePath: "ipp/printer",
		Name:         "ACME LaserJet 9000",
		Note:         "Copy room",
		UUID:         "urn:uuid:550e8400-e29b-41d4-a716-446655440000",
	}

	strs := discovery.TXTRecordsToStrings(discovery.EncodePrinterTXT(info))
	decoded, err := discovery.DecodePrinterTXT(discovery.StringsToTXTRecords(strs))
	require.NoError(t, err)
	assert.Equal(t, info, decoded)
}

func TestStringsToTXTRecords(t *testing.T) {
	txt := discovery.StringsToTXTRecords([]string{"rp=ipp/printer", "flag", "ty=a=b"})
	assert.Equal(t, "ipp/printer", txt["rp"])
	assert.Equal(t, "", txt["flag"])
	assert.Equal(t, "a=b", txt["ty"], "values may contain '='")
}
