package hallticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n%%EOF")
	decoded, err := Decode(Encode(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.True(t, IsPDF(decoded))
}

func TestDecodeTolerantInput(t *testing.T) {
	raw := []byte("%PDF-1.7 ticket??>>")
	encoded := Encode(raw)

	cases := map[string]string{
		"wrapped":  encoded[:8] + "\n" + encoded[8:16] + "\r\n " + encoded[16:],
		"unpadded": strings.TrimRight(encoded, "="),
		"url safe": strings.NewReplacer("+", "-", "/", "_").Replace(encoded),
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			decoded, err := Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, raw, decoded)
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("   ")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Decode("not*base64!")
	assert.Error(t, err)
}

func TestIsPDFAndFilename(t *testing.T) {
	assert.False(t, IsPDF([]byte("<html>")))
	assert.Equal(t, "21CS001_hall_ticket.pdf", Filename("21CS001"))
}
