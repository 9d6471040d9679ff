// Package hallticket converts stored hall ticket payloads to and from the
// PDF bytes delivered to students.
package hallticket

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ContentType is the media type of a delivered hall ticket.
const ContentType = "application/pdf"

var pdfMagic = []byte("%PDF-")

// ErrEmptyPayload is returned when a stored ticket has no content.
var ErrEmptyPayload = errors.New("hall ticket payload is empty")

// Encode renders raw document bytes in the stored text form.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode. Whitespace is ignored and both padded and unpadded
// input are accepted; the URL-safe alphabet is tried when the standard one
// fails.
func Decode(payload string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)
	if cleaned == "" {
		return nil, ErrEmptyPayload
	}
	unpadded := strings.TrimRight(cleaned, "=")

	for _, enc := range []*base64.Encoding{base64.RawStdEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(unpadded); err == nil {
			return data, nil
		}
	}
	_, err := base64.StdEncoding.DecodeString(cleaned)
	if err == nil {
		err = errors.New("malformed padding")
	}
	return nil, fmt.Errorf("decode hall ticket payload: %w", err)
}

// IsPDF reports whether data starts with the PDF signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Filename is the attachment name for a student's hall ticket.
func Filename(rollNumber string) string {
	return rollNumber + "_hall_ticket.pdf"
}
