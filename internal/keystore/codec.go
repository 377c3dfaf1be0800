package keystore

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encode strips carriage returns and newlines from value and returns its
// standard Base64 encoding.
func Encode(value string) string {
	clean := strings.NewReplacer("\r", "", "\n", "").Replace(value)
	return base64.StdEncoding.EncodeToString([]byte(clean))
}

// Decode reverses Encode. Unpadded and URL-safe encodings written by other
// tools are accepted as well.
func Decode(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		data, err := enc.DecodeString(encoded)
		if err == nil {
			return string(data), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", fmt.Errorf("invalid base64 value: %w", firstErr)
}
