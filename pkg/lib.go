package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

func RandToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSignatureDataURI extracts the raw PNG bytes from a captured
// signature payload ("data:image/png;base64,...."). The second return is
// false when the payload is absent or not a data-URI-encoded image, which
// means the stamped document gets a date only.
func DecodeSignatureDataURI(payload string) ([]byte, bool) {
	if !strings.HasPrefix(payload, "data:image") {
		return nil, false
	}
	_, data, ok := strings.Cut(payload, ",")
	if !ok {
		return nil, false
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, false
	}
	return decoded, true
}
