package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/feral-file/notary-bridge/internal/adapter"
)

const signaturePrefix = "sha256="

// GenerateSignedPayload serializes the event as canonical JSON and signs it with HMAC-SHA256.
// The signed string is {timestamp}.{event_id}.{json_body}.
func GenerateSignedPayload(jsonAdapter adapter.JSON, secret []byte, event Event, timestamp int64) (payload []byte, signature string, err error) {
	payload, err = jsonAdapter.MarshalCanonical(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}

	return payload, signaturePrefix + hex.EncodeToString(sign(secret, payload, event.EventID, timestamp)), nil
}

// VerifySignature checks a signature header produced by GenerateSignedPayload
func VerifySignature(secret []byte, payload []byte, eventID string, timestamp int64, signature string) bool {
	encoded, ok := strings.CutPrefix(signature, signaturePrefix)
	if !ok {
		return false
	}
	got, err := hex.DecodeString(encoded)
	if err != nil {
		return false
	}
	return hmac.Equal(got, sign(secret, payload, eventID, timestamp))
}

func sign(secret []byte, payload []byte, eventID string, timestamp int64) []byte {
	h := hmac.New(sha256.New, secret)
	fmt.Fprintf(h, "%d.%s.", timestamp, eventID)
	h.Write(payload)
	return h.Sum(nil)
}
