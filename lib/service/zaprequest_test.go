package service

import (
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
)

func signedZapRequest(t *testing.T, kind int) string {
	sk := nostr.GeneratePrivateKey()
	event := nostr.Event{
		Kind:      kind,
		CreatedAt: nostr.Now(),
		Content:   "zap!",
		Tags: nostr.Tags{
			{"p", "b2d670de53b27691c0c3400225b65c35a26d06093bcc41f48ffc71e0907f9d4a"},
			{"amount", "5000000"},
			{"relays", "wss://relay.example.com"},
		},
	}
	err := event.Sign(sk)
	assert.NoError(t, err)
	payload, err := event.MarshalJSON()
	assert.NoError(t, err)
	return string(payload)
}

func TestParseZapRequest(t *testing.T) {
	payload := signedZapRequest(t, nostr.KindZapRequest)
	event, err := ParseZapRequest(payload)
	assert.NoError(t, err)
	assert.Equal(t, nostr.KindZapRequest, event.Kind)
}

func TestParseZapRequestRejectsMalformedPayload(t *testing.T) {
	_, err := ParseZapRequest("not json")
	assert.ErrorIs(t, err, ErrInvalidZapRequest)
}

func TestParseZapRequestRejectsWrongKind(t *testing.T) {
	payload := signedZapRequest(t, nostr.KindTextNote)
	_, err := ParseZapRequest(payload)
	assert.ErrorIs(t, err, ErrInvalidZapRequest)
}

func TestParseZapRequestRejectsTamperedPayload(t *testing.T) {
	payload := signedZapRequest(t, nostr.KindZapRequest)
	tampered := strings.Replace(payload, "zap!", "zap?", 1)
	_, err := ParseZapRequest(tampered)
	assert.ErrorIs(t, err, ErrInvalidZapRequest)
}
