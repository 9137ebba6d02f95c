package service

import (
	"encoding/json"

	"github.com/nbd-wtf/go-nostr"
)

// ParseZapRequest validates the `nostr` callback parameter: it must be a
// well-formed nostr event of the zap-request kind with a valid signature
// (NIP-57 appendix D). The raw payload string stays the hashing and storage
// input, the decoded event is only used for validation.
func ParseZapRequest(payload string) (*nostr.Event, error) {
	event := &nostr.Event{}
	if err := json.Unmarshal([]byte(payload), event); err != nil {
		return nil, ErrInvalidZapRequest
	}
	if event.Kind != nostr.KindZapRequest {
		return nil, ErrInvalidZapRequest
	}
	if ok, err := event.CheckSignature(); err != nil || !ok {
		return nil, ErrInvalidZapRequest
	}
	return event, nil
}
