package service

import (
	"crypto/sha256"
	"fmt"
)

// EncodeMetadata renders the LNURL metadata array for a payable name.
// The rendering must stay byte-for-byte stable across releases: its sha256
// digest is the description-hash commitment carried by issued invoices, and a
// verifier recomputes the digest from these same inputs.
func EncodeMetadata(name, domain string) string {
	return fmt.Sprintf("[[\"text/identifier\",\"%s@%s\"],[\"text/plain\",\"Sats for %s\"]]", name, domain, name)
}

// DescriptionHash computes the commitment bound into an invoice, either over
// the rendered metadata or over a raw zap-request payload.
func DescriptionHash(payload []byte) [32]byte {
	return sha256.Sum256(payload)
}
