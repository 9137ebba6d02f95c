package service

import (
	"errors"

	"github.com/getAlby/lnurlhub.go/lnd"
	"github.com/getAlby/lnurlhub.go/rabbitmq"
	"github.com/nbd-wtf/go-nostr"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

// Sentinel errors for every failure mode of the callback flow. Controllers
// map these to the matching LNURL error documents; their messages mirror the
// wire-level reason strings.
var (
	ErrMissingAmount         = errors.New("Missing amount parameter")
	ErrAmountOutOfBounds     = errors.New("Amount out of bounds")
	ErrUserNotFound          = errors.New("User not found")
	ErrZapsDisabled          = errors.New("Zaps are disabled for this user")
	ErrInvalidZapRequest     = errors.New("Invalid zap request")
	ErrCommentTooLong        = errors.New("Comment too long")
	ErrInvoiceAmountMismatch = errors.New("Invoice amount mismatch")
	ErrIssuerUnavailable     = errors.New("issuer unavailable")
	ErrPersistenceFailed     = errors.New("persistence failed")
	ErrNameTaken             = errors.New("NameTaken")
	ErrNotFound              = errors.New("Not found")
)

type LnurlService struct {
	Config         *Config
	DB             *bun.DB
	LndClient      lnd.LightningClientWrapper
	RabbitMQClient rabbitmq.Client
	Logger         *lecho.Logger
	InvoicePubSub  *Pubsub
}

// NostrPubkey derives the hex pubkey advertised in the pay-parameters
// document from the configured private key.
func (svc *LnurlService) NostrPubkey() (string, error) {
	return nostr.GetPublicKey(svc.Config.NostrPrivateKey)
}
