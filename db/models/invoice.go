package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Invoice : a single issued payment request.
// Amount is kept in millisatoshis, the unit the LNURL protocol speaks.
type Invoice struct {
	ID                   int64        `json:"id" bun:",pk,autoincrement"`
	UserID               int64        `json:"user_id" validate:"required"`
	User                 *User        `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	PaymentRequest       string       `json:"payment_request" bun:",nullzero"`
	Amount               int64        `json:"amount" validate:"gt=0"`
	DescriptionHash      string       `json:"description_hash" bun:",nullzero"`
	RHash                string       `json:"r_hash"`
	Preimage             string       `json:"preimage" bun:",nullzero"`
	Comment              string       `json:"comment,omitempty" bun:",nullzero"`
	DestinationPubkeyHex string       `json:"destination_pubkey_hex" bun:",notnull"`
	State                string       `json:"state" bun:",default:'pending'"`
	AddIndex             uint64       `json:"-" bun:",nullzero"`
	CreatedAt            time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	ExpiresAt            bun.NullTime `json:"expires_at" bun:",nullzero"`
	SettledAt            bun.NullTime `json:"settled_at"`
	UpdatedAt            bun.NullTime `json:"updated_at"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)
