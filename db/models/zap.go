package models

import "time"

// Zap : a nostr zap request bound 1:1 to an invoice.
// The row shares its primary key with the invoice it annotates and is
// inserted in the same transaction, so it never exists on its own.
// EventID is only set once a zap receipt has been published downstream.
type Zap struct {
	ID        int64     `json:"id" bun:",pk"`
	Invoice   *Invoice  `json:"-" bun:"rel:belongs-to,join:id=id"`
	Request   string    `json:"request" bun:",notnull"`
	EventID   string    `json:"event_id,omitempty" bun:",nullzero"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
