package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// User : registered owner of a payable name (lightning address)
type User struct {
	ID           int64        `json:"id" bun:",pk,autoincrement"`
	Pubkey       string       `json:"pubkey" bun:",notnull"`
	Name         string       `json:"name" bun:",notnull,unique"`
	DisabledZaps bool         `json:"disabled_zaps" bun:",default:false"`
	CreatedAt    time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt    bun.NullTime `json:"updated_at"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		u.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*User)(nil)
