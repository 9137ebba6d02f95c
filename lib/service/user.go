package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/getAlby/lnurlhub.go/db/models"
)

// RegisterUser creates a payable name bound to a node pubkey. The pubkey must
// be a compressed secp256k1 point; names are unique and first-come-first-served.
func (svc *LnurlService) RegisterUser(ctx context.Context, name string, pubkeyHex string) (user *models.User, err error) {
	raw, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return nil, err
	}
	if _, err = btcec.ParsePubKey(raw); err != nil {
		return nil, err
	}

	existing, err := svc.FindUserByName(ctx, name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	user = &models.User{
		Name:   name,
		Pubkey: pubkeyHex,
	}
	if _, err = svc.DB.NewInsert().Model(user).Exec(ctx); err != nil {
		// the unique index is the authority, the lookup above only a fast path
		if strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return user, nil
}

func (svc *LnurlService) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := svc.DB.NewSelect().Model(&user).Where("name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateZapsDisabled toggles invoice issuance for a name. A disabled name
// still resolves to its discovery document but every callback is rejected.
func (svc *LnurlService) UpdateZapsDisabled(ctx context.Context, name string, disabled bool) (*models.User, error) {
	user, err := svc.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.DisabledZaps = disabled
	if _, err = svc.DB.NewUpdate().Model(user).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}
