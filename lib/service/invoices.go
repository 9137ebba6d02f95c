package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/getAlby/lnurlhub.go/common"
	"github.com/getAlby/lnurlhub.go/db/models"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/uptrace/bun"
)

// CallbackParams are the decoded query parameters of the LNURL-pay callback.
// Amount is a pointer so a missing parameter is distinguishable from zero.
type CallbackParams struct {
	Amount  *int64 // millisatoshi
	Comment string
	Nostr   string // raw zap request payload, verbatim as received
}

// HandleInvoiceCallback runs the full callback pipeline for a payable name:
// parameter checks in a fixed order, description-hash selection, invoice
// issuance against LND and the transactional write of the invoice row plus
// its zap row when one applies.
func (svc *LnurlService) HandleInvoiceCallback(ctx context.Context, name string, params *CallbackParams) (*models.Invoice, error) {
	if params.Amount == nil {
		return nil, ErrMissingAmount
	}
	amountMsat := *params.Amount
	if amountMsat < svc.Config.MinSendable || amountMsat > svc.Config.MaxSendable {
		return nil, ErrAmountOutOfBounds
	}
	user, err := svc.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// a disabled user gets no invoices at all, zap request or not
	if user.DisabledZaps {
		return nil, ErrZapsDisabled
	}

	// The commitment covers the metadata document, or the raw zap request
	// when one is attached. Hashing the payload verbatim keeps the
	// commitment reproducible for zap receipt consumers.
	var commitment [32]byte
	if params.Nostr != "" {
		if _, err = ParseZapRequest(params.Nostr); err != nil {
			return nil, ErrInvalidZapRequest
		}
		commitment = DescriptionHash([]byte(params.Nostr))
	} else {
		commitment = DescriptionHash([]byte(EncodeMetadata(name, svc.Config.Domain)))
	}

	if svc.Config.CommentAllowed > 0 && len(params.Comment) > svc.Config.CommentAllowed {
		return nil, ErrCommentTooLong
	}

	invoice, err := svc.issueInvoice(ctx, user, amountMsat, commitment, params.Comment)
	if err != nil {
		return nil, err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(invoice).Exec(ctx); err != nil {
			return err
		}
		if params.Nostr != "" {
			// the zap row shares the invoice id, so the pair is atomic
			zap := &models.Zap{
				ID:      invoice.ID,
				Request: params.Nostr,
			}
			if _, err := tx.NewInsert().Model(zap).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		svc.Logger.Errorf("Failed to store invoice: user_id:%v r_hash:%s error: %v", user.ID, invoice.RHash, err)
		return nil, ErrPersistenceFailed
	}

	svc.Logger.Infof("Issued invoice: user_id:%v amount_msat:%v r_hash:%s zap:%t", user.ID, amountMsat, invoice.RHash, params.Nostr != "")
	return invoice, nil
}

// issueInvoice mints an invoice on the node and cross-checks the returned
// payment request before it is handed out: the encoded amount must equal the
// requested amount exactly, in millisatoshi.
func (svc *LnurlService) issueInvoice(ctx context.Context, user *models.User, amountMsat int64, commitment [32]byte, comment string) (*models.Invoice, error) {
	preimage, err := makePreimageHex()
	if err != nil {
		return nil, err
	}
	lnInvoice := lnrpc.Invoice{
		ValueMsat:       amountMsat,
		DescriptionHash: commitment[:],
		RPreimage:       preimage,
		Expiry:          svc.Config.InvoiceExpiry,
	}
	resp, err := svc.LndClient.AddInvoice(ctx, &lnInvoice)
	if err != nil {
		svc.Logger.Errorf("Failed to issue invoice: user_id:%v error: %v", user.ID, err)
		return nil, ErrIssuerUnavailable
	}
	decoded, err := svc.DecodePaymentRequest(ctx, resp.PaymentRequest)
	if err != nil {
		svc.Logger.Errorf("Failed to decode issued invoice: user_id:%v error: %v", user.ID, err)
		return nil, ErrIssuerUnavailable
	}
	if decoded.MilliSat == nil || int64(*decoded.MilliSat) != amountMsat {
		svc.Logger.Errorf("Issued invoice amount mismatch: user_id:%v requested:%v", user.ID, amountMsat)
		return nil, ErrInvoiceAmountMismatch
	}

	invoice := &models.Invoice{
		UserID:               user.ID,
		PaymentRequest:       resp.PaymentRequest,
		Amount:               amountMsat,
		DescriptionHash:      hex.EncodeToString(commitment[:]),
		RHash:                hex.EncodeToString(resp.RHash),
		Preimage:             hex.EncodeToString(preimage),
		Comment:              comment,
		DestinationPubkeyHex: user.Pubkey,
		State:                common.InvoiceStatePending,
		AddIndex:             resp.AddIndex,
		ExpiresAt:            bun.NullTime{Time: time.Now().Add(time.Duration(svc.Config.InvoiceExpiry) * time.Second)},
	}
	return invoice, nil
}

// VerifyInvoice looks up a previously issued invoice by payment hash and
// checks the caller-supplied description hash against the stored commitment.
// A wrong commitment is indistinguishable from an unknown invoice on purpose.
func (svc *LnurlService) VerifyInvoice(ctx context.Context, descriptionHashHex string, paymentHashHex string) (*models.Invoice, error) {
	invoice, err := svc.FindInvoiceByPaymentHash(ctx, paymentHashHex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if invoice.DescriptionHash != descriptionHashHex {
		return nil, ErrNotFound
	}
	return invoice, nil
}

func (svc *LnurlService) FindInvoiceByPaymentHash(ctx context.Context, rHash string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := svc.DB.NewSelect().Model(&invoice).Where("r_hash = ?", rHash).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (svc *LnurlService) DecodePaymentRequest(ctx context.Context, bolt11 string) (*zpay32.Invoice, error) {
	return zpay32.Decode(bolt11, ChainFromCurrency(bolt11[2:]))
}
