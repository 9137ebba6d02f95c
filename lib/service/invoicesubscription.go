package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getAlby/lnurlhub.go/common"
	"github.com/getAlby/lnurlhub.go/db/models"
	"github.com/getAlby/lnurlhub.go/lnd"
	"github.com/getsentry/sentry-go"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/uptrace/bun"
)

// ProcessInvoiceUpdate reconciles a node-side invoice update with our store.
// Updates for payment hashes we never issued are ignored, we only track
// invoices minted through the callback.
func (svc *LnurlService) ProcessInvoiceUpdate(ctx context.Context, rawInvoice *lnrpc.Invoice) error {
	var invoice models.Invoice
	rHashStr := hex.EncodeToString(rawInvoice.RHash)

	svc.Logger.Infof("Invoice update: r_hash:%s state:%v", rHashStr, rawInvoice.State.String())

	// Search for an invoice with the r_hash that is NOT settled yet
	err := svc.DB.NewSelect().Model(&invoice).Where("r_hash = ? AND state <> ?",
		rHashStr,
		common.InvoiceStateSettled).Limit(1).Scan(ctx)
	if err != nil {
		svc.Logger.Infof("Invoice not found. Ignoring. r_hash:%s", rHashStr)
		return nil
	}

	if !rawInvoice.Settled {
		svc.Logger.Infof("Invoice not settled invoice_id:%v state: %s", invoice.ID, rawInvoice.State.String())
		// expiry and cancellation both surface as CANCELED on the stream;
		// our lifecycle enum spells the state "cancelled"
		if rawInvoice.State == lnrpc.Invoice_CANCELED {
			invoice.State = common.InvoiceStateCancelled
		} else {
			invoice.State = strings.ToLower(rawInvoice.State.String())
		}
	} else {
		invoice.State = common.InvoiceStateSettled
		invoice.Preimage = hex.EncodeToString(rawInvoice.RPreimage)
		invoice.SettledAt = bun.NullTime{Time: time.Unix(rawInvoice.SettleDate, 0)}
		if rawInvoice.AmtPaidMsat != invoice.Amount {
			svc.Logger.Infof("Invoice overpaid. invoice_id:%v amt:%d amt_paid_msat:%d", invoice.ID, invoice.Amount, rawInvoice.AmtPaidMsat)
		}
	}
	_, err = svc.DB.NewUpdate().Model(&invoice).WherePK().Exec(ctx)
	if err != nil {
		svc.Logger.Errorf("Could not update invoice invoice_id:%v r_hash:%s %v", invoice.ID, rHashStr, err)
		return err
	}

	if invoice.State == common.InvoiceStateSettled {
		svc.InvoicePubSub.Publish(strconv.FormatInt(invoice.UserID, 10), invoice)
		svc.InvoicePubSub.Publish(common.InvoiceStateSettled, invoice)
	}
	return nil
}

func (svc *LnurlService) ConnectInvoiceSubscription(ctx context.Context) (lnd.SubscribeInvoicesWrapper, error) {
	var invoice models.Invoice
	invoiceSubscriptionOptions := lnrpc.InvoiceSubscription{}
	// Find the oldest NOT settled invoice with an add_index
	err := svc.DB.NewSelect().Model(&invoice).Where("invoice.settled_at IS NULL AND invoice.add_index IS NOT NULL").OrderExpr("invoice.id ASC").Limit(1).Scan(ctx)
	// IF we found an invoice we use that index to start the subscription
	if err == nil {
		invoiceSubscriptionOptions = lnrpc.InvoiceSubscription{AddIndex: invoice.AddIndex - 1} // -1 because we want updates for that invoice already
	}
	svc.Logger.Infof("Starting invoice subscription from index: %v", invoiceSubscriptionOptions.AddIndex)
	return svc.LndClient.SubscribeInvoices(ctx, &invoiceSubscriptionOptions)
}

func (svc *LnurlService) InvoiceUpdateSubscription(ctx context.Context) error {
	invoiceSubscriptionStream, err := svc.ConnectInvoiceSubscription(ctx)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
			// receive the next invoice update
			rawInvoice, err := invoiceSubscriptionStream.Recv()
			if err != nil {
				svc.Logger.Errorf("Error processing invoice update subscription: %v", err)
				sentry.CaptureException(err)
				invoiceSubscriptionStream, err = svc.reconnectInvoiceSubscription(ctx)
				if err != nil {
					return err
				}
				continue
			}

			// Ignore updates for open invoices
			// We store the invoice details in the AddInvoice call
			// Processing open invoices here could cause a race condition:
			// We could get this notification faster than we finish the AddInvoice call
			if rawInvoice.State == lnrpc.Invoice_OPEN {
				svc.Logger.Infof("Invoice state is open. Ignoring update. r_hash:%v", hex.EncodeToString(rawInvoice.RHash))
				continue
			}

			processingError := svc.ProcessInvoiceUpdate(ctx, rawInvoice)
			if processingError != nil {
				svc.Logger.Error(fmt.Errorf("Error %s, invoice hash %s", processingError.Error(), hex.EncodeToString(rawInvoice.RHash)))
				sentry.CaptureException(fmt.Errorf("Error %s, invoice hash %s", processingError.Error(), hex.EncodeToString(rawInvoice.RHash)))
			}
		}
	}
}

func (svc *LnurlService) reconnectInvoiceSubscription(ctx context.Context) (stream lnd.SubscribeInvoicesWrapper, err error) {
	err = backoff.Retry(func() error {
		stream, err = svc.ConnectInvoiceSubscription(ctx)
		return err
	}, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
	return stream, err
}
