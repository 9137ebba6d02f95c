package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/getAlby/lnurlhub.go/common"
	"github.com/getAlby/lnurlhub.go/db/models"
)

func (svc *LnurlService) StartWebhookSubscription(ctx context.Context) {

	svc.Logger.Infof("Starting webhook subscription with webhook url %s", svc.Config.WebhookUrl)
	settledInvoices := make(chan models.Invoice)
	_, err := svc.InvoicePubSub.Subscribe(common.InvoiceStateSettled, settledInvoices)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case settled := <-settledInvoices:
			svc.postToWebhook(settled)
		}
	}
}
func (svc *LnurlService) postToWebhook(invoice models.Invoice) {

	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(invoice)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := http.Post(svc.Config.WebhookUrl, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
