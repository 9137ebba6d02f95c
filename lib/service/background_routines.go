package service

import (
	"context"

	"github.com/getAlby/lnurlhub.go/common"
	"github.com/getAlby/lnurlhub.go/db/models"
	"github.com/getAlby/lnurlhub.go/rabbitmq"
)

func (svc *LnurlService) StartInvoiceRoutine(ctx context.Context) (err error) {
	err = svc.InvoiceUpdateSubscription(ctx)
	if err != nil && err != context.Canceled {
		// in case of an error in this routine, we want to restart the server
		return err
	}
	return nil
}

func (svc *LnurlService) StartRabbitMqPublisher(ctx context.Context) (err error) {
	err = svc.RabbitMQClient.StartPublishInvoices(ctx, svc.SubscribeSettledInvoices, rabbitmq.EncodeInvoice)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (svc *LnurlService) SubscribeSettledInvoices(ctx context.Context) (invoices chan models.Invoice, err error) {
	invoices = make(chan models.Invoice)
	_, err = svc.InvoicePubSub.Subscribe(common.InvoiceStateSettled, invoices)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
