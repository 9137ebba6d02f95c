package controllers

import (
	"errors"
	"net/http"

	"github.com/getAlby/lnurlhub.go/common"
	"github.com/getAlby/lnurlhub.go/lib/responses"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// VerifyController : Invoice settlement check controller struct
type VerifyController struct {
	svc *service.LnurlService
}

func NewVerifyController(svc *service.LnurlService) *VerifyController {
	return &VerifyController{svc: svc}
}

type VerifyResponseBody struct {
	Status   string  `json:"status"`
	Settled  bool    `json:"settled"`
	Preimage *string `json:"preimage"`
	Pr       string  `json:"pr"`
}

// Verify godoc
// @Summary      Check settlement of an issued invoice
// @Description  Looks up an invoice by payment hash and its description-hash commitment
// @Produce      json
// @Param        desc_hash path string true "description hash, hex"
// @Param        pay_hash path string true "payment hash, hex"
// @Tags         Lnurl
// @Success      200  {object}  VerifyResponseBody
// @Failure      400  {object}  responses.LnurlErrorResponse
// @Router       /verify/{desc_hash}/{pay_hash} [get]
func (controller *VerifyController) Verify(c echo.Context) error {
	invoice, err := controller.svc.VerifyInvoice(c.Request().Context(), c.Param("desc_hash"), c.Param("pay_hash"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to verify invoice: r_hash:%s error: %v", c.Param("pay_hash"), err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	responseBody := &VerifyResponseBody{
		Status:  "OK",
		Settled: invoice.State == common.InvoiceStateSettled,
		Pr:      invoice.PaymentRequest,
	}
	// the preimage is only disclosed once the invoice settled
	if responseBody.Settled {
		responseBody.Preimage = &invoice.Preimage
	}
	return c.JSON(http.StatusOK, responseBody)
}
