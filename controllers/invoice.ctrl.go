package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/getAlby/lnurlhub.go/lib/responses"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// InvoiceController : Invoice issuance callback controller struct
type InvoiceController struct {
	svc *service.LnurlService
}

func NewInvoiceController(svc *service.LnurlService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type CallbackResponseBody struct {
	Status string   `json:"status"`
	Pr     string   `json:"pr"`
	Routes []string `json:"routes"`
}

// GetInvoice godoc
// @Summary      LNURL-pay callback
// @Description  Issues a bolt11 invoice for a registered name, optionally committed to a zap request
// @Produce      json
// @Param        name path string true "registered name"
// @Param        amount query int true "amount in millisatoshi"
// @Param        comment query string false "payer comment"
// @Param        nostr query string false "zap request event"
// @Tags         Lnurl
// @Success      200  {object}  CallbackResponseBody
// @Failure      400  {object}  responses.LnurlErrorResponse
// @Router       /get-invoice/{name} [get]
func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	params := &service.CallbackParams{
		Comment: c.QueryParam("comment"),
		Nostr:   c.QueryParam("nostr"),
	}
	if c.QueryParams().Has("amount") {
		amount, err := strconv.ParseInt(c.QueryParam("amount"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.MissingAmountError)
		}
		params.Amount = &amount
	}

	invoice, err := controller.svc.HandleInvoiceCallback(c.Request().Context(), c.Param("name"), params)
	if err != nil {
		var resp *responses.LnurlErrorResponse
		switch {
		case errors.Is(err, service.ErrMissingAmount):
			resp = &responses.MissingAmountError
		case errors.Is(err, service.ErrAmountOutOfBounds):
			resp = &responses.AmountOutOfBoundsError
		case errors.Is(err, service.ErrUserNotFound):
			resp = &responses.UserNotFoundError
		case errors.Is(err, service.ErrZapsDisabled):
			resp = &responses.ZapsDisabledError
		case errors.Is(err, service.ErrInvalidZapRequest):
			resp = &responses.InvalidZapRequestError
		case errors.Is(err, service.ErrCommentTooLong):
			resp = &responses.CommentTooLongError
		case errors.Is(err, service.ErrInvoiceAmountMismatch):
			resp = &responses.InvoiceAmountMismatchError
		default:
			c.Logger().Errorf("Failed to handle invoice callback: name:%s error: %v", c.Param("name"), err)
			return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
		}
		return c.JSON(http.StatusBadRequest, resp)
	}

	return c.JSON(http.StatusOK, &CallbackResponseBody{
		Status: "OK",
		Pr:     invoice.PaymentRequest,
		Routes: []string{},
	})
}
