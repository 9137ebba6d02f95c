package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// LnurlErrorResponse is the error document the LNURL protocol mandates
// (LUD-06): `{"status":"ERROR","reason":"..."}`. The reason strings are part
// of the wire contract consumed by existing wallets and must not change.
type LnurlErrorResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

var MissingAmountError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Missing amount parameter",
}

var AmountOutOfBoundsError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Amount out of bounds",
}

var UserNotFoundError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "User not found",
}

var ZapsDisabledError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Zaps are disabled for this user",
}

var InvalidZapRequestError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Invalid zap request",
}

var InvoiceAmountMismatchError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Invoice amount mismatch",
}

var CommentTooLongError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Comment too long",
}

var NameRequiredError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Name parameter is required",
}

var NotFoundError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "Not found",
}

var GeneralServerError = LnurlErrorResponse{
	Status: "ERROR",
	Reason: "ServerError",
}

// Plain-text bodies of the registration endpoint, kept for client
// compatibility.
const (
	NameTakenReason   = "NameTaken"
	ServerErrorReason = "ServerError"
)

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}

// client input errors are expected traffic, not exceptions
func isErrAllowedForSentry(err error) bool {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code >= http.StatusInternalServerError
	}
	return true
}
