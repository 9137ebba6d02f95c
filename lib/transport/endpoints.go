package transport

import (
	"fmt"
	"net/http"

	"github.com/getAlby/lnurlhub.go/controllers"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterEndpoints(svc *service.LnurlService, e *echo.Echo, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	lnurlpCtrl := controllers.NewLnurlpController(svc)
	invoiceCtrl := controllers.NewInvoiceController(svc)
	verifyCtrl := controllers.NewVerifyController(svc)

	// The discovery document is served from the well-known path wallets
	// resolve a lightning address against. It only changes when the user
	// flips the zap flag, so it is cheap to cache.
	e.GET("/.well-known/lnurlp/:name", lnurlpCtrl.Lnurlp, CreateCacheClient().Middleware(), logMw)
	e.GET("/get-invoice/:name", invoiceCtrl.GetInvoice, logMw)
	e.GET("/verify/:desc_hash/:pay_hash", verifyCtrl.Verify, logMw)

	e.POST("/v1/register", controllers.NewRegisterController(svc).Register, strictRateLimitMiddleware, logMw)
	//require admin token for update user endpoint
	if svc.Config.AdminToken != "" {
		e.PUT("/v1/admin/users", controllers.NewUserController(svc).UpdateUser, strictRateLimitMiddleware, adminMw)
	}

	e.GET("/health-check", controllers.NewHealthController().HealthCheck)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.String(http.StatusNotFound, fmt.Sprintf("No route for %s", c.Request().RequestURI))
	})
}
