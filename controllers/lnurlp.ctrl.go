package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/getAlby/lnurlhub.go/lib/responses"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// LnurlpController : Pay-parameters discovery controller struct
type LnurlpController struct {
	svc *service.LnurlService
}

func NewLnurlpController(svc *service.LnurlService) *LnurlpController {
	return &LnurlpController{svc: svc}
}

type PayResponseBody struct {
	Callback       string `json:"callback"`
	MaxSendable    int64  `json:"maxSendable"`
	MinSendable    int64  `json:"minSendable"`
	Metadata       string `json:"metadata"`
	CommentAllowed int    `json:"commentAllowed"`
	Tag            string `json:"tag"`
	AllowsNostr    bool   `json:"allowsNostr"`
	NostrPubkey    string `json:"nostrPubkey"`
}

// Lnurlp godoc
// @Summary      Responds to a LNURL payRequest
// @Description  Server side (LN SERVICE) of the LUD-06 lnurl spec, with LUD-12 and NIP-57 extensions
// @Produce      json
// @Param        name path string true "registered name"
// @Tags         Lnurl
// @Success      200  {object}  PayResponseBody
// @Failure      400  {object}  responses.LnurlErrorResponse
// @Router       /.well-known/lnurlp/{name} [get]
func (controller *LnurlpController) Lnurlp(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, responses.NameRequiredError)
	}
	user, err := controller.svc.FindUserByName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, responses.UserNotFoundError)
		}
		c.Logger().Errorf("Failed to look up user: name:%s error: %v", name, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	nostrPubkey, err := controller.svc.NostrPubkey()
	if err != nil {
		c.Logger().Errorf("Failed to derive nostr pubkey: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	responseBody := &PayResponseBody{
		Callback:       fmt.Sprintf("https://%s/get-invoice/%s", controller.svc.Config.Domain, user.Name),
		MaxSendable:    controller.svc.Config.MaxSendable,
		MinSendable:    controller.svc.Config.MinSendable,
		Metadata:       service.EncodeMetadata(user.Name, controller.svc.Config.Domain),
		CommentAllowed: controller.svc.Config.CommentAllowed,
		Tag:            "payRequest",
		AllowsNostr:    !user.DisabledZaps,
		NostrPubkey:    nostrPubkey,
	}
	return c.JSON(http.StatusOK, responseBody)
}
