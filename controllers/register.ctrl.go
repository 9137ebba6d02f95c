package controllers

import (
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/getAlby/lnurlhub.go/lib/responses"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// RegisterController : User registration controller struct
type RegisterController struct {
	svc *service.LnurlService
}

func NewRegisterController(svc *service.LnurlService) *RegisterController {
	return &RegisterController{svc: svc}
}

type RegisterRequestBody struct {
	Name   string `json:"name" validate:"required"`
	Pubkey string `json:"pubkey" validate:"required,hexadecimal,len=66"`
}

type RegisterResponseBody struct {
	Name string `json:"name"`
}

// Register godoc
// @Summary      Register a payable name
// @Description  Binds a unique name to a compressed secp256k1 pubkey
// @Accept       json
// @Produce      json
// @Param        RegisterRequestBody body RegisterRequestBody true "name and pubkey"
// @Tags         Users
// @Success      200  {object}  RegisterResponseBody
// @Failure      400  {string}  string
// @Failure      500  {string}  string
// @Router       /v1/register [post]
func (controller *RegisterController) Register(c echo.Context) error {
	var body RegisterRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load register request body: %v", err)
		return c.String(http.StatusBadRequest, responses.ServerErrorReason)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid register request body: %v", err)
		return c.String(http.StatusBadRequest, responses.ServerErrorReason)
	}
	raw, err := hex.DecodeString(body.Pubkey)
	if err != nil {
		return c.String(http.StatusBadRequest, responses.ServerErrorReason)
	}
	if _, err = btcec.ParsePubKey(raw); err != nil {
		c.Logger().Errorf("Pubkey is not a valid curve point: %v", err)
		return c.String(http.StatusBadRequest, responses.ServerErrorReason)
	}

	user, err := controller.svc.RegisterUser(c.Request().Context(), body.Name, body.Pubkey)
	if err != nil {
		if errors.Is(err, service.ErrNameTaken) {
			return c.String(http.StatusBadRequest, responses.NameTakenReason)
		}
		c.Logger().Errorf("Failed to register user: name:%s error: %v", body.Name, err)
		return c.String(http.StatusInternalServerError, responses.ServerErrorReason)
	}

	return c.JSON(http.StatusOK, &RegisterResponseBody{Name: user.Name})
}
