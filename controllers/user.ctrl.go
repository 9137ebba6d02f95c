package controllers

import (
	"errors"
	"net/http"

	"github.com/getAlby/lnurlhub.go/lib/responses"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// UserController : Admin user management controller struct
type UserController struct {
	svc *service.LnurlService
}

func NewUserController(svc *service.LnurlService) *UserController {
	return &UserController{svc: svc}
}

type UpdateUserRequestBody struct {
	Name         string `json:"name" validate:"required"`
	DisabledZaps bool   `json:"disabled_zaps"`
}

type UserResponseBody struct {
	Name         string `json:"name"`
	Pubkey       string `json:"pubkey"`
	DisabledZaps bool   `json:"disabled_zaps"`
}

// UpdateUser godoc
// @Summary      Toggle zap acceptance for a name
// @Accept       json
// @Produce      json
// @Param        UpdateUserRequestBody body UpdateUserRequestBody true "name and zap flag"
// @Tags         Users
// @Success      200  {object}  UserResponseBody
// @Failure      400  {object}  responses.LnurlErrorResponse
// @Router       /v1/admin/users [put]
// @Security     ApiKeyAuth
func (controller *UserController) UpdateUser(c echo.Context) error {
	var body UpdateUserRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.NameRequiredError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.NameRequiredError)
	}

	user, err := controller.svc.UpdateZapsDisabled(c.Request().Context(), body.Name, body.DisabledZaps)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, responses.UserNotFoundError)
		}
		c.Logger().Errorf("Failed to update user: name:%s error: %v", body.Name, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &UserResponseBody{
		Name:         user.Name,
		Pubkey:       user.Pubkey,
		DisabledZaps: user.DisabledZaps,
	})
}
