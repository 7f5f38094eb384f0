package web

import (
	"log/slog"
	"net/http"

	"dm-lab/auth"
	"dm-lab/errors"
	"dm-lab/services"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	log         *slog.Logger
	authService services.IAuthService
}

func NewAuthHandler(log *slog.Logger, authService services.IAuthService) *AuthHandler {
	return &AuthHandler{log: log, authService: authService}
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(c echo.Context) error {
	var in RegisterRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	user, err := h.authService.Register(auth.RegistrationInput{
		Username:        in.Username,
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	})
	if err != nil {
		h.log.Warn("registration failed", "username", in.Username, "error", err)
		return errors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var in LoginRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	result, err := h.authService.Login(in.Username, in.Password)
	if err != nil {
		h.log.Warn("login failed", "username", in.Username, "error", err)
		return errors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		UserResponse: toUserResponse(result.User),
		Token:        result.Token,
	})
}
