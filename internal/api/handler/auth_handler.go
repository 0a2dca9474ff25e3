package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notesapp/notes-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new user account.
//
// @Summary      Create a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return unprocessable(err)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(err)
	}

	out, err := h.authService.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(out))
}

// Token exchanges credentials for an access token.
//
// @Summary      Generate a token
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Account email"
// @Param        password  formData  string  true  "Account password"
// @Success      200       {object}  tokenResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      422       {object}  ErrorResponse
// @Failure      429       {object}  ErrorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return unprocessable(err)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(err)
	}

	out, err := h.authService.Authenticate(c.Request().Context(), ports.AuthenticateInput{
		Email:    req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: out.AccessToken, TokenType: out.TokenType})
}

// GetProfile returns the authenticated user.
//
// @Summary      Get authenticated user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(ports.NewUserOutput(user)))
}

// UpdateProfile applies a partial update to the authenticated user.
//
// @Summary      Update authenticated user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /auth/profile [post]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return unprocessable(err)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(err)
	}
	if !req.passwordsMatch() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "passwords do not match")
	}

	out, err := h.authService.UpdateUser(c.Request().Context(), user, ports.UpdateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(out))
}
