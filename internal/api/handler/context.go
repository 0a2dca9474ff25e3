package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notesapp/notes-api/internal/api/middleware"
	"github.com/notesapp/notes-api/internal/core/domain"
)

// currentUser returns the user resolved by middleware.CurrentUser. Routes
// mounted without that middleware get a 401.
func currentUser(c echo.Context) (domain.User, error) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return user, nil
}

// unprocessable turns a bind or validation failure into a 422. Bind errors
// already are *echo.HTTPError; their message is kept.
func unprocessable(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, he.Message)
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
}
