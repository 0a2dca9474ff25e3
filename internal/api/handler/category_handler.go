package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/notesapp/notes-api/internal/core/ports"
)

type CategoryHandler struct {
	categoryService ports.CategoryService
}

func NewCategoryHandler(categoryService ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type categoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Create adds a category owned by the authenticated user.
//
// @Summary      Create a new category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /categories/ [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return unprocessable(err)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(err)
	}

	out, err := h.categoryService.CreateCategory(c.Request().Context(), ports.CreateCategoryInput{
		UserID: user.ID,
		Name:   req.Name,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, categoryResponse{
		ID:        out.ID,
		Name:      out.Name,
		CreatedAt: out.CreatedAt,
		UpdatedAt: out.UpdatedAt,
	})
}
