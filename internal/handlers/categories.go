package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
	"example.com/pocket-ledger/backend/internal/repository"
)

type CategoryHandler struct {
	Categories *repository.CategoryRepository
}

// NewCategoryHandler создает обработчик категорий.
func NewCategoryHandler(categories *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type CategoryRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Type      string `json:"type" validate:"required,oneof=income expense"`
	Icon      string `json:"icon" validate:"max=16"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

type CategoryItem struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Type      models.TransactionType `json:"type"`
	Icon      string                 `json:"icon,omitempty"`
	SortOrder int                    `json:"sort_order"`
}

// List возвращает категории пользователя.
func (h *CategoryHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	cats, err := h.Categories.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]CategoryItem, 0, len(cats))
	for _, cat := range cats {
		response = append(response, toCategoryItem(cat))
	}

	return c.JSON(http.StatusOK, map[string][]CategoryItem{"categories": response})
}

// Create создает категорию.
func (h *CategoryHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := buildCategoryInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cat, err := h.Categories.Create(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "category already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toCategoryItem(cat))
}

// Update обновляет категорию.
func (h *CategoryHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	catID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	input, err := buildCategoryInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cat, err := h.Categories.Update(c.Request().Context(), userID, catID, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "category not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "category already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toCategoryItem(cat))
}

// Delete удаляет категорию.
func (h *CategoryHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	catID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	if err := h.Categories.Delete(c.Request().Context(), userID, catID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "category not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func buildCategoryInput(c echo.Context) (repository.CategoryInput, error) {
	var input repository.CategoryInput

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return input, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return input, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return input, errors.New("name is required")
	}

	catType, err := parseTransactionType(req.Type)
	if err != nil {
		return input, err
	}

	input = repository.CategoryInput{
		Name:      name,
		Type:      catType,
		Icon:      strings.TrimSpace(req.Icon),
		SortOrder: req.SortOrder,
	}
	return input, nil
}

func toCategoryItem(cat models.Category) CategoryItem {
	return CategoryItem{
		ID:        cat.ID,
		Name:      cat.Name,
		Type:      cat.Type,
		Icon:      cat.Icon,
		SortOrder: cat.SortOrder,
	}
}
