package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/service"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type CategoryResponse struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	NameMK   string  `json:"nameMk"`
	Slug     string  `json:"slug"`
	ParentID *uint64 `json:"parentId,omitempty"`
	Icon     *string `json:"icon,omitempty"`
}

func toCategoryResponse(cat model.Category) CategoryResponse {
	return CategoryResponse{
		ID:       cat.ID,
		Name:     cat.Name,
		NameMK:   cat.NameMK,
		Slug:     cat.Slug,
		ParentID: cat.ParentID,
		Icon:     cat.Icon,
	}
}

// List returns root categories, or every category with ?all=true.
func (h *CategoryHandler) List(c echo.Context) error {
	var (
		cats []model.Category
		err  error
	)
	if c.QueryParam("all") == "true" {
		cats, err = h.svc.ListAll(c.Request().Context())
	} else {
		cats, err = h.svc.ListRoot(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch categories"))
	}
	resp := make([]CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		resp = append(resp, toCategoryResponse(cat))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) ListChildren(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid category id"))
	}
	cats, err := h.svc.ListChildren(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch subcategories"))
	}
	resp := make([]CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		resp = append(resp, toCategoryResponse(cat))
	}
	return c.JSON(http.StatusOK, resp)
}
