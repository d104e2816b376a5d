package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/application"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	"github.com/yunusemrekoyun/fast-food-app/pkg/response"
	"github.com/yunusemrekoyun/fast-food-app/pkg/validation"
)

type MenuHandler struct {
	Svc    *application.MenuService
	Logger *logrus.Logger
}

func NewMenuHandler(svc *application.MenuService, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{Svc: svc, Logger: logger}
}

type menuListRequest struct {
	Category string `form:"category"`
	Query    string `form:"query"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
}

type menuItemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
	Calories    int     `json:"calories"`
	Protein     int     `json:"protein"`
	Rating      float64 `json:"rating"`
	Type        string  `json:"type"`
	CategoryID  string  `json:"category_id"`
}

func toMenuItemView(m entity.MenuItem) menuItemView {
	return menuItemView{
		ID: m.ID, Name: m.Name, Price: m.Price, ImageURL: m.ImageURL, Description: m.Description,
		Calories: m.Calories, Protein: m.Protein, Rating: m.Rating, Type: m.Type, CategoryID: m.CategoryID,
	}
}

type categoryView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List GET /api/menu?category=&query=&limit=
func (h *MenuHandler) List(c *gin.Context) {
	var req menuListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	q := application.MenuQuery{Category: req.Category, Query: req.Query, Limit: req.Limit}
	items, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]menuItemView, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemView(m))
	}
	f := q.Filter()
	response.Success(c, http.StatusOK, out, "menu", gin.H{
		"category": f.CategoryID,
		"query":    f.Query,
		"limit":    f.Limit,
	})
}

// Get GET /api/menu/:id
func (h *MenuHandler) Get(c *gin.Context) {
	m, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toMenuItemView(*m), "menu item", nil)
}

// Categories GET /api/categories
func (h *MenuHandler) Categories(c *gin.Context) {
	cats, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]categoryView, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryView{ID: cat.ID, Name: cat.Name, Description: cat.Description})
	}
	response.Success(c, http.StatusOK, out, "categories", nil)
}
