package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/application"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/cart"
	"github.com/yunusemrekoyun/fast-food-app/pkg/response"
	"github.com/yunusemrekoyun/fast-food-app/pkg/validation"
)

type CartHandler struct {
	Svc    *application.CartService
	Logger *logrus.Logger
}

func NewCartHandler(svc *application.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger}
}

type customizationRequest struct {
	ID    string  `json:"id" binding:"required"`
	Name  string  `json:"name"`
	Price float64 `json:"price" binding:"gte=0"`
	Type  string  `json:"type"`
}

// cartItemRequest identifies a line: product id plus its customizations.
type cartItemRequest struct {
	ID             string                 `json:"id" binding:"required"`
	Customizations []customizationRequest `json:"customizations" binding:"omitempty,dive"`
}

func (r cartItemRequest) customizations() []cart.Customization {
	if len(r.Customizations) == 0 {
		return nil
	}
	out := make([]cart.Customization, len(r.Customizations))
	for i, c := range r.Customizations {
		out[i] = cart.Customization{ID: c.ID, Name: c.Name, Price: c.Price, Type: c.Type}
	}
	return out
}

// Get GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	sum, err := h.Svc.Summary(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sum, "cart", nil)
}

// Add POST /api/cart/items
func (h *CartHandler) Add(c *gin.Context) {
	h.mutate(c, func(uid string, req cartItemRequest) (application.CartSummary, error) {
		return h.Svc.Add(c.Request.Context(), uid, cart.Item{ID: req.ID, Customizations: req.customizations()})
	})
}

// Remove POST /api/cart/items/remove
func (h *CartHandler) Remove(c *gin.Context) {
	h.mutate(c, func(uid string, req cartItemRequest) (application.CartSummary, error) {
		return h.Svc.Remove(c.Request.Context(), uid, req.ID, req.customizations())
	})
}

// Increase POST /api/cart/items/increase
func (h *CartHandler) Increase(c *gin.Context) {
	h.mutate(c, func(uid string, req cartItemRequest) (application.CartSummary, error) {
		return h.Svc.Increase(c.Request.Context(), uid, req.ID, req.customizations())
	})
}

// Decrease POST /api/cart/items/decrease
func (h *CartHandler) Decrease(c *gin.Context) {
	h.mutate(c, func(uid string, req cartItemRequest) (application.CartSummary, error) {
		return h.Svc.Decrease(c.Request.Context(), uid, req.ID, req.customizations())
	})
}

// Clear DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), c.GetString("userID")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, application.CartSummary{Items: []cart.LineItem{}}, "cart cleared", nil)
}

func (h *CartHandler) mutate(c *gin.Context, fn func(uid string, req cartItemRequest) (application.CartSummary, error)) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sum, err := fn(c.GetString("userID"), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sum, "cart updated", nil)
}
