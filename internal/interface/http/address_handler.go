package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/application"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
	"github.com/yunusemrekoyun/fast-food-app/pkg/response"
	"github.com/yunusemrekoyun/fast-food-app/pkg/validation"
)

type AddressHandler struct {
	Svc    *application.AddressService
	Logger *logrus.Logger
}

func NewAddressHandler(svc *application.AddressService, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{Svc: svc, Logger: logger}
}

type createAddressRequest struct {
	Label      string `json:"label" binding:"required,max=40"`
	FullName   string `json:"full_name" binding:"required,max=120"`
	Phone      string `json:"phone" binding:"required,phone"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
	IsDefault  bool   `json:"is_default"`
}

type addressView struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      *string   `json:"state,omitempty"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Country    *string   `json:"country,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAddressView(a *entity.Address) addressView {
	return addressView{
		ID: a.ID, Label: a.Label, FullName: a.FullName, Phone: a.Phone,
		Line1: a.Line1, Line2: a.Line2, City: a.City, State: a.State,
		PostalCode: a.PostalCode, Country: a.Country, IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
	}
}

// List GET /api/addresses
func (h *AddressHandler) List(c *gin.Context) {
	list, err := h.Svc.ListOwnedByUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]addressView, 0, len(list))
	for i := range list {
		out = append(out, toAddressView(&list[i]))
	}
	response.Success(c, http.StatusOK, out, "addresses", nil)
}

// Create POST /api/addresses
func (h *AddressHandler) Create(c *gin.Context) {
	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), application.CreateAddressInput{
		Label:      req.Label,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil && a != nil {
		// the row exists; only the default switch did not complete
		msg := "address created; could not make it default, retry set default"
		if errors.Is(err, application.ErrDefaultConsistency) {
			a.IsDefault = true
			msg = "address created; previous default not cleared, retry set default"
		}
		if h.Logger != nil {
			helpers.RequestEntry(h.Logger, c).WithError(err).WithField("address_id", a.ID).Warn("default switch after create failed")
		}
		response.Success(c, http.StatusCreated, toAddressView(a), msg, nil)
		return
	}
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toAddressView(a), "address created", nil)
}

// Default GET /api/addresses/default
func (h *AddressHandler) Default(c *gin.Context) {
	a, err := h.Svc.Default(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAddressView(a), "default address", nil)
}

// SetDefault PUT /api/addresses/:id/default
func (h *AddressHandler) SetDefault(c *gin.Context) {
	if err := h.Svc.PromoteToDefault(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "is_default": true}, "default address updated", nil)
}

// Delete DELETE /api/addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "address deleted", nil)
}
