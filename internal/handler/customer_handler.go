package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acmedash/invoice-api/internal/models"
	"github.com/acmedash/invoice-api/pkg/response"
)

type customerService interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id string) (*models.Customer, error)
	Table(ctx context.Context, query string) ([]models.CustomerSummary, error)
}

// CustomerHandler exposes customer listing endpoints.
type CustomerHandler struct {
	service customerService
}

// NewCustomerHandler builds a new handler.
func NewCustomerHandler(service customerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// List godoc
// @Summary List customers for form selects
// @Tags Customers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customers, nil)
}

// Get godoc
// @Summary Get one customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Envelope
// @Router /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customer, nil)
}

// Table godoc
// @Summary List customers with invoice aggregates
// @Tags Customers
// @Produce json
// @Param q query string false "Name or email filter"
// @Success 200 {object} response.Envelope
// @Router /customers/table [get]
func (h *CustomerHandler) Table(c *gin.Context) {
	rows, err := h.service.Table(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
