package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmedash/invoice-api/internal/dto"
)

type dashboardServiceMock struct {
	resp   *dto.DashboardResponse
	cached bool
	err    error
}

func (m *dashboardServiceMock) Overview(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	return m.resp, m.cached, m.err
}

func TestDashboardHandlerOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&dashboardServiceMock{
		resp:   &dto.DashboardResponse{Cards: dto.DashboardCards{InvoiceCount: 13}},
		cached: true,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Request = req

	handler.Overview(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cached":true`)
}

func TestDashboardHandlerOverviewError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&dashboardServiceMock{err: errors.New("store offline")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Request = req

	handler.Overview(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
