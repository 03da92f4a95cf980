package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saloniq/salon-booking-backend/internal/booking"
)

// listOnlyService serves List and records the filter it was called with.
type listOnlyService struct {
	booking.Service

	filter   booking.ListFilter
	bookings []*booking.Booking
	total    int
}

func (s *listOnlyService) List(_ context.Context, filter booking.ListFilter) ([]*booking.Booking, int, error) {
	s.filter = filter
	return s.bookings, s.total, nil
}

func newListRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/bookings", NewHandler(svc).List)
	return r
}

func TestListReturnsPageEnvelope(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	svc := &listOnlyService{total: 45}
	for i := 0; i < 3; i++ {
		svc.bookings = append(svc.bookings, &booking.Booking{
			ID:              fmt.Sprintf("bk-%d", i),
			SalonID:         "sal-1",
			StaffID:         "stf-1",
			Date:            date,
			StartMinute:     (9 + i) * 60,
			DurationMinutes: 60,
			Status:          booking.StatusConfirmed,
			Version:         1,
		})
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?salon_id=sal-1&page=2&page_size=3", nil)
	newListRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 3, svc.filter.PageSize)

	var resp struct {
		Items    []BookingResponse `json:"items"`
		Page     int               `json:"page"`
		PageSize int               `json:"page_size"`
		Total    int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 3, resp.PageSize)
	assert.Equal(t, 45, resp.Total)
	assert.Equal(t, "09:00", resp.Items[0].Start)
}

func TestListEmptyPageMarshalsItemsArray(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?salon_id=sal-1", nil)
	newListRouter(&listOnlyService{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestListRejectsBadPagination(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?salon_id=sal-1&page=0", nil)
	newListRouter(&listOnlyService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
