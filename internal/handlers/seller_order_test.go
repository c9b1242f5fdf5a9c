package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newQueryContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseDateRangeInclusiveEndOfDay(t *testing.T) {
	c := newQueryContext("/api/v1/seller-orders?startDate=2026-01-01&endDate=2026-01-31")

	start, end, ok := parseDateRange(c)
	if !ok {
		t.Fatal("expected valid dates to parse")
	}
	if start == nil || !start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date: %v", start)
	}
	if end == nil {
		t.Fatal("expected an end date")
	}
	// Orders placed late on the end date must still fall inside the range.
	lastMoment := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	if end.Before(lastMoment) {
		t.Fatalf("expected end pushed to end of day, got %v", end)
	}
	if !end.Before(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end to stay within the day, got %v", end)
	}
}

func TestParseDateRangeOptional(t *testing.T) {
	c := newQueryContext("/api/v1/seller-orders")
	start, end, ok := parseDateRange(c)
	if !ok || start != nil || end != nil {
		t.Fatalf("expected nil range without params, got %v %v ok=%v", start, end, ok)
	}
}

func TestParseDateRangeRejectsBadFormat(t *testing.T) {
	for _, target := range []string{
		"/api/v1/seller-orders?startDate=01-01-2026",
		"/api/v1/seller-orders?endDate=2026/01/31",
		"/api/v1/seller-orders?startDate=yesterday",
	} {
		c := newQueryContext(target)
		if _, _, ok := parseDateRange(c); ok {
			t.Fatalf("expected %q to be rejected", target)
		}
	}
}

func TestGetSellerOrdersRequiresSellerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/seller-orders", nil)

	GetSellerOrders(nil)(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without sellerId, got %d", rec.Code)
	}
}
