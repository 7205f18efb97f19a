package report

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"atelier/internal/report/repository"
)

type ReportingService interface {
	GetSalesSummary(ctx context.Context, days int) (*SalesSummary, error)
	GetStatusCounts(ctx context.Context, days int) (map[string]int, int, error)
	GetDailyRevenue(ctx context.Context, days int) ([]repository.DailyBucket, int, error)
	GetTopProducts(ctx context.Context, days int) ([]repository.TopProduct, int, error)
}

type Controller struct {
	service ReportingService
	logger  *zap.Logger
}

func NewController(service ReportingService, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

type salesSummaryResponse struct {
	WindowDays        int            `json:"windowDays"`
	Revenue           string         `json:"revenue"`
	TotalOrders       int            `json:"totalOrders"`
	AverageOrderValue string         `json:"averageOrderValue"`
	PendingValue      string         `json:"pendingValue"`
	StatusCounts      map[string]int `json:"statusCounts"`
}

func (c *Controller) HandleSalesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.GetSalesSummary(r.Context(), parseDays(r))
	if err != nil {
		c.writeInternalError(w, "sales summary failed", err)
		return
	}

	c.writeJSON(w, http.StatusOK, salesSummaryResponse{
		WindowDays:        summary.WindowDays,
		Revenue:           summary.RevenueCents.String(),
		TotalOrders:       summary.TotalOrders,
		AverageOrderValue: summary.AverageOrderValue.StringFixed(2),
		PendingValue:      summary.PendingValueCents.String(),
		StatusCounts:      summary.StatusCounts,
	})
}

func (c *Controller) HandleStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, days, err := c.service.GetStatusCounts(r.Context(), parseDays(r))
	if err != nil {
		c.writeInternalError(w, "status counts failed", err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"windowDays":   days,
		"statusCounts": counts,
	})
}

type dailyBucketDTO struct {
	Day     string `json:"day"`
	Revenue string `json:"revenue"`
	Orders  int    `json:"orders"`
}

func (c *Controller) HandleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	buckets, days, err := c.service.GetDailyRevenue(r.Context(), parseDays(r))
	if err != nil {
		c.writeInternalError(w, "daily revenue failed", err)
		return
	}

	dtos := make([]dailyBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		dtos = append(dtos, dailyBucketDTO{
			Day:     b.Day,
			Revenue: b.RevenueCents.String(),
			Orders:  b.Orders,
		})
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"windowDays": days,
		"days":       dtos,
	})
}

type topProductDTO struct {
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	UnitsSold   int    `json:"unitsSold"`
	Revenue     string `json:"revenue"`
}

func (c *Controller) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	products, days, err := c.service.GetTopProducts(r.Context(), parseDays(r))
	if err != nil {
		c.writeInternalError(w, "top products failed", err)
		return
	}

	dtos := make([]topProductDTO, 0, len(products))
	for _, tp := range products {
		dtos = append(dtos, topProductDTO{
			ProductID:   tp.ProductID,
			ProductName: tp.ProductName,
			UnitsSold:   tp.UnitsSold,
			Revenue:     tp.RevenueCents.String(),
		})
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"windowDays":  days,
		"topProducts": dtos,
	})
}

// parseDays reads the optional trailing-window length; malformed or missing
// values fall back to the service default.
func parseDays(r *http.Request) int {
	v := r.URL.Query().Get("days")
	if v == "" {
		return 0
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return days
}

func (c *Controller) writeInternalError(w http.ResponseWriter, message string, err error) {
	c.logger.Error(message, zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
