package controller

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "atelier/internal/errors"
)

var exportHeader = []string{
	"id", "orderNumber", "customerName", "email", "phone",
	"status", "total", "createdAt",
}

// HandleExportOrders streams the filtered order set as CSV. Same filters as
// the listing, no pagination.
func (c *Controller) HandleExportOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	q, err := parseListQuery(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	orders, err := c.useCase.ListForExport(r.Context(), q)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		logger.Error("failed to write csv header", zap.Error(err))
		return
	}

	for _, o := range orders {
		record := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.OrderNumber,
			o.CustomerName,
			o.Email,
			o.Phone,
			o.Status,
			o.TotalCents.String(),
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			logger.Error("failed to write csv row", zap.Uint("orderId", o.ID), zap.Error(err))
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Error("failed to flush csv", zap.Error(err))
	}
}
