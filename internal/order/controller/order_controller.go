package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"atelier/internal/domain"
	apperrors "atelier/internal/errors"
	"atelier/internal/order/repository"
	"atelier/internal/order/service"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, target string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*domain.Order, error)
	ListOrders(ctx context.Context, q repository.ListQuery) (*service.OrderPage, error)
	ListForExport(ctx context.Context, q repository.ListQuery) ([]domain.Order, error)
}

type Controller struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewController(useCase OrderUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.useCase.CreateOrder(r.Context(), req.toInput())
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, toOrderDTO(order, traceID))
}

func (c *Controller) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.parseOrderID(w, r, traceID)
	if !ok {
		return
	}

	order, err := c.useCase.GetOrder(r.Context(), orderID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderDTO(order, traceID))
}

func (c *Controller) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	q, err := parseListQuery(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	page, err := c.useCase.ListOrders(r.Context(), q)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderPageDTO(page, traceID))
}

func (c *Controller) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.parseOrderID(w, r, traceID)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.useCase.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderDTO(order, traceID))
}

func (c *Controller) parseOrderID(w http.ResponseWriter, r *http.Request, traceID string) (uint, bool) {
	idStr := chi.URLParam(r, "orderID")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.writeValidationError(w, traceID, "invalid orderID", apperrors.ValidationDetail{
			Field:   "orderID",
			Message: "orderID must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// parseListQuery maps query params to a ListQuery. Page and pageSize clamps
// happen in the service; only the status allow-list is rejected here.
func parseListQuery(r *http.Request) (repository.ListQuery, error) {
	q := repository.ListQuery{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("q"),
		SortBy: r.URL.Query().Get("sortBy"),
	}

	if q.Status != "" && !domain.IsValidOrderStatus(q.Status) {
		return q, apperrors.NewValidationError("invalid status filter", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of: pending, paid, completed, cancelled, refunded, failed",
		})
	}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.PageSize = n
		}
	}

	switch r.URL.Query().Get("sortDir") {
	case "asc":
		q.SortDesc = false
	case "desc", "":
		q.SortDesc = true
	default:
		q.SortDesc = true
	}

	return q, nil
}

func (c *Controller) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), &InsufficientStockDetails{
			ProductID: ise.ProductID,
			Available: ise.Available,
			Requested: ise.Requested,
		})
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func (c *Controller) writeError(w http.ResponseWriter, traceID string, status int, code, message string, details *InsufficientStockDetails) {
	c.writeJSON(w, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	TraceID string                       `json:"traceId"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		TraceID: traceID,
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
