package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"atelier/internal/domain"
	apperrors "atelier/internal/errors"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Controller struct {
	service ProductReader
	logger  *zap.Logger
}

func NewController(service ProductReader, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

type ProductDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Material string `json:"material"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Material: p.Material,
		Price:    p.PriceCents.String(),
		Stock:    p.Stock,
	}
}

func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.ListProducts(r.Context())
	if err != nil {
		c.logger.Error("list products failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{"products": dtos})
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "productID")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "VALIDATION_ERROR",
			"message": "productID must be a positive integer",
		})
		return
	}

	product, err := c.service.GetProduct(r.Context(), id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "NOT_FOUND",
				"message": err.Error(),
			})
			return
		}
		c.logger.Error("get product failed", zap.Int("productId", id), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, toProductDTO(*product))
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
