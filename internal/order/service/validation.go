package service

import (
	"strconv"
	"strings"

	apperrors "atelier/internal/errors"
)

type CreateOrderLine struct {
	ProductID int
	Quantity  int
}

type CreateOrderInput struct {
	CustomerName  string
	Email         string
	Phone         string
	Address       *string
	Size          *string
	Color         *string
	DeliveryNotes *string
	Items         []CreateOrderLine
}

const maxOrderLines = 100

// ValidateCreateOrder is the single validation pass over a new order. It
// collects every problem instead of stopping at the first one.
func ValidateCreateOrder(input CreateOrderInput) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(input.Phone) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "phone",
			Message: "phone is required",
		})
	}

	if len(input.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(input.Items) > maxOrderLines {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxOrderLines),
		})
	}

	seen := make(map[int]bool)

	for idx, line := range input.Items {
		if line.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "productId must be a positive integer",
			})
		}

		if seen[line.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "productId must not be duplicated",
			})
		}
		seen[line.ProductID] = true

		if line.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be a positive integer",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
