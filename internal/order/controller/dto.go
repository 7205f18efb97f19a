package controller

import (
	"time"

	"atelier/internal/domain"
	"atelier/internal/order/service"
)

type CreateOrderRequest struct {
	CustomerName  string            `json:"customerName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       *string           `json:"address,omitempty"`
	Size          *string           `json:"size,omitempty"`
	Color         *string           `json:"color,omitempty"`
	DeliveryNotes *string           `json:"deliveryNotes,omitempty"`
	Items         []CreateOrderLine `json:"items"`
}

type CreateOrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (r CreateOrderRequest) toInput() service.CreateOrderInput {
	lines := make([]service.CreateOrderLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = service.CreateOrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return service.CreateOrderInput{
		CustomerName:  r.CustomerName,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		Size:          r.Size,
		Color:         r.Color,
		DeliveryNotes: r.DeliveryNotes,
		Items:         lines,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemDTO struct {
	ID          uint   `json:"id"`
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	LineTotal   string `json:"lineTotal"`
}

type OrderDTO struct {
	TraceID       string         `json:"traceId,omitempty"`
	ID            uint           `json:"id"`
	OrderNumber   string         `json:"orderNumber"`
	CustomerName  string         `json:"customerName"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       *string        `json:"address,omitempty"`
	Size          *string        `json:"size,omitempty"`
	Color         *string        `json:"color,omitempty"`
	DeliveryNotes *string        `json:"deliveryNotes,omitempty"`
	Status        string         `json:"status"`
	Total         string         `json:"total"`
	TotalCents    int64          `json:"totalCents"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func toOrderDTO(o *domain.Order, traceID string) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPriceCents.String(),
			LineTotal:   item.LineTotal().String(),
		})
	}

	return OrderDTO{
		TraceID:       traceID,
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		Size:          o.Size,
		Color:         o.Color,
		DeliveryNotes: o.DeliveryNotes,
		Status:        o.Status,
		Total:         o.TotalCents.String(),
		TotalCents:    int64(o.TotalCents),
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type OrderPageDTO struct {
	TraceID    string     `json:"traceId"`
	Orders     []OrderDTO `json:"orders"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}

func toOrderPageDTO(page *service.OrderPage, traceID string) OrderPageDTO {
	orders := make([]OrderDTO, 0, len(page.Orders))
	for i := range page.Orders {
		dto := toOrderDTO(&page.Orders[i], "")
		dto.Items = nil
		orders = append(orders, dto)
	}

	return OrderPageDTO{
		TraceID:    traceID,
		Orders:     orders,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

type ErrorResponse struct {
	TraceID   string                    `json:"traceId"`
	Status    int                       `json:"status"`
	Code      string                    `json:"code"`
	Message   string                    `json:"message"`
	Details   *InsufficientStockDetails `json:"details,omitempty"`
	Timestamp time.Time                 `json:"timestamp"`
}

type InsufficientStockDetails struct {
	ProductID int `json:"productId"`
	Available int `json:"available"`
	Requested int `json:"requested"`
}
