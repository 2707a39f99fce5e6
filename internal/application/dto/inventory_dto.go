package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de pedido en el body de checkout/POS.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CreateOrderRequest body para POST /api/orders y POST /api/admin/orders.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	State         string             `json:"state"`
	ZipCode       string             `json:"zip_code"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status,omitempty"` // vacío = pending
	Items         []OrderItemRequest `json:"items"`
}

// OrderItemResponse línea de pedido en respuestas.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID            string              `json:"id"`
	UserID        *string             `json:"user_id,omitempty"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	CustomerPhone string              `json:"customer_phone"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	ZipCode       string              `json:"zip_code"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []OrderItemResponse `json:"items"`
}

// PurchaseItemRequest línea de compra.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseRequest body para POST /api/admin/purchases y PUT /api/admin/purchases/:id.
// Date acepta "2006-01-02" o RFC3339; vacío = hoy (creación) o la fecha existente (edición).
type PurchaseRequest struct {
	SupplierID    string                `json:"supplier_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Date          string                `json:"date,omitempty"`
	Status        string                `json:"status,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Items         []PurchaseItemRequest `json:"items"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra con sus líneas.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	SupplierID    string                 `json:"supplier_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	Date          string                 `json:"date"`
	Status        string                 `json:"status"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Items         []PurchaseItemResponse `json:"items"`
}

// StockResponse respuesta de GET /api/products/:id/stock.
type StockResponse struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

// ErrorDetail datos adicionales de error (producto sin stock, id faltante).
type ErrorDetail struct {
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Available   *int   `json:"available,omitempty"`
	Requested   *int   `json:"requested,omitempty"`
	Resource    string `json:"resource,omitempty"`
	ID          string `json:"id,omitempty"`
}
