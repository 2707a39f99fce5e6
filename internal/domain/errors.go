package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrTransactionFailed = errors.New("falló la transacción")
)

// NotFoundError identifica el recurso ausente (producto o compra) y su id.
// errors.Is(err, ErrNotFound) es verdadero para este tipo.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewProductNotFound atajo para el caso más común.
func NewProductNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "producto", ID: id}
}

// NewPurchaseNotFound atajo para compras.
func NewPurchaseNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "compra", ID: id}
}

// InsufficientStockError describe la primera línea que excede el stock disponible.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q (%s): disponible %d, solicitado %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// TransactionError envuelve un fallo de almacenamiento ocurrido dentro (o al abrir/cerrar) una transacción.
// El llamador no debe asumir éxito parcial: todo se revierte.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

func (e *TransactionError) Is(target error) bool { return target == ErrTransactionFailed }

// WrapTx envuelve err como TransactionError salvo que ya sea un error de dominio conocido.
func WrapTx(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrTransactionFailed) {
		return err
	}
	return &TransactionError{Op: op, Err: err}
}
