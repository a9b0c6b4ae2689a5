package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrCorruptData       = errors.New("datos persistidos corruptos")
	ErrOrderClosed       = errors.New("el pedido ya fue cerrado")
	ErrLotVanished       = errors.New("el lote del pedido ya no existe en el catálogo")
)
