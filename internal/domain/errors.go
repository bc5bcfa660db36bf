package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrPersistenceConflict    = errors.New("conflicto de persistencia, reintentar")
	ErrDuplicate              = errors.New("registro duplicado")

	// Especializaciones: errors.Is sigue funcionando contra el error base.
	ErrPaymentTotalMismatch = fmt.Errorf("%w: la suma de pagos no coincide con el total de la venta", ErrInvalidInput)
	ErrCustomerRequired     = fmt.Errorf("%w: la venta a plazo requiere cliente", ErrInvalidInput)
	ErrAlreadyPaid          = fmt.Errorf("%w: el lanzamiento ya está pagado", ErrInvalidStateTransition)
)
