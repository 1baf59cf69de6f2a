package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NotFoundError: a referenced sierra, afilado, batch or catalog row is absent.
type NotFoundError struct {
	Entidad string
	IDs     []uuid.UUID
	Clave   string // non-uuid lookups (codigo de barras)
}

func (e *NotFoundError) Error() string {
	if e.Clave != "" {
		return fmt.Sprintf("%s no encontrado: %s", e.Entidad, e.Clave)
	}
	return fmt.Sprintf("%s no encontrado: %s", e.Entidad, joinIDs(e.IDs))
}

// ValidationError: input shape or a pre-condition is violated. Raised before
// any write, so no state has changed. Causas holds the per-id reason when a
// batch is refused.
type ValidationError struct {
	Mensaje string
	IDs     []uuid.UUID
	Causas  map[uuid.UUID]string
}

func (e *ValidationError) Error() string {
	if len(e.IDs) == 0 {
		return e.Mensaje
	}
	return fmt.Sprintf("%s: %s", e.Mensaje, joinIDs(e.IDs))
}

// ConflictError: the state machine refused the transition (duplicate open
// cycle, blade out of service, item claimed by a concurrent batch).
type ConflictError struct {
	Mensaje string
	IDs     []uuid.UUID
}

func (e *ConflictError) Error() string {
	if len(e.IDs) == 0 {
		return e.Mensaje
	}
	return fmt.Sprintf("%s: %s", e.Mensaje, joinIDs(e.IDs))
}

// PartialFailureError: a batch fan-out (or its reversal) was applied to some
// items only. Already-applied items are not rolled back.
type PartialFailureError struct {
	Operacion string
	LoteID    uuid.UUID
	Exitosos  []uuid.UUID
	Fallidos  []uuid.UUID
	Causas    map[uuid.UUID]string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s %s aplicada parcialmente: %d exitosos, %d fallidos (%s)",
		e.Operacion, e.LoteID, len(e.Exitosos), len(e.Fallidos), joinIDs(e.Fallidos))
}

// StoreError wraps a failed row-store call. Not retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func joinIDs(ids []uuid.UUID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}
