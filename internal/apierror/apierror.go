// Package apierror holds the error envelopes returned to clients. Every 4xx/5xx
// body goes through here so internal details (DB errors, stack traces) never
// leak.
package apierror

// APIError is the canonical envelope: {"error": "..."}.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// ValidationError adds per-field messages from request binding.
type ValidationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Error: "Error de validacion", Fields: fields}
}

// IDsError names the offending ids of a rejected batch, with the reason per
// id when there is one.
type IDsError struct {
	Error  string            `json:"error"`
	IDs    []string          `json:"ids,omitempty"`
	Causas map[string]string `json:"causas,omitempty"`
}

// PartialError is returned with 207 when a batch (or its reversal) was applied
// to some items only. The caller may retry with Fallidos.
type PartialError struct {
	Error    string            `json:"error"`
	LoteID   string            `json:"lote_id"`
	Exitosos []string          `json:"exitosos"`
	Fallidos []string          `json:"fallidos"`
	Causas   map[string]string `json:"causas"`
	Lote     interface{}       `json:"lote,omitempty"`
}
