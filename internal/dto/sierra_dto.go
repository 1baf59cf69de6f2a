package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarSierraRequest struct {
	CodigoBarras string `json:"codigo_barras"  validate:"required,min=3,max=64"`
	SucursalID   string `json:"sucursal_id"    validate:"required,uuid"`
	TipoSierraID string `json:"tipo_sierra_id" validate:"required,uuid"`
}

// BajaIndividualRequest decommissions one sierra. FechaBaja defaults to today.
type BajaIndividualRequest struct {
	FechaBaja     string  `json:"fecha_baja"    validate:"omitempty,datetime=2006-01-02"`
	Observaciones *string `json:"observaciones" validate:"omitempty,max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type SierraFilter struct {
	Codigo     string `form:"codigo"`
	SucursalID string `form:"sucursal_id"`
	EmpresaID  string `form:"empresa_id"`
	Activo     string `form:"activo"` // "true" | "false" | "" (todas)
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SierraResponse struct {
	ID             string  `json:"id"`
	CodigoBarras   string  `json:"codigo_barras"`
	SucursalID     string  `json:"sucursal_id"`
	TipoSierraID   string  `json:"tipo_sierra_id"`
	EstadoID       int     `json:"estado_id"`
	Estado         string  `json:"estado"`
	Activo         bool    `json:"activo"`
	FechaRegistro  string  `json:"fecha_registro"`
	AfiladoAbierto *string `json:"afilado_abierto_id"`
}

type SierraListResponse struct {
	Data       []SierraResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

type PuedeAfilarResponse struct {
	SierraID    string `json:"sierra_id"`
	PuedeAfilar bool   `json:"puede_afilar"`
	Estado      string `json:"estado"`
}
