package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearAfiladoRequest struct {
	SierraID      string  `json:"sierra_id"       validate:"required,uuid"`
	TipoAfiladoID string  `json:"tipo_afilado_id" validate:"required,uuid"`
	Observaciones *string `json:"observaciones"   validate:"omitempty,max=500"`
}

type MarcarSalidaRequest struct {
	FechaSalida string `json:"fecha_salida" validate:"required,datetime=2006-01-02"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type AfiladoFilter struct {
	SucursalID string `form:"sucursal_id"`
	// Estado narrows open afilados: "completado" lists only those ready for pickup.
	Estado     string `form:"estado"`
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AfiladoResponse struct {
	ID            string  `json:"id"`
	SierraID      string  `json:"sierra_id"`
	CodigoBarras  string  `json:"codigo_barras,omitempty"`
	TipoAfiladoID string  `json:"tipo_afilado_id"`
	FechaAfilado  string  `json:"fecha_afilado"`
	FechaSalida   *string `json:"fecha_salida"`
	Estado        string  `json:"estado"`
	Observaciones *string `json:"observaciones"`
	UsuarioID     string  `json:"usuario_id"`
}

type AfiladoListResponse struct {
	Data       []AfiladoResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// PaginaQuery is the page/limit pair of plain listings.
type PaginaQuery struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=50"`
}
