package dto

// ─── Salida masiva ───────────────────────────────────────────────────────────

type CrearSalidaMasivaRequest struct {
	SucursalID    string   `json:"sucursal_id"   validate:"required,uuid"`
	FechaSalida   string   `json:"fecha_salida"  validate:"required,datetime=2006-01-02"`
	Observaciones *string  `json:"observaciones" validate:"omitempty,max=500"`
	AfiladosIDs   []string `json:"afilados_ids"  validate:"required,min=1,dive,uuid"`
}

type SalidaMasivaResponse struct {
	ID            string   `json:"id"`
	SucursalID    string   `json:"sucursal_id"`
	FechaSalida   string   `json:"fecha_salida"`
	Observaciones *string  `json:"observaciones"`
	UsuarioID     string   `json:"usuario_id"`
	CreadoEn      string   `json:"creado_en"`
	AfiladosIDs   []string `json:"afilados_ids"`
	Cantidad      int      `json:"cantidad"`
}

type SalidaMasivaFilter struct {
	SucursalID string `form:"sucursal_id"`
	EmpresaID  string `form:"empresa_id"`
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=50"`
}

type SalidaMasivaListResponse struct {
	Data       []SalidaMasivaResponse `json:"data"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ─── Baja masiva ─────────────────────────────────────────────────────────────

type CrearBajaMasivaRequest struct {
	FechaBaja     string   `json:"fecha_baja"    validate:"required,datetime=2006-01-02"`
	Observaciones *string  `json:"observaciones" validate:"omitempty,max=500"`
	SierrasIDs    []string `json:"sierras_ids"   validate:"required,min=1,dive,uuid"`
}

type BajaMasivaDetalleResponse struct {
	SierraID         string  `json:"sierra_id"`
	CodigoBarras     string  `json:"codigo_barras,omitempty"`
	EstadoAnterior   bool    `json:"estado_anterior"`
	AfiladoCerradoID *string `json:"afilado_cerrado_id"`
}

type BajaMasivaResponse struct {
	ID            string                      `json:"id"`
	UsuarioID     string                      `json:"usuario_id"`
	FechaBaja     string                      `json:"fecha_baja"`
	Observaciones *string                     `json:"observaciones"`
	CreadoEn      string                      `json:"creado_en"`
	Detalles      []BajaMasivaDetalleResponse `json:"detalles"`
	Cantidad      int                         `json:"cantidad"`
}

type BajaMasivaFilter struct {
	UsuarioID  string `form:"usuario_id"`
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=50"`
}

type BajaMasivaListResponse struct {
	Data       []BajaMasivaResponse `json:"data"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// ─── Catalogos ───────────────────────────────────────────────────────────────

type CatalogoItem struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type CatalogosResponse struct {
	Sucursales   []CatalogoItem `json:"sucursales"`
	TiposSierra  []CatalogoItem `json:"tipos_sierra"`
	TiposAfilado []CatalogoItem `json:"tipos_afilado"`
}
