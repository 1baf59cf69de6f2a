package handler

import (
	"context"
	"net/http"

	"austech/internal/apierror"
	"austech/internal/dto"
	"austech/internal/middleware"
	"austech/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type SalidasMasivasHandler struct{ svc service.SalidaMasivaService }

func NewSalidasMasivasHandler(svc service.SalidaMasivaService) *SalidasMasivasHandler {
	return &SalidasMasivasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear salida masiva
// @Description  Valida todos los afilados (abiertos, de la sucursal, sierra activa) y rechaza el lote completo ante cualquier falla.
// @Description  Si algun item falla luego de creada la cabecera responde 207 con exitosos y fallidos.
// @Tags         salidas-masivas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearSalidaMasivaRequest true "Sucursal, fecha y afilados"
// @Success      201  {object} dto.SalidaMasivaResponse
// @Success      207  {object} apierror.PartialError
// @Failure      400  {object} apierror.IDsError
// @Failure      404  {object} apierror.IDsError
// @Failure      409  {object} apierror.IDsError
// @Router       /v1/salidas-masivas [post]
func (h *SalidasMasivasHandler) Crear(c *gin.Context) {
	var req dto.CrearSalidaMasivaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar salidas masivas
// @Tags         salidas-masivas
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string false "UUID de sucursal"
// @Param        empresa_id  query string false "UUID de empresa"
// @Param        fecha_desde query string false "AAAA-MM-DD"
// @Param        fecha_hasta query string false "AAAA-MM-DD"
// @Success      200  {object} dto.SalidaMasivaListResponse
// @Router       /v1/salidas-masivas [get]
func (h *SalidasMasivasHandler) Listar(c *gin.Context) {
	var filter dto.SalidaMasivaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Obtener salida masiva
// @Tags         salidas-masivas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la salida"
// @Success      200  {object} dto.SalidaMasivaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/salidas-masivas/{id} [get]
func (h *SalidasMasivasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Revertir salida masiva
// @Description  Reabre cada afilado del lote y borra el lote. Con reversion parcial responde 207 y conserva el lote para reintentar.
// @Tags         salidas-masivas
// @Security     BearerAuth
// @Param        id path string true "UUID de la salida"
// @Success      204
// @Success      207  {object} apierror.PartialError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/salidas-masivas/{id} [delete]
func (h *SalidasMasivasHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remito godoc
// @Summary      Remito PDF de la salida masiva
// @Tags         salidas-masivas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la salida"
// @Success      200  {file} binary
// @Failure      404  {object} apierror.APIError
// @Router       /v1/salidas-masivas/{id}/remito [get]
func (h *SalidasMasivasHandler) Remito(c *gin.Context) {
	h.documento(c, "remito", ".pdf", mimePDF, h.svc.Remito)
}

// Planilla godoc
// @Summary      Planilla XLSX de la salida masiva
// @Tags         salidas-masivas
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        id path string true "UUID de la salida"
// @Success      200  {file} binary
// @Failure      404  {object} apierror.APIError
// @Router       /v1/salidas-masivas/{id}/planilla [get]
func (h *SalidasMasivasHandler) Planilla(c *gin.Context) {
	h.documento(c, "planilla", ".xlsx", mimeXLSX, h.svc.Planilla)
}

func (h *SalidasMasivasHandler) documento(c *gin.Context, nombre, ext, mime string, generar func(ctx context.Context, id uuid.UUID) ([]byte, error)) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	data, err := generar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+"_"+id.String()+ext+`"`)
	c.Data(http.StatusOK, mime, data)
}
