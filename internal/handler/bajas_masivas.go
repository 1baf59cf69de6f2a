package handler

import (
	"net/http"

	"austech/internal/apierror"
	"austech/internal/dto"
	"austech/internal/middleware"
	"austech/internal/service"

	"github.com/gin-gonic/gin"
)

type BajasMasivasHandler struct{ svc service.BajaMasivaService }

func NewBajasMasivasHandler(svc service.BajaMasivaService) *BajasMasivasHandler {
	return &BajasMasivasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear baja masiva
// @Description  Rechaza el lote si alguna sierra ya esta fuera de servicio. Las sierras con afilado abierto
// @Description  se tratan segun POLITICA_BAJA (rechazar con 409 o forzar el cierre del afilado).
// @Tags         bajas-masivas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearBajaMasivaRequest true "Fecha y sierras"
// @Success      201  {object} dto.BajaMasivaResponse
// @Success      207  {object} apierror.PartialError
// @Failure      400  {object} apierror.IDsError
// @Failure      404  {object} apierror.IDsError
// @Failure      409  {object} apierror.IDsError
// @Router       /v1/bajas-masivas [post]
func (h *BajasMasivasHandler) Crear(c *gin.Context) {
	var req dto.CrearBajaMasivaRequest
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
// @Summary      Listar bajas masivas
// @Tags         bajas-masivas
// @Produce      json
// @Security     BearerAuth
// @Param        usuario_id  query string false "UUID del usuario"
// @Param        fecha_desde query string false "AAAA-MM-DD"
// @Param        fecha_hasta query string false "AAAA-MM-DD"
// @Success      200  {object} dto.BajaMasivaListResponse
// @Router       /v1/bajas-masivas [get]
func (h *BajasMasivasHandler) Listar(c *gin.Context) {
	var filter dto.BajaMasivaFilter
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
// @Summary      Obtener baja masiva con sus detalles
// @Tags         bajas-masivas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la baja"
// @Success      200  {object} dto.BajaMasivaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/bajas-masivas/{id} [get]
func (h *BajasMasivasHandler) ObtenerPorID(c *gin.Context) {
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
// @Summary      Revertir baja masiva
// @Description  Restaura activo al estado anterior de cada sierra y reabre los afilados cerrados por la baja.
// @Tags         bajas-masivas
// @Security     BearerAuth
// @Param        id path string true "UUID de la baja"
// @Success      204
// @Success      207  {object} apierror.PartialError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/bajas-masivas/{id} [delete]
func (h *BajasMasivasHandler) Eliminar(c *gin.Context) {
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
