package handler

import (
	"net/http"

	"austech/internal/apierror"
	"austech/internal/dto"
	"austech/internal/middleware"
	"austech/internal/service"

	"github.com/gin-gonic/gin"
)

type AfiladosHandler struct {
	svc     service.AfiladoService
	sierras service.SierraService
}

func NewAfiladosHandler(svc service.AfiladoService, sierras service.SierraService) *AfiladosHandler {
	return &AfiladosHandler{svc: svc, sierras: sierras}
}

// Crear godoc
// @Summary      Iniciar un afilado
// @Description  Falla con 409 si la sierra esta fuera de servicio o ya tiene un afilado abierto.
// @Tags         afilados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearAfiladoRequest true "Sierra y tipo de afilado"
// @Success      201  {object} dto.AfiladoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/afilados [post]
func (h *AfiladosHandler) Crear(c *gin.Context) {
	var req dto.CrearAfiladoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarPendientes godoc
// @Summary      Afilados abiertos (sin fecha de salida)
// @Description  estado=completado lista solo los listos para retiro.
// @Tags         afilados
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string false "UUID de sucursal"
// @Param        estado      query string false "pendiente | completado"
// @Param        fecha_desde query string false "AAAA-MM-DD"
// @Param        fecha_hasta query string false "AAAA-MM-DD"
// @Success      200  {object} dto.AfiladoListResponse
// @Router       /v1/afilados/pendientes [get]
func (h *AfiladosHandler) ListarPendientes(c *gin.Context) {
	var filter dto.AfiladoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarPendientes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completar godoc
// @Summary      Marcar afilado como completado (lista para retiro)
// @Tags         afilados
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del afilado"
// @Success      200  {object} dto.AfiladoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/afilados/{id}/completar [post]
func (h *AfiladosHandler) Completar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Completar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarSalida godoc
// @Summary      Despachar un afilado fuera de una salida masiva
// @Tags         afilados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del afilado"
// @Param        body body dto.MarcarSalidaRequest true "Fecha de salida"
// @Success      200  {object} dto.AfiladoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/afilados/{id}/salida [post]
func (h *AfiladosHandler) MarcarSalida(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.MarcarSalidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sierras.MarcarDespachado(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
