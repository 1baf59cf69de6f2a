package handler

import (
	"net/http"

	"austech/internal/apierror"
	"austech/internal/dto"
	"austech/internal/middleware"
	"austech/internal/service"

	"github.com/gin-gonic/gin"
)

type SierrasHandler struct {
	svc      service.SierraService
	afilados service.AfiladoService
	bajas    service.BajaMasivaService
}

func NewSierrasHandler(svc service.SierraService, afilados service.AfiladoService, bajas service.BajaMasivaService) *SierrasHandler {
	return &SierrasHandler{svc: svc, afilados: afilados, bajas: bajas}
}

// Registrar godoc
// @Summary      Registrar una sierra
// @Tags         sierras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarSierraRequest true "Datos de la sierra"
// @Success      201  {object} dto.SierraResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sierras [post]
func (h *SierrasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarSierraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar sierras
// @Description  Filtra por codigo (parcial), sucursal, empresa y activo. El estado es el cacheado en estado_id.
// @Tags         sierras
// @Produce      json
// @Security     BearerAuth
// @Param        codigo      query string false "Codigo de barras (parcial)"
// @Param        sucursal_id query string false "UUID de sucursal"
// @Param        empresa_id  query string false "UUID de empresa"
// @Param        activo      query string false "true | false"
// @Success      200  {object} dto.SierraListResponse
// @Router       /v1/sierras [get]
func (h *SierrasHandler) Listar(c *gin.Context) {
	var filter dto.SierraFilter
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
// @Summary      Obtener sierra con su estado derivado
// @Tags         sierras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sierra"
// @Success      200  {object} dto.SierraResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sierras/{id} [get]
func (h *SierrasHandler) ObtenerPorID(c *gin.Context) {
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

// BuscarPorCodigo godoc
// @Summary      Buscar sierra por codigo de barras escaneado
// @Tags         sierras
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Codigo de barras"
// @Success      200  {object} dto.SierraResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sierras/codigo/{codigo} [get]
func (h *SierrasHandler) BuscarPorCodigo(c *gin.Context) {
	resp, err := h.svc.BuscarPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PuedeAfilar godoc
// @Summary      Consultar si la sierra puede iniciar un afilado
// @Tags         sierras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sierra"
// @Success      200  {object} dto.PuedeAfilarResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sierras/{id}/puede-afilar [get]
func (h *SierrasHandler) PuedeAfilar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	puede, err := h.svc.PuedeIniciarAfilado(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	estado, err := h.svc.Estado(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, dto.PuedeAfilarResponse{SierraID: id.String(), PuedeAfilar: puede, Estado: string(estado)})
}

// Historial godoc
// @Summary      Historial de afilados de una sierra (mas reciente primero)
// @Tags         sierras
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID de la sierra"
// @Param        page  query int    false "Pagina"
// @Param        limit query int    false "Tamaño de pagina"
// @Success      200  {object} dto.AfiladoListResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sierras/{id}/afilados [get]
func (h *SierrasHandler) Historial(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var q dto.PaginaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.afilados.Historial(c.Request.Context(), id, q.Page, q.Limit)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DarDeBaja godoc
// @Summary      Baja individual de una sierra
// @Description  Se registra como una baja masiva de un solo item, reversible con DELETE /v1/bajas-masivas/{id}.
// @Tags         sierras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID de la sierra"
// @Param        body body dto.BajaIndividualRequest false "Fecha y observaciones"
// @Success      201  {object} dto.BajaMasivaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sierras/{id}/baja [post]
func (h *SierrasHandler) DarDeBaja(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.BajaIndividualRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.bajas.DarDeBaja(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
