package handler

import (
	"net/http"

	"austech/internal/apierror"
	"austech/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogosHandler struct{ svc service.CatalogoService }

func NewCatalogosHandler(svc service.CatalogoService) *CatalogosHandler {
	return &CatalogosHandler{svc: svc}
}

// Listar godoc
// @Summary      Sucursales, tipos de sierra y tipos de afilado activos
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Param        empresa_id query string false "Limita las sucursales a una empresa"
// @Success      200  {object} dto.CatalogosResponse
// @Router       /v1/catalogos [get]
func (h *CatalogosHandler) Listar(c *gin.Context) {
	var empresaID *uuid.UUID
	if raw := c.Query("empresa_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("empresa_id invalido"))
			return
		}
		empresaID = &id
	}
	resp, err := h.svc.Listar(c.Request.Context(), empresaID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
