package handler

import (
	"errors"
	"net/http"
	"sort"

	"austech/internal/apierror"
	"austech/internal/middleware"
	"austech/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses the :id path param, writing 400 when it is not a uuid.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the service error taxonomy to HTTP:
//
//	ValidationError     400
//	NotFoundError       404
//	ConflictError       409
//	PartialFailureError 207 (lote, when given, is the partially applied batch)
//	anything else       500, details logged only
func respondError(c *gin.Context, err error, lote interface{}) {
	var (
		nf *service.NotFoundError
		ve *service.ValidationError
		ce *service.ConflictError
		pf *service.PartialFailureError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, apierror.IDsError{Error: ve.Error(), IDs: idStrings(ve.IDs), Causas: causaStrings(ve.Causas)})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.IDsError{Error: nf.Error(), IDs: idStrings(nf.IDs)})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, apierror.IDsError{Error: ce.Error(), IDs: idStrings(ce.IDs)})
	case errors.As(err, &pf):
		c.JSON(http.StatusMultiStatus, apierror.PartialError{
			Error:    pf.Error(),
			LoteID:   pf.LoteID.String(),
			Exitosos: idStrings(pf.Exitosos),
			Fallidos: idStrings(pf.Fallidos),
			Causas:   causaStrings(pf.Causas),
			Lote:     lote,
		})
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("error interno")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

func causaStrings(causas map[uuid.UUID]string) map[string]string {
	if len(causas) == 0 {
		return nil
	}
	out := make(map[string]string, len(causas))
	for id, causa := range causas {
		out[id.String()] = causa
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}
