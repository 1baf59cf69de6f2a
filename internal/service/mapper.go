package service

import (
	"time"

	"austech/internal/dto"
	"austech/internal/model"

	"github.com/google/uuid"
)

const (
	formatoFecha     = "2006-01-02"
	formatoTimestamp = "2006-01-02T15:04:05Z07:00"
)

func parseFecha(campo, valor string) (time.Time, error) {
	t, err := time.Parse(formatoFecha, valor)
	if err != nil {
		return time.Time{}, &ValidationError{Mensaje: campo + " invalida, se espera AAAA-MM-DD"}
	}
	return t, nil
}

// parseFechaOpcional returns nil for an empty string.
func parseFechaOpcional(campo, valor string) (*time.Time, error) {
	if valor == "" {
		return nil, nil
	}
	t, err := parseFecha(campo, valor)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// inicioDelDia is midnight of t's calendar day in t's own location.
func inicioDelDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseID(campo, valor string) (uuid.UUID, error) {
	id, err := uuid.Parse(valor)
	if err != nil {
		return uuid.Nil, &ValidationError{Mensaje: campo + " invalido"}
	}
	return id, nil
}

func parseIDOpcional(campo, valor string) (*uuid.UUID, error) {
	if valor == "" {
		return nil, nil
	}
	id, err := parseID(campo, valor)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIDs(campo string, valores []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(valores))
	for _, v := range valores {
		id, err := parseID(campo, v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	ids = dedupIDs(ids)
	if len(ids) == 0 {
		return nil, &ValidationError{Mensaje: campo + " no puede estar vacio"}
	}
	return ids, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func sierraToResponse(s *model.Sierra, abierto *model.Afilado) *dto.SierraResponse {
	estado := DerivarEstado(s.Activo, abierto)
	resp := &dto.SierraResponse{
		ID:            s.ID.String(),
		CodigoBarras:  s.CodigoBarras,
		SucursalID:    s.SucursalID.String(),
		TipoSierraID:  s.TipoSierraID.String(),
		EstadoID:      estado.ID(),
		Estado:        string(estado),
		Activo:        s.Activo,
		FechaRegistro: s.FechaRegistro.Format(formatoTimestamp),
	}
	if abierto != nil {
		id := abierto.ID.String()
		resp.AfiladoAbierto = &id
	}
	return resp
}

func afiladoToResponse(a *model.Afilado) dto.AfiladoResponse {
	resp := dto.AfiladoResponse{
		ID:            a.ID.String(),
		SierraID:      a.SierraID.String(),
		TipoAfiladoID: a.TipoAfiladoID.String(),
		FechaAfilado:  a.FechaAfilado.Format(formatoTimestamp),
		Estado:        a.Estado,
		Observaciones: a.Observaciones,
		UsuarioID:     a.UsuarioID.String(),
	}
	if c, ok := a.Ciclo().(model.CicloCerrado); ok {
		f := c.FechaSalida.Format(formatoFecha)
		resp.FechaSalida = &f
	}
	if a.Sierra != nil {
		resp.CodigoBarras = a.Sierra.CodigoBarras
	}
	return resp
}

func salidaToResponse(s *model.SalidaMasiva, afilados []uuid.UUID) *dto.SalidaMasivaResponse {
	if afilados == nil {
		afilados = make([]uuid.UUID, 0, len(s.Detalles))
		for _, d := range s.Detalles {
			afilados = append(afilados, d.AfiladoID)
		}
	}
	return &dto.SalidaMasivaResponse{
		ID:            s.ID.String(),
		SucursalID:    s.SucursalID.String(),
		FechaSalida:   s.FechaSalida.Format(formatoFecha),
		Observaciones: s.Observaciones,
		UsuarioID:     s.UsuarioID.String(),
		CreadoEn:      s.CreadoEn.Format(formatoTimestamp),
		AfiladosIDs:   idStrings(afilados),
		Cantidad:      len(afilados),
	}
}

func bajaToResponse(b *model.BajaMasiva) *dto.BajaMasivaResponse {
	resp := &dto.BajaMasivaResponse{
		ID:            b.ID.String(),
		UsuarioID:     b.UsuarioID.String(),
		FechaBaja:     b.FechaBaja.Format(formatoFecha),
		Observaciones: b.Observaciones,
		CreadoEn:      b.CreadoEn.Format(formatoTimestamp),
		Detalles:      make([]dto.BajaMasivaDetalleResponse, 0, len(b.Detalles)),
	}
	for _, d := range b.Detalles {
		det := dto.BajaMasivaDetalleResponse{
			SierraID:       d.SierraID.String(),
			EstadoAnterior: d.EstadoAnterior,
		}
		if d.Sierra != nil {
			det.CodigoBarras = d.Sierra.CodigoBarras
		}
		if d.AfiladoCerradoID != nil {
			id := d.AfiladoCerradoID.String()
			det.AfiladoCerradoID = &id
		}
		resp.Detalles = append(resp.Detalles, det)
	}
	resp.Cantidad = len(resp.Detalles)
	return resp
}
