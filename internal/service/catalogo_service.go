package service

import (
	"context"

	"austech/internal/dto"
	"austech/internal/repository"

	"github.com/google/uuid"
)

// CatalogoService exposes the reference lists the batch forms select from.
type CatalogoService interface {
	Listar(ctx context.Context, empresaID *uuid.UUID) (*dto.CatalogosResponse, error)
}

type catalogoService struct {
	repo repository.CatalogoRepository
}

func NewCatalogoService(repo repository.CatalogoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

func (s *catalogoService) Listar(ctx context.Context, empresaID *uuid.UUID) (*dto.CatalogosResponse, error) {
	sucursales, err := s.repo.ListSucursales(ctx, empresaID)
	if err != nil {
		return nil, storeErr("listar sucursales", err)
	}
	tiposSierra, err := s.repo.ListTiposSierra(ctx)
	if err != nil {
		return nil, storeErr("listar tipos de sierra", err)
	}
	tiposAfilado, err := s.repo.ListTiposAfilado(ctx)
	if err != nil {
		return nil, storeErr("listar tipos de afilado", err)
	}

	resp := &dto.CatalogosResponse{
		Sucursales:   make([]dto.CatalogoItem, 0, len(sucursales)),
		TiposSierra:  make([]dto.CatalogoItem, 0, len(tiposSierra)),
		TiposAfilado: make([]dto.CatalogoItem, 0, len(tiposAfilado)),
	}
	for _, x := range sucursales {
		resp.Sucursales = append(resp.Sucursales, dto.CatalogoItem{ID: x.ID.String(), Nombre: x.Nombre})
	}
	for _, x := range tiposSierra {
		resp.TiposSierra = append(resp.TiposSierra, dto.CatalogoItem{ID: x.ID.String(), Nombre: x.Nombre})
	}
	for _, x := range tiposAfilado {
		resp.TiposAfilado = append(resp.TiposAfilado, dto.CatalogoItem{ID: x.ID.String(), Nombre: x.Nombre})
	}
	return resp, nil
}
