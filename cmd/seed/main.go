// cmd/seed/main.go: Crea el esquema, catalogos de demo y un token de desarrollo.
// Uso: go run ./cmd/seed
package main

import (
	"fmt"
	"time"

	"austech/internal/config"
	"austech/internal/infra"
	"austech/internal/middleware"
	"austech/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	tiposSierra  = []string{"Cinta carnicera 16mm", "Cinta carnicera 19mm", "Circular 250mm", "Circular 300mm"}
	tiposAfilado = []string{"Afilado estandar", "Afilado y trabado", "Reparacion de soldadura"}
	sucursales   = []string{"Casa Central", "Sucursal Norte", "Sucursal Sur"}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, true)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	empresa := model.Empresa{Nombre: cfg.EmpresaNombre + " Demo", Activo: true}
	if err := db.Where(model.Empresa{Nombre: empresa.Nombre}).FirstOrCreate(&empresa).Error; err != nil {
		log.Fatal().Err(err).Msg("empresa")
	}
	for _, nombre := range sucursales {
		s := model.Sucursal{EmpresaID: empresa.ID, Nombre: nombre, Activo: true}
		must(db.Where(model.Sucursal{EmpresaID: empresa.ID, Nombre: nombre}).FirstOrCreate(&s), "sucursal "+nombre)
	}
	for _, nombre := range tiposSierra {
		t := model.TipoSierra{Nombre: nombre, Activo: true}
		must(db.Where(model.TipoSierra{Nombre: nombre}).FirstOrCreate(&t), "tipo de sierra "+nombre)
	}
	for _, nombre := range tiposAfilado {
		t := model.TipoAfilado{Nombre: nombre, Activo: true}
		must(db.Where(model.TipoAfilado{Nombre: nombre}).FirstOrCreate(&t), "tipo de afilado "+nombre)
	}

	token, err := middleware.NewToken(cfg.JWTSecret, uuid.NewString(), "seed", jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token")
	}

	fmt.Printf("Catalogos cargados para empresa %q (%s)\n", empresa.Nombre, empresa.ID)
	fmt.Printf("Token de desarrollo (24h):\n%s\n", token)
}

func must(tx *gorm.DB, what string) {
	if tx.Error != nil {
		log.Fatal().Err(tx.Error).Msg(what)
	}
}
