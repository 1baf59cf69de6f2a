package infra

import (
	"fmt"

	"austech/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection backed by pgx. TranslateError maps
// unique violations to gorm.ErrDuplicatedKey, which the repositories rely on.
// When autoMigrate is set the tables are created/updated and the idempotent
// patches GORM cannot express are applied.
func NewDatabase(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// RunMigrations creates the schema and applies the patches. Also used by the
// integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Empresa{},
		&model.Sucursal{},
		&model.TipoSierra{},
		&model.TipoAfilado{},
		&model.EstadoSierraRow{},
		&model.Sierra{},
		&model.Afilado{},
		&model.SalidaMasiva{},
		&model.SalidaMasivaDetalle{},
		&model.BajaMasiva{},
		&model.BajaMasivaDetalle{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL/DML that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// single open cycle per sierra, enforced by the store
		{"afilados_un_abierto_por_sierra", `
CREATE UNIQUE INDEX IF NOT EXISTS afilados_un_abierto_por_sierra
    ON afilados (sierra_id)
    WHERE fecha_salida IS NULL`},
		{"idx_afilados_pendientes", `
CREATE INDEX IF NOT EXISTS idx_afilados_pendientes
    ON afilados (fecha_afilado)
    WHERE fecha_salida IS NULL`},
		{"seed estados_sierra", fmt.Sprintf(`
INSERT INTO estados_sierra (id, codigo, nombre) VALUES
    (%d, 'DISPONIBLE',         'Disponible'),
    (%d, 'EN_PROCESO_AFILADO', 'En proceso de afilado'),
    (%d, 'LISTA_PARA_RETIRO',  'Lista para retiro'),
    (%d, 'FUERA_DE_SERVICIO',  'Fuera de servicio')
ON CONFLICT (id) DO NOTHING`,
			model.EstadoSierraDisponible,
			model.EstadoSierraEnProceso,
			model.EstadoSierraListaParaRetiro,
			model.EstadoSierraFueraDeServicio)},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
