package router

import (
	"time"

	"austech/internal/config"
	"austech/internal/handler"
	"austech/internal/middleware"
	"austech/internal/repository"
	"austech/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// The claim strategy and the baja policy are chosen once by the caller.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, claims service.ClaimStrategy, politica service.PoliticaBaja) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	sierraRepo := repository.NewSierraRepository(db)
	afiladoRepo := repository.NewAfiladoRepository(db)
	salidaRepo := repository.NewSalidaMasivaRepository(db)
	bajaRepo := repository.NewBajaMasivaRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	sierraSvc := service.NewSierraService(sierraRepo, afiladoRepo, catalogoRepo)
	afiladoSvc := service.NewAfiladoService(afiladoRepo, sierraRepo, catalogoRepo)
	salidaSvc := service.NewSalidaMasivaService(salidaRepo, afiladoRepo, sierraRepo, catalogoRepo, claims, cfg.EmpresaNombre)
	bajaSvc := service.NewBajaMasivaService(bajaRepo, sierraRepo, afiladoRepo, claims, politica)
	catalogoSvc := service.NewCatalogoService(catalogoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	sierrasH := handler.NewSierrasHandler(sierraSvc, afiladoSvc, bajaSvc)
	afiladosH := handler.NewAfiladosHandler(afiladoSvc, sierraSvc)
	salidasH := handler.NewSalidasMasivasHandler(salidaSvc)
	bajasH := handler.NewBajasMasivasHandler(bajaSvc)
	catalogosH := handler.NewCatalogosHandler(catalogoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes
	limiter := middleware.NewRateLimiter(cfg.RateLimitPorMinuto, time.Minute)
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), limiter.Middleware())
	{
		sierras := v1.Group("/sierras")
		{
			sierras.POST("", sierrasH.Registrar)
			sierras.GET("", sierrasH.Listar)
			sierras.GET("/codigo/:codigo", sierrasH.BuscarPorCodigo)
			sierras.GET("/:id", sierrasH.ObtenerPorID)
			sierras.GET("/:id/afilados", sierrasH.Historial)
			sierras.GET("/:id/puede-afilar", sierrasH.PuedeAfilar)
			sierras.POST("/:id/baja", sierrasH.DarDeBaja)
		}

		afilados := v1.Group("/afilados")
		{
			afilados.POST("", afiladosH.Crear)
			afilados.GET("/pendientes", afiladosH.ListarPendientes)
			afilados.POST("/:id/completar", afiladosH.Completar)
			afilados.POST("/:id/salida", afiladosH.MarcarSalida)
		}

		salidas := v1.Group("/salidas-masivas")
		{
			salidas.POST("", salidasH.Crear)
			salidas.GET("", salidasH.Listar)
			salidas.GET("/:id", salidasH.ObtenerPorID)
			salidas.DELETE("/:id", salidasH.Eliminar)
			salidas.GET("/:id/remito", salidasH.Remito)
			salidas.GET("/:id/planilla", salidasH.Planilla)
		}

		bajas := v1.Group("/bajas-masivas")
		{
			bajas.POST("", bajasH.Crear)
			bajas.GET("", bajasH.Listar)
			bajas.GET("/:id", bajasH.ObtenerPorID)
			bajas.DELETE("/:id", bajasH.Eliminar)
		}

		v1.GET("/catalogos", catalogosH.Listar)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
