package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/controllermansear-arch/vendorMan/internal/config"
	"github.com/controllermansear-arch/vendorMan/internal/handler"
	"github.com/controllermansear-arch/vendorMan/internal/middleware"
	"github.com/controllermansear-arch/vendorMan/internal/repository"
	"github.com/controllermansear-arch/vendorMan/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	catalogoRepo := repository.NewCatalogoRepository(db)
	comandaRepo := repository.NewComandaRepository(db)
	estoqueRepo := repository.NewEstoqueRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	estoqueSvc := service.NewEstoqueService(estoqueRepo)
	syncSvc := service.NewBackendSyncService(comandaRepo, catalogoRepo, estoqueSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(catalogoRepo)
	comandasH := handler.NewComandasHandler(comandaRepo, syncSvc)
	syncH := handler.NewSyncHandler(syncSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc, catalogoRepo)
	statusH := handler.NewStatusHandler(comandaRepo)

	// ── Routes ───────────────────────────────────────────────────────────────
	inicio := time.Now()
	r.GET("/health", handler.Health(db, inicio))

	// Catalog pull (devices cache it locally)
	r.GET("/products", productsH.Listar)

	// Device push
	r.POST("/sync", syncH.Receber)

	comandas := r.Group("/comandas")
	{
		comandas.POST("", comandasH.Criar)
		comandas.GET("", comandasH.Listar)
		comandas.GET("/:id", comandasH.Obter)
		comandas.PUT("/:id/fechar", comandasH.Fechar)
	}

	estoque := r.Group("/estoque")
	{
		estoque.GET("", estoqueH.Listar)
		estoque.POST("/entrada", estoqueH.RegistrarEntrada)
	}

	r.GET("/admin/status", statusH.Status)

	return r
}
