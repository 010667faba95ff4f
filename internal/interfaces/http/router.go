package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jpcastellanos/obra-api/internal/application/materials"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reconcile        *materials.ReconcileUseCase
	RegisterMovement *materials.RegisterMovementUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Tablero de materiales (protegido; cualquier rol de obra puede consultarlo)
	matGroup := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.Reconcile)
	matGroup.Get("/:projectId", materialHandler.GetMaterials)
	matGroup.Get("/:projectId/alerts", materialHandler.GetAlerts)
	// El corte manual solo lo dispara el ingeniero residente
	matGroup.Post("/:projectId/rollover", RequireRole(RoleIngeniero), materialHandler.Rollover)

	// Libro de movimientos (protegido; escriben bodega e ingeniero)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", RequireRole(RoleAlmacenista, RoleIngeniero), inventoryHandler.RecordMovement)
	invGroup.Get("/movements/:projectId", inventoryHandler.ListMovements)
}
