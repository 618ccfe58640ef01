package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions  *inventory.Registry
	Backup    inventory.BackupSink      // nil: sin copia remota de exportaciones
	Reports   inventory.ReportGenerator // nil: /report.pdf responde 501
	Logger    zerolog.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	h := NewInventoryHandler(deps.Sessions, deps.Backup, deps.Reports, deps.Logger)

	// Público
	api.Get("/inventory/categories", h.Categories)

	// Rutas protegidas (requieren Bearer Token con claim email)
	inv := api.Group("/inventory", AuthMiddleware(deps.JWTSecret))
	inv.Get("/", h.View)
	inv.Post("/reload", h.Reload)
	inv.Post("/items", h.Create)
	inv.Delete("/items/:id", h.Delete)
	inv.Get("/report.pdf", h.Report)
	inv.Delete("/session", h.EndSession)

	// Formulario crear/editar
	inv.Get("/form", h.GetForm)
	inv.Put("/form", h.SetForm)
	inv.Post("/form/edit/:id", h.BeginEdit)
	inv.Post("/form/reset", h.ResetForm)
	inv.Post("/form/submit", h.Submit)

	// Respaldos
	inv.Post("/import", h.Import)
	inv.Get("/export", h.Export)
}
