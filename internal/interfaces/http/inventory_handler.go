package http

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestor-inventario/internal/application/dto"
	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/domain"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// maxImportBytes tope del respaldo aceptado por POST /api/inventory/import.
const maxImportBytes = 10 << 20

// InventoryHandler expone la sesión de inventario del usuario autenticado.
// Cada petición se traduce en un comando del worker del usuario.
type InventoryHandler struct {
	sessions *inventory.Registry
	backup   inventory.BackupSink      // opcional
	report   inventory.ReportGenerator // opcional
	log      zerolog.Logger
	now      func() time.Time
}

// NewInventoryHandler construye el handler. backup y report pueden ser nil.
func NewInventoryHandler(sessions *inventory.Registry, backup inventory.BackupSink, report inventory.ReportGenerator, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{sessions: sessions, backup: backup, report: report, log: log, now: time.Now}
}

// worker obtiene (y si hace falta carga) la sesión del usuario.
func (h *InventoryHandler) worker(c *fiber.Ctx) (*inventory.Worker, error) {
	user := GetUser(c)
	if user == "" {
		return nil, domain.ErrUnauthorized
	}
	return h.sessions.Get(c.UserContext(), user)
}

func (h *InventoryHandler) fail(c *fiber.Ctx, err error) error {
	if err == domain.ErrUnauthorized {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario requerido"})
	}
	status, body := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("user", GetUser(c)).Str("path", c.Path()).Msg("petición de inventario fallida")
	}
	return c.Status(status).JSON(body)
}

// View godoc
// @Summary      Vista del inventario (filtrada) con totales
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        q         query  string  false  "Texto de búsqueda (nombre o categoría)"
// @Param        category  query  string  false  "Categoría exacta"
// @Success      200  {object}  dto.ViewResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) View(c *fiber.Ctx) error {
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	v, err := inventory.Dispatch[inventory.View](c.UserContext(), w, inventory.ViewCmd{
		SearchText: c.Query("q"),
		Category:   c.Query("category"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ToViewResponse(v))
}

// Categories godoc
// @Summary      Categorías válidas
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.CategoriesResponse
// @Router       /api/inventory/categories [get]
func (h *InventoryHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(dto.CategoriesResponse{Categories: entity.Categories})
}

// Reload godoc
// @Summary      Recargar el inventario desde el almacén remoto
// @Tags         inventory
// @Security     Bearer
// @Success      204
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/reload [post]
func (h *InventoryHandler) Reload(c *fiber.Ctx) error {
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	if _, err := w.Do(c.UserContext(), inventory.LoadCmd{}); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Create godoc
// @Summary      Crear ítem (sin pasar por el formulario de la sesión)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordRequest  true  "Valores del ítem"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/inventory/items [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.RecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	form := inventory.NewForm()
	form.SetInput(in)
	fields, err := form.Validate()
	if err != nil {
		return h.fail(c, err)
	}
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	rec, err := inventory.Dispatch[entity.InventoryRecord](c.UserContext(), w, inventory.CreateRecordCmd{Fields: fields})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRecordResponse(rec))
}

// Delete godoc
// @Summary      Eliminar ítem
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	if _, err := w.Do(c.UserContext(), inventory.DeleteCmd{ID: c.Params("id")}); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetForm godoc
// @Summary      Estado del formulario
// @Tags         form
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.FormState
// @Router       /api/inventory/form [get]
func (h *InventoryHandler) GetForm(c *fiber.Ctx) error {
	return h.formCommand(c, inventory.FormCmd{})
}

// SetForm godoc
// @Summary      Reemplazar los valores del formulario
// @Tags         form
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  inventory.FormInput  true  "Valores crudos"
// @Success      200   {object}  inventory.FormState
// @Router       /api/inventory/form [put]
func (h *InventoryHandler) SetForm(c *fiber.Ctx) error {
	var in inventory.FormInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return h.formCommand(c, inventory.SetFormCmd{Input: in})
}

// BeginEdit godoc
// @Summary      Editar un ítem (carga sus valores en el formulario)
// @Tags         form
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  inventory.FormState
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/form/edit/{id} [post]
func (h *InventoryHandler) BeginEdit(c *fiber.Ctx) error {
	return h.formCommand(c, inventory.BeginEditCmd{ID: c.Params("id")})
}

// ResetForm godoc
// @Summary      Cancelar edición / limpiar formulario
// @Tags         form
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.FormState
// @Router       /api/inventory/form/reset [post]
func (h *InventoryHandler) ResetForm(c *fiber.Ctx) error {
	return h.formCommand(c, inventory.ResetCmd{})
}

func (h *InventoryHandler) formCommand(c *fiber.Ctx, cmd inventory.Command) error {
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	st, err := inventory.Dispatch[inventory.FormState](c.UserContext(), w, cmd)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

// Submit godoc
// @Summary      Enviar el formulario (crea o actualiza según el modo)
// @Tags         form
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/form/submit [post]
func (h *InventoryHandler) Submit(c *fiber.Ctx) error {
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	rec, err := inventory.Dispatch[entity.InventoryRecord](c.UserContext(), w, inventory.SubmitCmd{})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ToRecordResponse(rec))
}

// Import godoc
// @Summary      Importar respaldo JSON (solo agrega; nunca borra)
// @Tags         backup
// @Security     Bearer
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  false  "Archivo .json (alternativa al body)"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	payload, err := importPayload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	report, err := inventory.Dispatch[inventory.ImportReport](c.UserContext(), w, inventory.ImportCmd{Payload: payload})
	if err != nil {
		return h.fail(c, err)
	}
	out := dto.ImportResponse{
		Attempted: report.Attempted,
		Imported:  report.Imported,
		Failed:    report.Failed(),
		Message:   report.Message(),
	}
	for _, f := range report.Failures {
		_, body := errorResponse(f.Err)
		out.Failures = append(out.Failures, dto.ImportFailureDTO{Index: f.Index, Code: body.Code, Message: body.Message})
	}
	return c.JSON(out)
}

// importPayload acepta el archivo como multipart (campo "file") o como body crudo.
func importPayload(c *fiber.Ctx) ([]byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxImportBytes {
			return nil, fmt.Errorf("archivo demasiado grande")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("abrir archivo: %w", err)
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImportBytes))
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("respaldo vacío")
	}
	if len(body) > maxImportBytes {
		return nil, fmt.Errorf("respaldo demasiado grande")
	}
	return append([]byte(nil), body...), nil
}

// Export godoc
// @Summary      Descargar respaldo JSON del inventario completo
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200
// @Success      204  "Inventario vacío: nada que exportar"
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	art, err := inventory.Dispatch[*inventory.ExportArtifact](c.UserContext(), w, inventory.ExportCmd{Now: h.now()})
	if err != nil {
		return h.fail(c, err)
	}
	if art == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if h.backup != nil {
		// la copia remota es secundaria: un fallo no impide la descarga
		if loc, err := h.backup.Save(c.UserContext(), *art); err != nil {
			h.log.Warn().Err(err).Str("user", art.User).Msg("no se pudo guardar la copia del respaldo")
		} else {
			c.Set("X-Backup-Location", loc)
		}
	}
	c.Set(fiber.HeaderContentType, art.ContentType)
	c.Attachment(art.Name)
	return c.Send(art.Data)
}

// Report godoc
// @Summary      Reporte PDF de la vista filtrada
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        q         query  string  false  "Texto de búsqueda"
// @Param        category  query  string  false  "Categoría exacta"
// @Success      200
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	if h.report == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_AVAILABLE", Message: "reportes deshabilitados"})
	}
	w, err := h.worker(c)
	if err != nil {
		return h.fail(c, err)
	}
	v, err := inventory.Dispatch[inventory.View](c.UserContext(), w, inventory.ViewCmd{
		SearchText: c.Query("q"),
		Category:   c.Query("category"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	data, err := h.report.GenerateInventoryPDF(c.UserContext(), w.User(), v, h.now())
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(fmt.Sprintf("inventario_%s.pdf", h.now().Format(entity.DateLayout)))
	return c.Send(data)
}

// EndSession godoc
// @Summary      Cerrar la sesión de inventario (descarta cache y formulario)
// @Tags         inventory
// @Security     Bearer
// @Success      204
// @Router       /api/inventory/session [delete]
func (h *InventoryHandler) EndSession(c *fiber.Ctx) error {
	user := GetUser(c)
	if user == "" {
		return h.fail(c, domain.ErrUnauthorized)
	}
	h.sessions.End(user)
	return c.SendStatus(fiber.StatusNoContent)
}
