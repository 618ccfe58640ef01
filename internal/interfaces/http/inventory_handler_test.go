package http_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-inventario/internal/application/dto"
	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/gestor-inventario/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// recordingSink BackupSink en memoria.
type recordingSink struct {
	mu    sync.Mutex
	saved []inventory.ExportArtifact
}

func (s *recordingSink) Save(_ context.Context, a inventory.ExportArtifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, a)
	return "mem://" + a.Name, nil
}

// stubReport devuelve un PDF mínimo y guarda la vista recibida.
type stubReport struct {
	view inventory.View
}

func (r *stubReport) GenerateInventoryPDF(_ context.Context, _ string, v inventory.View, _ time.Time) ([]byte, error) {
	r.view = v
	return []byte("%PDF-1.3 stub"), nil
}

// downStore almacén remoto caído.
type downStore struct{}

func (downStore) List(context.Context, string) ([]entity.InventoryRecord, error) {
	return nil, errors.New("servicio no disponible")
}
func (downStore) Create(context.Context, string, entity.RecordFields) (string, error) {
	return "", errors.New("servicio no disponible")
}
func (downStore) Update(context.Context, string, string, entity.RecordFields) error {
	return errors.New("servicio no disponible")
}
func (downStore) Delete(context.Context, string, string) error {
	return errors.New("servicio no disponible")
}

type testEnv struct {
	app    *fiber.App
	sink   *recordingSink
	report *stubReport
	auth   string
}

func newTestEnv(t *testing.T, store repository.RecordStore) *testEnv {
	t.Helper()
	reg := inventory.NewRegistry(store)
	t.Cleanup(reg.Close)

	env := &testEnv{
		app:    fiber.New(),
		sink:   &recordingSink{},
		report: &stubReport{},
		auth:   bearer(t, testUser),
	}
	apphttp.Router(env.app, apphttp.RouterDeps{
		Sessions:  reg,
		Backup:    env.sink,
		Reports:   env.report,
		Logger:    zerolog.Nop(),
		JWTSecret: testJWTSecret,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", e.auth)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

const laptopJSON = `{"name":"Laptop","category":"Electrónica","quantity":"2","price":"10.5","supplierEmail":"ventas@example.com","dateIn":"2025-01-10"}`

// ──────────────────────────────────────────────────────────────────────────────
// Vista y CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_VistaVacia(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())

	resp := env.do(t, http.MethodGet, "/api/inventory", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v dto.ViewResponse
	decodeBody(t, resp, &v)
	assert.Empty(t, v.Items)
	assert.Equal(t, "Tu inventario está vacío.", v.EmptyMessage)
	assert.Equal(t, "0 unidades", v.QuantityLabel)
	assert.Equal(t, "Valor: $0.00", v.ValueLabel)
}

func TestInventory_CrearFiltrarYEliminar(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())

	resp := env.do(t, http.MethodPost, "/api/inventory/items", laptopJSON)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.RecordResponse
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "$10.50", created.PriceLabel)

	resp = env.do(t, http.MethodGet, "/api/inventory?q=LAP", "")
	var v dto.ViewResponse
	decodeBody(t, resp, &v)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "2 unidades", v.QuantityLabel)
	assert.Equal(t, "Valor: $21.00", v.ValueLabel)
	require.Len(t, v.ByCategory, 1)
	assert.Equal(t, "Electrónica", v.ByCategory[0].Category)

	resp = env.do(t, http.MethodGet, "/api/inventory?category=Oficina", "")
	decodeBody(t, resp, &v)
	assert.Empty(t, v.Items)
	assert.Equal(t, "No hay coincidencias.", v.EmptyMessage)

	resp = env.do(t, http.MethodDelete, "/api/inventory/items/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/inventory/items/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventory_CrearInvalido(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())

	resp := env.do(t, http.MethodPost, "/api/inventory/items", `{"name":" ","category":"Juguetes","quantity":"-1","price":"abc"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e dto.ErrorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, []string{"name", "category", "quantity", "price", "dateIn"}, e.Fields)
}

func TestInventory_AlmacenCaido(t *testing.T) {
	env := newTestEnv(t, downStore{})

	resp := env.do(t, http.MethodGet, "/api/inventory", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var e dto.ErrorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, "REMOTE", e.Code)
}

func TestInventory_SinToken(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())
	env.auth = ""

	resp := env.do(t, http.MethodGet, "/api/inventory", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/inventory/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats dto.CategoriesResponse
	decodeBody(t, resp, &cats)
	assert.Equal(t, entity.Categories, cats.Categories)
}

// ──────────────────────────────────────────────────────────────────────────────
// Formulario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_FlujoFormulario(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())

	resp := env.do(t, http.MethodPut, "/api/inventory/form", laptopJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/inventory/form/submit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec dto.RecordResponse
	decodeBody(t, resp, &rec)

	resp = env.do(t, http.MethodPost, "/api/inventory/form/edit/"+rec.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st inventory.FormState
	decodeBody(t, resp, &st)
	assert.Equal(t, inventory.ModeEdit, st.Mode)
	assert.Equal(t, rec.ID, st.Cursor)
	assert.Equal(t, "Editando: Laptop", st.Title)
	assert.Equal(t, "2", st.Input.Quantity)

	st.Input.Quantity = "7"
	resp = env.do(t, http.MethodPut, "/api/inventory/form", mustJSON(t, st.Input))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/inventory/form/submit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/inventory/form", "")
	decodeBody(t, resp, &st)
	assert.Equal(t, inventory.ModeCreate, st.Mode)
	assert.Equal(t, "Agregar Item", st.Title)

	resp = env.do(t, http.MethodGet, "/api/inventory", "")
	var v dto.ViewResponse
	decodeBody(t, resp, &v)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 7, v.Items[0].Quantity)
}

func TestInventory_EditarInexistente(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())
	resp := env.do(t, http.MethodPost, "/api/inventory/form/edit/nada", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Respaldos y reporte
// ──────────────────────────────────────────────────────────────────────────────

const backupJSON = `[
  {"id":"x1","name":"Grapadora","category":"Oficina","quantity":3,"price":45.5,"supplierEmail":"","dateIn":"2025-01-02"},
  {"id":"x2","name":"Cloro","category":"Limpieza","quantity":-2,"price":10,"supplierEmail":"","dateIn":"2025-01-02"}
]`

func TestInventory_ImportYExport(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())

	resp := env.do(t, http.MethodGet, "/api/inventory/export", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/inventory/import", backupJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep dto.ImportResponse
	decodeBody(t, resp, &rep)
	assert.Equal(t, 2, rep.Attempted)
	assert.Equal(t, 1, rep.Imported)
	assert.Equal(t, "Importados 1 de 2 ítems.", rep.Message)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, 1, rep.Failures[0].Index)
	assert.Equal(t, "VALIDATION", rep.Failures[0].Code)

	resp = env.do(t, http.MethodGet, "/api/inventory/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "backup_ana@example.com_")
	assert.True(t, strings.HasPrefix(resp.Header.Get("X-Backup-Location"), "mem://backup_ana@example.com_"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"name": "Grapadora"`)
	require.Len(t, env.sink.saved, 1)
	assert.Equal(t, 1, env.sink.saved[0].Count)
}

func TestInventory_ImportMultipart(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`[{"name":"Martillo","category":"Herramientas","quantity":1,"price":99,"dateIn":"2025-03-01"}]`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/import", &buf)
	req.Header.Set("Authorization", env.auth)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep dto.ImportResponse
	decodeBody(t, resp, &rep)
	assert.Equal(t, "Importados 1 ítems.", rep.Message)
}

func TestInventory_ImportNoEsArreglo(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())

	resp := env.do(t, http.MethodPost, "/api/inventory/import", `{"name":"x"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, "PARSE", e.Code)
}

func TestInventory_ReportePDF(t *testing.T) {
	env := newTestEnv(t, memory.NewRecordStore())
	env.do(t, http.MethodPost, "/api/inventory/items", laptopJSON)

	resp := env.do(t, http.MethodGet, "/api/inventory/report.pdf?category=Electr%C3%B3nica", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Electrónica", env.report.view.Category)
	assert.Len(t, env.report.view.Records, 1)
}

func TestInventory_EndSessionRecargaDesdeAlmacen(t *testing.T) {
	store := memory.NewRecordStore()
	env := newTestEnv(t, store)
	env.do(t, http.MethodPost, "/api/inventory/items", laptopJSON)

	// cambio hecho por otro cliente directamente en el almacén
	_, err := store.Create(context.Background(), testUser, entity.RecordFields{Name: "Mouse", Category: entity.CategoryElectronica})
	require.NoError(t, err)

	resp := env.do(t, http.MethodDelete, "/api/inventory/session", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/inventory", "")
	var v dto.ViewResponse
	decodeBody(t, resp, &v)
	assert.Len(t, v.Items, 2)
}
