package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-inventario/internal/domain"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// ExportContentType tipo MIME del respaldo.
const ExportContentType = "application/json"

// ExportArtifact archivo de respaldo listo para descargar o guardar.
type ExportArtifact struct {
	Name        string // backup_<usuario>_<YYYY-MM-DD>.json
	ContentType string
	Data        []byte
	Count       int
	User        string
	ExportedAt  time.Time
}

// ImportFailure fallo de un elemento individual; no aborta el resto de la importación.
type ImportFailure struct {
	Index int
	Err   error
}

// ImportReport resultado de una importación secuencial.
type ImportReport struct {
	Attempted int
	Imported  int
	Failures  []ImportFailure
}

// Failed número de elementos que no se importaron.
func (r ImportReport) Failed() int { return r.Attempted - r.Imported }

// Message texto final para el usuario.
func (r ImportReport) Message() string {
	if r.Failed() == 0 {
		return fmt.Sprintf("Importados %d ítems.", r.Imported)
	}
	return fmt.Sprintf("Importados %d de %d ítems.", r.Imported, r.Attempted)
}

// recordJSON forma de cada elemento del respaldo. price viaja como número JSON.
type recordJSON struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	Quantity      int         `json:"quantity"`
	Price         json.Number `json:"price"`
	SupplierEmail string      `json:"supplierEmail"`
	DateIn        string      `json:"dateIn"`
}

// importJSON acepta price como número o como string; id se acepta y se descarta.
type importJSON struct {
	ID            json.RawMessage `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	SupplierEmail string          `json:"supplierEmail"`
	DateIn        string          `json:"dateIn"`
}

// ExportFileName nombre del artefacto para el usuario y la fecha (UTC).
func ExportFileName(user string, now time.Time) string {
	return fmt.Sprintf("backup_%s_%s.json", user, now.UTC().Format(entity.DateLayout))
}

// EncodeRecords serializa los registros como arreglo JSON indentado con dos espacios.
func EncodeRecords(records []entity.InventoryRecord) ([]byte, error) {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, recordJSON{
			ID:            r.ID,
			Name:          r.Name,
			Category:      r.Category,
			Quantity:      r.Quantity,
			Price:         json.Number(r.Price.String()),
			SupplierEmail: r.SupplierEmail,
			DateIn:        r.DateIn,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// SplitImportPayload valida que el payload sea un arreglo JSON y devuelve sus elementos crudos.
func SplitImportPayload(payload []byte) ([]json.RawMessage, error) {
	if !json.Valid(payload) {
		return nil, &domain.ParseError{Reason: "JSON inválido"}
	}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &domain.ParseError{Reason: "se esperaba un arreglo"}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &domain.ParseError{Reason: "se esperaba un arreglo", Err: err}
	}
	return elems, nil
}

// DecodeImportElement convierte un elemento en el cuerpo a crear, descartando el id.
// Aplica las mismas reglas de forma que el formulario salvo el email del proveedor.
func DecodeImportElement(raw json.RawMessage) (entity.RecordFields, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return entity.RecordFields{}, errors.New("elemento inválido: se esperaba un objeto")
	}
	var in importJSON
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return entity.RecordFields{}, fmt.Errorf("elemento inválido: %w", err)
	}

	fields := entity.RecordFields{
		Name:          strings.TrimSpace(in.Name),
		Category:      in.Category,
		Quantity:      in.Quantity,
		Price:         in.Price,
		SupplierEmail: in.SupplierEmail,
		DateIn:        strings.TrimSpace(in.DateIn),
	}
	var bad []string
	if fields.Name == "" {
		bad = append(bad, FieldName)
	}
	if !entity.IsCategory(fields.Category) {
		bad = append(bad, FieldCategory)
	}
	if fields.Quantity < 0 {
		bad = append(bad, FieldQuantity)
	}
	if fields.Price.IsNegative() {
		bad = append(bad, FieldPrice)
	}
	if _, err := time.Parse(entity.DateLayout, fields.DateIn); err != nil {
		bad = append(bad, FieldDateIn)
	}
	if len(bad) > 0 {
		return entity.RecordFields{}, &domain.ValidationError{Fields: bad}
	}
	return fields, nil
}

// IsRemoteFailure indica si un fallo de importación vino del almacén remoto.
func (f ImportFailure) IsRemoteFailure() bool {
	return errors.Is(f.Err, domain.ErrRemote)
}
