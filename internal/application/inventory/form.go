package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-inventario/internal/domain"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// Mode estado del formulario.
type Mode string

const (
	ModeCreate Mode = "CREATE" // cursor vacío
	ModeEdit   Mode = "EDIT"   // cursor = id del registro en edición
)

// Nombres de campo reportados en ValidationError (iguales a los del JSON de importación).
const (
	FieldName          = "name"
	FieldCategory      = "category"
	FieldQuantity      = "quantity"
	FieldPrice         = "price"
	FieldSupplierEmail = "supplierEmail"
	FieldDateIn        = "dateIn"
)

// FormInput valores crudos del formulario, tal como los escribe el usuario.
type FormInput struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Quantity      string `json:"quantity"`
	Price         string `json:"price"`
	SupplierEmail string `json:"supplierEmail"`
	DateIn        string `json:"dateIn"`
}

// InputFromRecord llena los campos editables con los valores actuales del registro.
func InputFromRecord(r entity.InventoryRecord) FormInput {
	return FormInput{
		Name:          r.Name,
		Category:      r.Category,
		Quantity:      strconv.Itoa(r.Quantity),
		Price:         r.Price.String(),
		SupplierEmail: r.SupplierEmail,
		DateIn:        r.DateIn,
	}
}

// Form máquina de estados crear/editar. Estado inicial: ModeCreate.
// El cursor es una referencia débil: nombra un registro pero no lo posee.
type Form struct {
	input       FormInput
	cursor      string
	editingName string
}

// NewForm formulario vacío en modo creación.
func NewForm() *Form { return &Form{} }

// Mode devuelve el estado actual.
func (f *Form) Mode() Mode {
	if f.cursor == "" {
		return ModeCreate
	}
	return ModeEdit
}

// Cursor id en edición, o "" en modo creación.
func (f *Form) Cursor() string { return f.cursor }

// Input valores actuales del formulario.
func (f *Form) Input() FormInput { return f.input }

// SetInput reemplaza los valores del formulario sin cambiar de modo.
func (f *Form) SetInput(in FormInput) { f.input = in }

// BeginEdit CREATE|EDIT → EDIT sobre el registro r.
func (f *Form) BeginEdit(r entity.InventoryRecord) {
	f.cursor = r.ID
	f.editingName = r.Name
	f.input = InputFromRecord(r)
}

// Reset → CREATE con el formulario vacío.
func (f *Form) Reset() {
	f.input = FormInput{}
	f.cursor = ""
	f.editingName = ""
}

// Title encabezado del formulario.
func (f *Form) Title() string {
	if f.Mode() == ModeEdit {
		return "Editando: " + f.editingName
	}
	return "Agregar Item"
}

// Validate revisa la forma de los campos y devuelve el cuerpo listo para el almacén.
// Si algo falla devuelve *domain.ValidationError con todos los campos ofensivos.
func (f *Form) Validate() (entity.RecordFields, error) {
	in := f.input
	var bad []string
	fields := entity.RecordFields{
		Name:          strings.TrimSpace(in.Name),
		Category:      in.Category,
		SupplierEmail: strings.TrimSpace(in.SupplierEmail),
		DateIn:        strings.TrimSpace(in.DateIn),
	}

	if fields.Name == "" {
		bad = append(bad, FieldName)
	}
	if !entity.IsCategory(fields.Category) {
		bad = append(bad, FieldCategory)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil || qty < 0 {
		bad = append(bad, FieldQuantity)
	}
	fields.Quantity = qty

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil || price.IsNegative() {
		bad = append(bad, FieldPrice)
	}
	fields.Price = price

	if fields.SupplierEmail != "" {
		if !govalidator.IsEmail(fields.SupplierEmail) {
			bad = append(bad, FieldSupplierEmail)
		}
	}
	if _, err := time.Parse(entity.DateLayout, fields.DateIn); err != nil {
		bad = append(bad, FieldDateIn)
	}

	if len(bad) > 0 {
		return entity.RecordFields{}, &domain.ValidationError{Fields: bad}
	}
	return fields, nil
}

// forget limpia el cursor si apunta a id (el registro fue eliminado).
func (f *Form) forget(id string) bool {
	if f.cursor == "" || f.cursor != id {
		return false
	}
	f.Reset()
	return true
}
