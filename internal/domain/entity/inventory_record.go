package entity

import "github.com/shopspring/decimal"

// DateLayout formato ISO de DateIn (fecha de ingreso).
const DateLayout = "2006-01-02"

// RecordFields cuerpo del documento remoto: todos los atributos del registro excepto el ID.
type RecordFields struct {
	Name          string
	Category      string
	Quantity      int             // siempre >= 0
	Price         decimal.Decimal // siempre >= 0; sin moneda en almacenamiento
	SupplierEmail string
	DateIn        string // YYYY-MM-DD
}

// InventoryRecord representa una línea del inventario de un usuario.
// El ID lo asigna el almacén remoto al crear y no cambia después.
type InventoryRecord struct {
	ID string
	RecordFields
}

// NewInventoryRecord une el ID remoto con los campos enviados.
func NewInventoryRecord(id string, f RecordFields) InventoryRecord {
	return InventoryRecord{ID: id, RecordFields: f}
}

// Equal compara campo a campo; el precio se compara por valor decimal.
func (f RecordFields) Equal(other RecordFields) bool {
	return f.Name == other.Name &&
		f.Category == other.Category &&
		f.Quantity == other.Quantity &&
		f.Price.Equal(other.Price) &&
		f.SupplierEmail == other.SupplierEmail &&
		f.DateIn == other.DateIn
}
