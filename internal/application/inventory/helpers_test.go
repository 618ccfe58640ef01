package inventory_test

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

const testUser = "ana@example.com"

func fields(name, category string, qty int, price string) entity.RecordFields {
	return entity.RecordFields{
		Name:          name,
		Category:      category,
		Quantity:      qty,
		Price:         decimal.RequireFromString(price),
		SupplierEmail: "proveedor@example.com",
		DateIn:        "2025-01-01",
	}
}

func record(id, name, category string, qty int, price string) entity.InventoryRecord {
	return entity.NewInventoryRecord(id, fields(name, category, qty, price))
}
