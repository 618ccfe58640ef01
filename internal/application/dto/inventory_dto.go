package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// RecordRequest body para POST /api/inventory/items. Mismos valores crudos que el formulario.
type RecordRequest = inventory.FormInput

// RecordResponse un ítem del inventario.
type RecordResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	PriceLabel    string          `json:"price_label"` // $1,234.50
	SupplierEmail string          `json:"supplierEmail"`
	DateIn        string          `json:"dateIn"`
}

// CategoryTotalDTO totales de una categoría en la vista.
type CategoryTotalDTO struct {
	Category      string          `json:"category"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	ValueLabel    string          `json:"value_label"`
}

// ViewResponse vista filtrada con totales.
type ViewResponse struct {
	Items         []RecordResponse   `json:"items"`
	ByCategory    []CategoryTotalDTO `json:"by_category"`
	SearchText    string             `json:"search_text"`
	Category      string             `json:"category"`
	TotalQuantity int                `json:"total_quantity"`
	TotalValue    decimal.Decimal    `json:"total_value"`
	QuantityLabel string             `json:"quantity_label"`
	ValueLabel    string             `json:"value_label"`
	EmptyMessage  string             `json:"empty_message,omitempty"`
}

// ImportFailureDTO fallo de un elemento del respaldo.
type ImportFailureDTO struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResponse resultado de POST /api/inventory/import.
type ImportResponse struct {
	Attempted int                `json:"attempted"`
	Imported  int                `json:"imported"`
	Failed    int                `json:"failed"`
	Message   string             `json:"message"`
	Failures  []ImportFailureDTO `json:"failures,omitempty"`
}

// CategoriesResponse categorías válidas del formulario.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ToRecordResponse convierte un registro del dominio.
func ToRecordResponse(r entity.InventoryRecord) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Quantity:      r.Quantity,
		Price:         r.Price,
		PriceLabel:    inventory.FormatMXN(r.Price),
		SupplierEmail: r.SupplierEmail,
		DateIn:        r.DateIn,
	}
}

// ToViewResponse convierte la vista; Items nunca es null en el JSON.
func ToViewResponse(v inventory.View) ViewResponse {
	items := make([]RecordResponse, 0, len(v.Records))
	for _, r := range v.Records {
		items = append(items, ToRecordResponse(r))
	}
	byCat := make([]CategoryTotalDTO, 0, len(v.ByCategory))
	for _, ct := range v.ByCategory {
		byCat = append(byCat, CategoryTotalDTO{
			Category:      ct.Category,
			TotalQuantity: ct.TotalQuantity,
			TotalValue:    ct.TotalValue,
			ValueLabel:    ct.ValueLabel(),
		})
	}
	return ViewResponse{
		Items:         items,
		ByCategory:    byCat,
		SearchText:    v.SearchText,
		Category:      v.Category,
		TotalQuantity: v.Summary.TotalQuantity,
		TotalValue:    v.Summary.TotalValue,
		QuantityLabel: v.QuantityLabel,
		ValueLabel:    v.ValueLabel,
		EmptyMessage:  v.EmptyMessage,
	}
}
