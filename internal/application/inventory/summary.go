package inventory

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// displayLocale formato de moneda de la UI (MXN, es-MX, 2 decimales).
var displayLocale = language.MustParse("es-MX")

// Summary totales de una vista (filtrada o no).
type Summary struct {
	TotalQuantity int
	TotalValue    decimal.Decimal // Σ quantity × price, sin redondeo intermedio
}

// Summarize agrega cantidad y valor. Entrada vacía → 0 y 0.
func Summarize(records []entity.InventoryRecord) Summary {
	s := Summary{TotalValue: decimal.Zero}
	for _, r := range records {
		s.TotalQuantity += r.Quantity
		s.TotalValue = s.TotalValue.Add(r.Price.Mul(decimal.NewFromInt(int64(r.Quantity))))
	}
	return s
}

// QuantityLabel etiqueta del total de unidades, ej: "3 unidades".
func (s Summary) QuantityLabel() string {
	return fmt.Sprintf("%d unidades", s.TotalQuantity)
}

// ValueLabel etiqueta del valor total, ej: "Valor: $25.00".
func (s Summary) ValueLabel() string {
	return "Valor: " + FormatMXN(s.TotalValue)
}

// FormatMXN formatea un monto para mostrar. Es el único punto donde se redondea.
func FormatMXN(amount decimal.Decimal) string {
	p := message.NewPrinter(displayLocale)
	return "$" + p.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}

// CategoryTotal totales de una categoría dentro de una vista.
type CategoryTotal struct {
	Category string
	Summary
}

// SummarizeByCategory desglosa los totales por categoría, en el orden fijo de
// entity.Categories. Las categorías sin registros se omiten; una categoría fuera
// del conjunto (datos importados a mano) va al final.
func SummarizeByCategory(records []entity.InventoryRecord) []CategoryTotal {
	groups := make(map[string][]entity.InventoryRecord)
	var extra []string
	for _, r := range records {
		if _, seen := groups[r.Category]; !seen && !entity.IsCategory(r.Category) {
			extra = append(extra, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r)
	}

	order := append(slices.Clone(entity.Categories), extra...)
	out := make([]CategoryTotal, 0, len(groups))
	for _, cat := range order {
		if g, ok := groups[cat]; ok {
			out = append(out, CategoryTotal{Category: cat, Summary: Summarize(g)})
		}
	}
	return out
}
