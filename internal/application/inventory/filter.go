package inventory

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// Filter produce la vista filtrada. Sin texto de búsqueda (tras Trim y case folding) y
// sin categoría devuelve el mismo slice recibido; el llamador no debe asumir una copia.
//
// Un registro se incluye si el texto aparece (sin anclar) en el nombre o en la categoría,
// y si su categoría es exactamente la seleccionada. Ambos predicados se combinan con AND.
func Filter(records []entity.InventoryRecord, searchText, category string) []entity.InventoryRecord {
	fold := cases.Fold() // un Caser no se comparte entre goroutines
	term := fold.String(strings.TrimSpace(searchText))
	if term == "" && category == "" {
		return records
	}

	out := make([]entity.InventoryRecord, 0, len(records))
	for _, r := range records {
		if term != "" &&
			!strings.Contains(fold.String(r.Name), term) &&
			!strings.Contains(fold.String(r.Category), term) {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out
}
