package entity

// Categorías expuestas por la UI. Se usan como campo y como dimensión de filtro.
const (
	CategoryElectronica  = "Electrónica"
	CategoryOficina      = "Oficina"
	CategoryHerramientas = "Herramientas"
	CategoryLimpieza     = "Limpieza"
	CategoryAlimentos    = "Alimentos"
	CategoryOtros        = "Otros"
)

// Categories conjunto fijo, en el orden del selector.
var Categories = []string{
	CategoryElectronica,
	CategoryOficina,
	CategoryHerramientas,
	CategoryLimpieza,
	CategoryAlimentos,
	CategoryOtros,
}

// IsCategory indica si c pertenece al conjunto fijo (comparación exacta).
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
