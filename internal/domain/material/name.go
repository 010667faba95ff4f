package material

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// NormalizeKey produce la clave canónica de un material: recortada y en
// minúsculas. Es la ÚNICA forma válida de clave en mapas, consultas al libro
// de movimientos y filas del corte diario; "Cement (50kg)" y "cement (50kg)"
// deben resolver al mismo material aunque los capturen actores distintos.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayName deriva la forma de presentación (Title Case) de un nombre de
// material. Solo para mostrar; nunca usarla como clave.
func DisplayName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// IsBlankName indica si un nombre queda vacío tras normalizar. Las partidas
// BOQ con nombre en blanco se descartan sin abortar la agregación.
func IsBlankName(name string) bool {
	return strings.TrimSpace(name) == ""
}
