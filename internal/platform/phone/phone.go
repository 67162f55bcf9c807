package phone

import "strings"

// DefaultCountryPrefix es el prefijo telefónico por defecto (Rwanda).
const DefaultCountryPrefix = "+250"

// Normalize lleva un número a formato internacional:
// - quita espacios, guiones y paréntesis
// - 0xxxxxxxxx => <prefix>xxxxxxxxx (reemplaza el 0 inicial)
// - sin "+" inicial => se antepone el prefijo tal cual (concatenación)
// - con "+" inicial => se deja igual
//
// Ojo: el tercer caso concatena sin mirar si el número ya trae otro código de
// país sin "+". Es el comportamiento histórico del sistema y los registros de
// envío dependen de él; no "corregir" sin definir reglas de numeración.
func Normalize(raw, prefix string) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultCountryPrefix
	}

	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "").Replace(raw)

	if strings.HasPrefix(cleaned, "0") {
		return prefix + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, "+") {
		return prefix + cleaned
	}
	return cleaned
}
