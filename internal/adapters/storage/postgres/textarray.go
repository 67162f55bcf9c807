package postgres

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// textArray mapea columnas text[] a []string. El driver pgx en modo
// database/sql entrega el array como su literal textual ("{a,b}") y
// convertAssign no sabe rellenar un *[]string, así que el parseo y el
// serializado van a mano por este tipo, simétrico en INSERT y SELECT.
type textArray []string

func (a textArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, s := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		// siempre entre comillas: cubre comas, espacios y vacíos
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		b.WriteByte('"')
		b.WriteString(s)
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String(), nil
}

func (a *textArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		return a.parse(v)
	case []byte:
		return a.parse(string(v))
	default:
		return fmt.Errorf("postgres: no se puede escanear %T como text[]", src)
	}
}

func (a *textArray) parse(s string) error {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return fmt.Errorf("postgres: literal de array inválido: %q", s)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		*a = []string{}
		return nil
	}

	out := make([]string, 0, 4)
	var cur strings.Builder
	inQuotes := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuotes && r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())

	*a = out
	return nil
}
