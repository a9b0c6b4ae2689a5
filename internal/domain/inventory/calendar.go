package inventory

import (
	"strings"
	"time"
)

// ISODate formato con el que este módulo escribe fechas calendario.
const ISODate = "2006-01-02"

// calendarLayouts formatos aceptados al leer fechas, en orden de prioridad:
// ISO Y-M-D y las variantes D-M-Y / D/M/Y con año de dos y cuatro dígitos.
var calendarLayouts = []string{
	"2006-1-2",
	"2-1-06",
	"2/1/06",
	"2-1-2006",
	"2/1/2006",
}

// ParseCalendarDate interpreta s con el primer formato que funcione.
// ok=false si s está vacío o no coincide con ninguno; el llamador debe omitir el valor.
func ParseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeCalendarDate reescribe una fecha aceptada en formato ISO.
func NormalizeCalendarDate(s string) (string, bool) {
	t, ok := ParseCalendarDate(s)
	if !ok {
		return "", false
	}
	return t.Format(ISODate), true
}

// DaysUntil días calendario entre today y date (negativo si date ya pasó).
// Solo cuenta año/mes/día; la hora de today se descarta.
func DaysUntil(today, date time.Time) int {
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// ExpiryWithin devuelve los días restantes si expiry cae dentro de la ventana (hoy + window días).
// Fechas vacías o ilegibles quedan fuera.
func ExpiryWithin(today time.Time, expiry string, window int) (int, bool) {
	t, ok := ParseCalendarDate(expiry)
	if !ok {
		return 0, false
	}
	days := DaysUntil(today, t)
	if days > window {
		return 0, false
	}
	return days, true
}
