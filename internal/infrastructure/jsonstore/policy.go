package jsonstore

import (
	"fmt"
	"strings"
)

// CorruptionPolicy decide qué hace un store cuando el archivo existe pero no se puede leer.
type CorruptionPolicy int

const (
	// PolicyFallbackEmpty trata el archivo corrupto como colección vacía y solo lo registra en el log.
	PolicyFallbackEmpty CorruptionPolicy = iota
	// PolicyFail devuelve domain.ErrCorruptData al llamador.
	PolicyFail
)

// ParsePolicy convierte el valor de configuración ("fallback" | "fail").
func ParsePolicy(s string) (CorruptionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fallback":
		return PolicyFallbackEmpty, nil
	case "fail":
		return PolicyFail, nil
	default:
		return PolicyFallbackEmpty, fmt.Errorf("política de corrupción desconocida: %q", s)
	}
}

func (p CorruptionPolicy) String() string {
	if p == PolicyFail {
		return "fail"
	}
	return "fallback"
}
