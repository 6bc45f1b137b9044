package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	AdapterBestMatch = "best_match"
	AdapterMath      = "mathematical_evaluation"
	AdapterTime      = "time"
	AdapterLLM       = "llm"

	DefaultResponse = "I am sorry, but I do not understand."
)

var (
	ErrUnknownAdapter   = errors.New("unknown logic adapter")
	ErrDuplicateAdapter = errors.New("duplicate logic adapter")
	ErrNoAdapters       = errors.New("no logic adapters configured")
)

// AdapterSpec nombra una estrategia de respuesta y sus opciones.
type AdapterSpec struct {
	Name    string
	Options map[string]string
}

// Capabilities describe cómo se construye el motor: estrategias en orden de prioridad,
// respuesta por defecto y si aprende de la conversación.
type Capabilities struct {
	Name            string
	Adapters        []AdapterSpec
	DefaultResponse string
	ReadOnly        bool
}

// ParseCapabilities arma el descriptor a partir de nombres de adaptadores.
func ParseCapabilities(name string, adapters []string) (Capabilities, error) {
	caps := Capabilities{
		Name:            strings.TrimSpace(name),
		DefaultResponse: DefaultResponse,
	}
	seen := make(map[string]bool, len(adapters))
	for _, a := range adapters {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		switch a {
		case AdapterBestMatch, AdapterMath, AdapterTime, AdapterLLM:
		default:
			return Capabilities{}, fmt.Errorf("%w: %q", ErrUnknownAdapter, a)
		}
		if seen[a] {
			return Capabilities{}, fmt.Errorf("%w: %q", ErrDuplicateAdapter, a)
		}
		seen[a] = true
		caps.Adapters = append(caps.Adapters, AdapterSpec{Name: a, Options: map[string]string{}})
	}
	if len(caps.Adapters) == 0 {
		return Capabilities{}, ErrNoAdapters
	}
	return caps, nil
}

// Has indica si el adaptador está habilitado.
func (c Capabilities) Has(adapter string) bool {
	for _, a := range c.Adapters {
		if a.Name == adapter {
			return true
		}
	}
	return false
}

// SetOption fija una opción de un adaptador habilitado; ignora adaptadores ausentes.
func (c *Capabilities) SetOption(adapter, key, value string) {
	for i := range c.Adapters {
		if c.Adapters[i].Name != adapter {
			continue
		}
		if c.Adapters[i].Options == nil {
			c.Adapters[i].Options = map[string]string{}
		}
		c.Adapters[i].Options[key] = value
	}
}

func (s AdapterSpec) option(key, def string) string {
	if v, ok := s.Options[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (s AdapterSpec) floatOption(key string, def float64) (float64, error) {
	raw := s.option(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, fmt.Errorf("adapter %s: option %s must be a number in [0, 1], got %q", s.Name, key, raw)
	}
	return v, nil
}
