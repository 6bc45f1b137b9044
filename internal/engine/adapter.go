package engine

import (
	"context"

	"terminal-chat/internal/domain"
)

// LogicAdapter es una estrategia que propone una respuesta con su confianza.
// Confianza 0 significa que el adaptador no tiene opinión sobre la entrada.
type LogicAdapter interface {
	Name() string
	CanProcess(input domain.Statement) bool
	Process(ctx context.Context, input domain.Statement) (domain.Statement, error)
}
