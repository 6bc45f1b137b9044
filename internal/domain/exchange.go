package domain

import (
	"fmt"
	"time"
)

// Exchange es un turno completo de conversación: mensaje del usuario y respuesta del bot.
type Exchange struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e Exchange) String() string {
	return fmt.Sprintf("User: %s... | Bot: %s...", truncate(e.UserMessage, 50), truncate(e.BotResponse, 50))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
