package domain

import "time"

// Statement es una frase conocida por el motor y la frase a la que responde.
type Statement struct {
	ID           int64     `json:"id"`
	Text         string    `json:"text"`
	InResponseTo string    `json:"in_response_to,omitempty"`
	Conversation string    `json:"conversation,omitempty"`
	Confidence   float64   `json:"confidence"`
	CreatedAt    time.Time `json:"created_at"`
}
