package messages

import (
	"github.com/google/uuid"
)

// NewQuestion starts one query resolution inside a resolver actor.
type NewQuestion struct {
	RequestID uuid.UUID
	Question  string
}

// Answer is the resolver's reply: the terminal decision rendered to text.
type Answer struct {
	RequestID uuid.UUID
	Text      string
}
