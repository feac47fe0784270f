package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Decision is the closed union of terminal outcomes for one query. Exactly
// one of the three variants ends the orchestration loop.
type Decision interface {
	isDecision()
}

// FinalAnswer is the direct answer to the user's question.
type FinalAnswer struct {
	Answer string `json:"answer"`
}

// FetchLogsPlan defers the answer to a batch of pod log fetches.
type FetchLogsPlan struct {
	Requests []LogRequest `json:"list"`
}

// ErrorDecision means the oracle gave up on the query.
type ErrorDecision struct {
	Message string `json:"message"`
}

func (FinalAnswer) isDecision()   {}
func (FetchLogsPlan) isDecision() {}
func (ErrorDecision) isDecision() {}

// LogRequest names one pod whose logs should be fetched, with optional
// parameters such as container or tailLines.
type LogRequest struct {
	PodName        string `json:"pod_name"`
	Namespace      string `json:"namespace"`
	OptionalParams Params `json:"optional_params,omitempty"`
}

// ErrNotADecision reports a reply that does not decode to exactly one
// decision variant.
var ErrNotADecision = errors.New("not a terminal decision")

// ParseDecision decodes a terminal oracle reply. The reply may be the bare
// union object or wrapped in {"data": {...}}; exactly one variant field
// (answer, list, message) must be present.
func ParseDecision(raw []byte) (Decision, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotADecision, err)
	}
	if len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	var probe struct {
		Answer  *string       `json:"answer"`
		List    *[]LogRequest `json:"list"`
		Message *string       `json:"message"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotADecision, err)
	}

	variants := 0
	if probe.Answer != nil {
		variants++
	}
	if probe.List != nil {
		variants++
	}
	if probe.Message != nil {
		variants++
	}
	if variants != 1 {
		return nil, fmt.Errorf("%w: expected exactly one of answer, list or message, got %d", ErrNotADecision, variants)
	}

	switch {
	case probe.Answer != nil:
		return FinalAnswer{Answer: *probe.Answer}, nil
	case probe.List != nil:
		return FetchLogsPlan{Requests: *probe.List}, nil
	default:
		return ErrorDecision{Message: *probe.Message}, nil
	}
}
