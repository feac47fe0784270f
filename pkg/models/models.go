package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ToolInvocationRequest is one cluster API call proposed by the oracle:
// a named read operation on a named surface, a parameter bag and a jq
// filter that keeps the result small enough to re-enter the conversation.
type ToolInvocationRequest struct {
	Surface   string `json:"surface"`
	Operation string `json:"operation"`
	Params    Params `json:"params"`
	Filter    string `json:"filter"`
}

// Params is the parameter bag of a tool invocation. The oracle may send it
// either as a JSON object or as a JSON object encoded into a string, both
// decode to the same mapping.
type Params map[string]any

func (p *Params) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		*p = m
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("params must be a JSON object or a JSON object encoded as a string")
	}
	if strings.TrimSpace(s) == "" {
		*p = Params{}
		return nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return fmt.Errorf("invalid JSON string for params - %s", s)
	}
	*p = m
	return nil
}

// ErrorResult renders an error as the {"error": ...} tool-result descriptor
// that is fed back into the conversation instead of aborting the loop.
func ErrorResult(err error) string {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(out)
}
