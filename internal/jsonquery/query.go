package jsonquery

import (
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// SyntaxError reports a filter expression that does not parse as jq.
type SyntaxError struct {
	Expression string
	Err        error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Expression, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// EvalError reports a filter that parsed but failed against the given value,
// e.g. iterating a scalar without the optional operator.
type EvalError struct {
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("filter %q failed: %v", e.Expression, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Reduce applies a jq expression to a decoded JSON value and returns every
// produced output. The identity expression "." yields the input unchanged as
// a single-element sequence. Optional access ('.foo?', '.[]?') yields no
// output for incompatible shapes instead of failing.
//
// value must use the types produced by encoding/json into any: nil, bool,
// float64, string, []any and map[string]any.
func Reduce(value any, expression string) ([]any, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, &SyntaxError{Expression: expression, Err: err}
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, &SyntaxError{Expression: expression, Err: err}
	}

	var out []any
	iter := code.Run(value)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if iterErr, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(iterErr, &halt) && halt.Value() == nil {
				break
			}
			return nil, &EvalError{Expression: expression, Err: iterErr}
		}
		out = append(out, v)
	}
	return out, nil
}
