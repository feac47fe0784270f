package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"k8s.io/client-go/kubernetes"

	"go-kubeagent/internal/jsonquery"
	"go-kubeagent/internal/metrics"
	"go-kubeagent/pkg/logger"
	"go-kubeagent/pkg/models"
)

// InvocationError reports a cluster call that was resolved but failed.
type InvocationError struct {
	Surface   string
	Operation string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s.%s: %v", e.Surface, e.Operation, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Invoker executes dynamically named read operations against the cluster and
// reduces their JSON results through a jq filter.
type Invoker struct {
	clientset kubernetes.Interface
	registry  *Registry
	timeout   time.Duration
}

func NewInvoker(cs kubernetes.Interface, timeout time.Duration) *Invoker {
	return &Invoker{
		clientset: cs,
		registry:  NewRegistry(cs),
		timeout:   timeout,
	}
}

// Capabilities lists the registered operations as "surface.operation".
func (inv *Invoker) Capabilities() []string {
	return inv.registry.Capabilities()
}

// Invoke resolves (surface, operation) in the registry, runs it with the
// params bag and returns the filter-reduced result serialized to JSON. An
// empty filter means no reduction. A single filter output is serialized as
// that value, zero or many outputs as an array.
func (inv *Invoker) Invoke(ctx context.Context, surface, operation string, params models.Params, filter string) (string, error) {
	l := log.With().
		Str(logger.ComponentField, "invoker").
		Str(logger.SurfaceField, surface).
		Str(logger.OperationField, operation).
		Logger()
	l.Info().Interface("params", params).Str(logger.FilterField, filter).Msg("cluster API call")

	op, err := inv.registry.Resolve(surface, operation)
	if err != nil {
		metrics.InvocationsTotal.WithLabelValues(surface, operation, "unknown_capability").Inc()
		l.Warn().Err(err).Msg("unknown capability")
		return "", err
	}

	callCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	obj, err := op(callCtx, params)
	if err != nil {
		metrics.InvocationsTotal.WithLabelValues(surface, operation, "error").Inc()
		l.Error().Err(err).Msg("cluster API error")
		return "", &InvocationError{Surface: surface, Operation: operation, Err: err}
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		metrics.InvocationsTotal.WithLabelValues(surface, operation, "error").Inc()
		return "", &InvocationError{Surface: surface, Operation: operation, Err: fmt.Errorf("marshal result: %w", err)}
	}
	l.Debug().RawJSON("result", raw).Msg("cluster API result")

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		metrics.InvocationsTotal.WithLabelValues(surface, operation, "error").Inc()
		return "", &InvocationError{Surface: surface, Operation: operation, Err: fmt.Errorf("decode result: %w", err)}
	}

	if filter == "" {
		filter = "."
	}
	reduced, err := jsonquery.Reduce(value, filter)
	if err != nil {
		metrics.InvocationsTotal.WithLabelValues(surface, operation, "filter_error").Inc()
		l.Error().Err(err).Str(logger.FilterField, filter).Msg("filter error")
		return "", err
	}

	var out []byte
	switch len(reduced) {
	case 0:
		out = []byte("[]")
	case 1:
		out, err = json.Marshal(reduced[0])
	default:
		out, err = json.Marshal(reduced)
	}
	if err != nil {
		return "", &InvocationError{Surface: surface, Operation: operation, Err: fmt.Errorf("marshal filtered result: %w", err)}
	}

	metrics.InvocationsTotal.WithLabelValues(surface, operation, "ok").Inc()
	l.Info().RawJSON("filtered", out).Msg("cluster API filtered result")
	return string(out), nil
}
