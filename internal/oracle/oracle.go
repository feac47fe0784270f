package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"go-kubeagent/internal/metrics"
	"go-kubeagent/pkg/logger"
	"go-kubeagent/pkg/models"
)

// ErrMalformedReply marks an oracle reply that is neither well-formed tool
// invocations nor a well-formed terminal decision. The orchestration loop
// counts it against the attempt budget and continues.
var ErrMalformedReply = errors.New("oracle reply does not match the expected schema")

// ToolCall is one proposed invocation, correlated by the provider's call id.
type ToolCall struct {
	ID      string
	Request models.ToolInvocationRequest
}

// Turn is the outcome of one decision call: either tool calls to execute or
// a terminal decision, never both.
type Turn struct {
	// Message is the oracle's reply to append to the conversation.
	Message  llms.MessageContent
	Calls    []ToolCall
	Decision models.Decision
}

// Oracle decides the next step for a conversation.
type Oracle interface {
	Decide(ctx context.Context, conversation []llms.MessageContent) (Turn, error)
}

// Adapter drives a langchaingo chat model with the call_kubernetes_api tool
// schema. It is stateless; all state lives in the conversation it is given.
type Adapter struct {
	model       llms.Model
	modelName   string
	temperature float64
	timeout     time.Duration
}

func NewAdapter(model llms.Model, modelName string, temperature float64, timeout time.Duration) *Adapter {
	return &Adapter{
		model:       model,
		modelName:   modelName,
		temperature: temperature,
		timeout:     timeout,
	}
}

func (a *Adapter) Decide(ctx context.Context, conversation []llms.MessageContent) (Turn, error) {
	l := log.With().Str(logger.ComponentField, "oracle").Logger()

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.model.GenerateContent(callCtx, conversation,
		llms.WithModel(a.modelName),
		llms.WithTemperature(a.temperature),
		llms.WithTools(toolDefs()),
	)
	metrics.OracleCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OracleCallsTotal.WithLabelValues("error").Inc()
		return Turn{}, fmt.Errorf("oracle call: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.OracleCallsTotal.WithLabelValues("malformed").Inc()
		return Turn{}, fmt.Errorf("%w: no choices in reply", ErrMalformedReply)
	}

	choice := resp.Choices[0]
	message := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if choice.Content != "" {
		message.Parts = append(message.Parts, llms.TextContent{Text: choice.Content})
	}

	if len(choice.ToolCalls) > 0 {
		calls := make([]ToolCall, 0, len(choice.ToolCalls))
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall == nil || tc.FunctionCall.Name != ToolName {
				metrics.OracleCallsTotal.WithLabelValues("malformed").Inc()
				return Turn{}, fmt.Errorf("%w: unexpected tool call %q", ErrMalformedReply, toolCallName(tc))
			}
			var req models.ToolInvocationRequest
			if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &req); err != nil {
				metrics.OracleCallsTotal.WithLabelValues("malformed").Inc()
				return Turn{}, fmt.Errorf("%w: invalid tool arguments: %v", ErrMalformedReply, err)
			}
			message.Parts = append(message.Parts, tc)
			calls = append(calls, ToolCall{ID: tc.ID, Request: req})
		}
		metrics.OracleCallsTotal.WithLabelValues("invoke").Inc()
		l.Info().Int("calls", len(calls)).Msg("oracle requested tool invocations")
		return Turn{Message: message, Calls: calls}, nil
	}

	decision, err := models.ParseDecision([]byte(stripFences(choice.Content)))
	if err != nil {
		metrics.OracleCallsTotal.WithLabelValues("malformed").Inc()
		return Turn{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	metrics.OracleCallsTotal.WithLabelValues("terminal").Inc()
	l.Info().Msg("oracle produced a terminal decision")
	return Turn{Message: message, Decision: decision}, nil
}

func toolCallName(tc llms.ToolCall) string {
	if tc.FunctionCall == nil {
		return ""
	}
	return tc.FunctionCall.Name
}

// stripFences removes a markdown code fence around a JSON reply, which chat
// models emit even when asked for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
