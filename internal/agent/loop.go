package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"go-kubeagent/internal/metrics"
	"go-kubeagent/internal/oracle"
	"go-kubeagent/pkg/logger"
	"go-kubeagent/pkg/models"
)

// Invoker executes dynamically named cluster API calls and pod log fetches.
type Invoker interface {
	Invoke(ctx context.Context, surface, operation string, params models.Params, filter string) (string, error)
	FetchLog(ctx context.Context, podName, namespace string, optional models.Params) (string, error)
}

const malformedReplyNotice = `Your previous reply did not match the expected schema. Reply with either ` +
	`call_kubernetes_api tool calls or exactly one JSON object of the form {"answer": ...}, {"list": [...]} or {"message": ...}.`

// Loop owns one conversation per Resolve call and alternates between asking
// the oracle for a decision and executing the tool calls it proposes, until
// a terminal decision or the attempt budget runs out.
type Loop struct {
	oracle       oracle.Oracle
	invoker      Invoker
	maxAttempts  int
	systemPrompt string
}

func New(o oracle.Oracle, invoker Invoker, maxAttempts int, systemPrompt string) *Loop {
	return &Loop{
		oracle:       o,
		invoker:      invoker,
		maxAttempts:  maxAttempts,
		systemPrompt: systemPrompt,
	}
}

// Resolve answers one question. The returned string is the terminal decision
// rendered to text, including oracle give-ups and budget exhaustion; an error
// is returned only for unexpected failures such as the oracle being
// unreachable.
func (l *Loop) Resolve(ctx context.Context, question string) (string, error) {
	conversation := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, l.systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, question),
	}

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		lg := log.With().Str(logger.ComponentField, "loop").Int(logger.AttemptField, attempt).Logger()

		if err := ctx.Err(); err != nil {
			metrics.QueriesTotal.WithLabelValues("cancelled").Inc()
			return "", err
		}

		turn, err := l.oracle.Decide(ctx, conversation)
		if err != nil {
			if errors.Is(err, oracle.ErrMalformedReply) {
				lg.Warn().Err(err).Msg("malformed oracle reply, continuing")
				conversation = append(conversation, llms.TextParts(llms.ChatMessageTypeHuman, malformedReplyNotice))
				continue
			}
			metrics.QueriesTotal.WithLabelValues("hard_failure").Inc()
			return "", err
		}

		if len(turn.Calls) == 0 {
			return l.finish(ctx, turn.Decision)
		}

		conversation = append(conversation, turn.Message)
		for _, call := range turn.Calls {
			result, invErr := l.invoker.Invoke(ctx, call.Request.Surface, call.Request.Operation, call.Request.Params, call.Request.Filter)
			if invErr != nil {
				// recoverable: the oracle sees the error and may retry
				result = models.ErrorResult(invErr)
			}
			conversation = append(conversation, toolResultMessage(call.ID, result))
		}
	}

	log.Warn().Str(logger.ComponentField, "loop").Int("max_attempts", l.maxAttempts).Msg("attempt budget exhausted")
	metrics.QueriesTotal.WithLabelValues("exhausted").Inc()
	return fmt.Sprintf("Query could not be resolved within %d attempts.", l.maxAttempts), nil
}

func (l *Loop) finish(ctx context.Context, decision models.Decision) (string, error) {
	switch d := decision.(type) {
	case models.FinalAnswer:
		metrics.QueriesTotal.WithLabelValues("answer").Inc()
		return d.Answer, nil
	case models.ErrorDecision:
		metrics.QueriesTotal.WithLabelValues("error_decision").Inc()
		return d.Message, nil
	case models.FetchLogsPlan:
		metrics.QueriesTotal.WithLabelValues("logs").Inc()
		return l.fetchLogs(ctx, d), nil
	default:
		metrics.QueriesTotal.WithLabelValues("hard_failure").Inc()
		return "", fmt.Errorf("empty decision from oracle")
	}
}

// fetchLogs resolves every log request of the plan in order. A failing entry
// becomes an inline error segment, so N requests always yield N segments.
func (l *Loop) fetchLogs(ctx context.Context, plan models.FetchLogsPlan) string {
	segments := make([]string, 0, len(plan.Requests))
	for _, req := range plan.Requests {
		text, err := l.invoker.FetchLog(ctx, req.PodName, req.Namespace, req.OptionalParams)
		if err != nil {
			text = fmt.Sprintf("error: %s", err)
		}
		segments = append(segments, text)
	}
	return strings.Join(segments, "\n")
}

func toolResultMessage(callID, result string) llms.MessageContent {
	return llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{
			llms.ToolCallResponse{
				ToolCallID: callID,
				Name:       oracle.ToolName,
				Content:    result,
			},
		},
	}
}
