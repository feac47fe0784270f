package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"go-kubeagent/pkg/models"
)

type fakeModel struct {
	resp *llms.ContentResponse
	err  error

	gotMessages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotMessages = messages
	return f.resp, f.err
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func newAdapter(m llms.Model) *Adapter {
	return NewAdapter(m, "gpt-4o", 0.1, time.Minute)
}

func conversation() []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "system"),
		llms.TextParts(llms.ChatMessageTypeHuman, "how many nodes are there"),
	}
}

func TestDecide_ToolCallTurn(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:   "call_1",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      ToolName,
				Arguments: `{"surface":"core","operation":"listNodes","params":"{}","filter":"[.items[] | pick(.metadata.name)]"}`,
			},
		}},
	}}}}

	turn, err := newAdapter(model).Decide(context.Background(), conversation())
	require.NoError(t, err)
	require.Len(t, turn.Calls, 1)
	assert.Nil(t, turn.Decision)

	call := turn.Calls[0]
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "core", call.Request.Surface)
	assert.Equal(t, "listNodes", call.Request.Operation)
	assert.Empty(t, call.Request.Params)
	assert.Equal(t, "[.items[] | pick(.metadata.name)]", call.Request.Filter)

	assert.Equal(t, llms.ChatMessageTypeAI, turn.Message.Role)
	require.Len(t, turn.Message.Parts, 1)
}

func TestDecide_MultipleToolCalls(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{
			{ID: "call_1", Type: "function", FunctionCall: &llms.FunctionCall{Name: ToolName, Arguments: `{"surface":"core","operation":"listNodes","params":"{}","filter":"."}`}},
			{ID: "call_2", Type: "function", FunctionCall: &llms.FunctionCall{Name: ToolName, Arguments: `{"surface":"apps","operation":"listDeploymentForAllNamespaces","params":{},"filter":"."}`}},
		},
	}}}}

	turn, err := newAdapter(model).Decide(context.Background(), conversation())
	require.NoError(t, err)
	require.Len(t, turn.Calls, 2)
	assert.Equal(t, "apps", turn.Calls[1].Request.Surface)
}

func TestDecide_FinalAnswer(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content: `{"data":{"answer":"2"}}`,
	}}}}

	turn, err := newAdapter(model).Decide(context.Background(), conversation())
	require.NoError(t, err)
	assert.Empty(t, turn.Calls)
	assert.Equal(t, models.FinalAnswer{Answer: "2"}, turn.Decision)
}

func TestDecide_FencedDecision(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content: "```json\n{\"answer\":\"Running\"}\n```",
	}}}}

	turn, err := newAdapter(model).Decide(context.Background(), conversation())
	require.NoError(t, err)
	assert.Equal(t, models.FinalAnswer{Answer: "Running"}, turn.Decision)
}

func TestDecide_FetchLogsDecision(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content: `{"list":[{"pod_name":"web-0","namespace":"default"}]}`,
	}}}}

	turn, err := newAdapter(model).Decide(context.Background(), conversation())
	require.NoError(t, err)

	plan, ok := turn.Decision.(models.FetchLogsPlan)
	require.True(t, ok)
	require.Len(t, plan.Requests, 1)
	assert.Equal(t, "web-0", plan.Requests[0].PodName)
}

func TestDecide_MalformedReply(t *testing.T) {
	for name, resp := range map[string]*llms.ContentResponse{
		"free text":        {Choices: []*llms.ContentChoice{{Content: "the cluster has two nodes"}}},
		"no choices":       {},
		"unknown tool":     {Choices: []*llms.ContentChoice{{ToolCalls: []llms.ToolCall{{ID: "x", Type: "function", FunctionCall: &llms.FunctionCall{Name: "delete_everything", Arguments: `{}`}}}}}},
		"bad tool args":    {Choices: []*llms.ContentChoice{{ToolCalls: []llms.ToolCall{{ID: "x", Type: "function", FunctionCall: &llms.FunctionCall{Name: ToolName, Arguments: `not json`}}}}}},
		"empty union":      {Choices: []*llms.ContentChoice{{Content: `{}`}}},
		"two union fields": {Choices: []*llms.ContentChoice{{Content: `{"answer":"a","message":"b"}`}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newAdapter(&fakeModel{resp: resp}).Decide(context.Background(), conversation())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedReply))
		})
	}
}

func TestDecide_TransportErrorIsNotMalformed(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}

	_, err := newAdapter(model).Decide(context.Background(), conversation())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedReply))
}

func TestDecide_PassesConversationThrough(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: `{"answer":"ok"}`}}}}
	conv := conversation()

	_, err := newAdapter(model).Decide(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, conv, model.gotMessages)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"answer":"2"}`, stripFences("```json\n{\"answer\":\"2\"}\n```"))
	assert.Equal(t, `{"answer":"2"}`, stripFences("```\n{\"answer\":\"2\"}\n```"))
	assert.Equal(t, `{"answer":"2"}`, stripFences(`{"answer":"2"}`))
}
