package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_UnmarshalObjectAndStringAreEquivalent(t *testing.T) {
	asObject := []byte(`{"surface":"core","operation":"listNamespacedPod","params":{"namespace":"default","limit":5},"filter":"."}`)
	asString := []byte(`{"surface":"core","operation":"listNamespacedPod","params":"{\"namespace\":\"default\",\"limit\":5}","filter":"."}`)

	var a, b ToolInvocationRequest
	require.NoError(t, json.Unmarshal(asObject, &a))
	require.NoError(t, json.Unmarshal(asString, &b))

	assert.Equal(t, a.Params, b.Params)
	assert.Equal(t, "default", b.Params["namespace"])
}

func TestParams_EmptyString(t *testing.T) {
	var req ToolInvocationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"surface":"core","operation":"listNodes","params":"","filter":"."}`), &req))
	assert.Empty(t, req.Params)
}

func TestParams_InvalidJSONString(t *testing.T) {
	var req ToolInvocationRequest
	err := json.Unmarshal([]byte(`{"surface":"core","operation":"listNodes","params":"{not json","filter":"."}`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON string for params")
}

func TestParams_WrongType(t *testing.T) {
	var req ToolInvocationRequest
	err := json.Unmarshal([]byte(`{"surface":"core","operation":"listNodes","params":42,"filter":"."}`), &req)
	require.Error(t, err)
}

func TestParseDecision_FinalAnswer(t *testing.T) {
	d, err := ParseDecision([]byte(`{"data":{"answer":"2"}}`))
	require.NoError(t, err)
	assert.Equal(t, FinalAnswer{Answer: "2"}, d)
}

func TestParseDecision_BareUnion(t *testing.T) {
	d, err := ParseDecision([]byte(`{"message":"Not able to process the query - missing context"}`))
	require.NoError(t, err)
	assert.Equal(t, ErrorDecision{Message: "Not able to process the query - missing context"}, d)
}

func TestParseDecision_FetchLogs(t *testing.T) {
	d, err := ParseDecision([]byte(`{"data":{"list":[{"pod_name":"web-0","namespace":"default","optional_params":{"container":"app","tail_lines":50}}]}}`))
	require.NoError(t, err)

	plan, ok := d.(FetchLogsPlan)
	require.True(t, ok)
	require.Len(t, plan.Requests, 1)
	assert.Equal(t, "web-0", plan.Requests[0].PodName)
	assert.Equal(t, "default", plan.Requests[0].Namespace)
	assert.Equal(t, "app", plan.Requests[0].OptionalParams["container"])
}

func TestParseDecision_RejectsAmbiguousAndEmpty(t *testing.T) {
	for _, raw := range []string{
		`{"answer":"2","message":"also an error"}`,
		`{}`,
		`{"data":{}}`,
		`"just text"`,
		`not json at all`,
	} {
		_, err := ParseDecision([]byte(raw))
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrNotADecision), raw)
	}
}

func TestErrorResult(t *testing.T) {
	out := ErrorResult(errors.New(`boom "quoted"`))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, `boom "quoted"`, decoded["error"])
}
