package kube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/kubernetes/fake"

	"go-kubeagent/pkg/models"
)

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(fake.NewSimpleClientset())

	op, err := r.Resolve("core", "listNodes")
	require.NoError(t, err)
	assert.NotNil(t, op)

	_, err = r.Resolve("core", "createNamespacedPod")
	var unknown *UnknownCapabilityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "core", unknown.Surface)
	assert.Equal(t, "createNamespacedPod", unknown.Operation)
}

func TestRegistry_OnlyReadOperationsRegistered(t *testing.T) {
	r := NewRegistry(fake.NewSimpleClientset())

	for _, name := range r.Capabilities() {
		assert.Regexp(t, `^\w+\.(list|read)`, name)
	}
}

func TestListOptions(t *testing.T) {
	opts, err := listOptions(models.Params{
		"labelSelector": "app=web",
		"fieldSelector": "status.phase=Running",
		"limit":         float64(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "app=web", opts.LabelSelector)
	assert.Equal(t, "status.phase=Running", opts.FieldSelector)
	assert.EqualValues(t, 5, opts.Limit)
}

func TestListOptions_SnakeCaseAliases(t *testing.T) {
	opts, err := listOptions(models.Params{"label_selector": "app=db"})
	require.NoError(t, err)
	assert.Equal(t, "app=db", opts.LabelSelector)
}

func TestListOptions_BadLimit(t *testing.T) {
	_, err := listOptions(models.Params{"limit": "a few"})
	require.Error(t, err)
}

func TestParamHelpers(t *testing.T) {
	p := models.Params{"tail_lines": float64(100), "previous": true, "container": "app"}

	n, err := int64Param(p, "tail_lines", "tailLines")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.EqualValues(t, 100, *n)

	n, err = int64Param(p, "sinceSeconds")
	require.NoError(t, err)
	assert.Nil(t, n)

	assert.True(t, boolParam(p, "previous"))
	assert.False(t, boolParam(p, "timestamps"))
	assert.Equal(t, "app", stringParam(p, "container"))

	_, err = requireString(p, "namespace")
	require.Error(t, err)
}

func TestInt64Param_StringValues(t *testing.T) {
	n, err := int64Param(models.Params{"tail_lines": "100"}, "tail_lines")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.EqualValues(t, 100, *n)

	_, err = int64Param(models.Params{"tail_lines": "lots"}, "tail_lines")
	require.Error(t, err)

	_, err = int64Param(models.Params{"tail_lines": true}, "tail_lines")
	require.Error(t, err)
}
