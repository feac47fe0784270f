package kube

import (
	"fmt"
	"strconv"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"go-kubeagent/pkg/models"
)

func stringParam(p models.Params, keys ...string) string {
	for _, key := range keys {
		if v, ok := p[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// int64Param reads a numeric option. Chat models send numbers as JSON
// numbers or as strings, so both are accepted; anything else is an error the
// oracle can recover from.
func int64Param(p models.Params, keys ...string) (*int64, error) {
	for _, key := range keys {
		v, ok := p[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			i := int64(n)
			return &i, nil
		case int:
			i := int64(n)
			return &i, nil
		case int64:
			return &n, nil
		case string:
			i, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("param %q: not an integer: %q", key, n)
			}
			return &i, nil
		default:
			return nil, fmt.Errorf("param %q: expected an integer, got %T", key, v)
		}
	}
	return nil, nil
}

func boolParam(p models.Params, keys ...string) bool {
	for _, key := range keys {
		if v, ok := p[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

func requireString(p models.Params, key string) (string, error) {
	if s := stringParam(p, key); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("missing required param %q", key)
}

// listOptions maps the generic selector params of the bag onto client-go
// list options.
func listOptions(p models.Params) (metav1.ListOptions, error) {
	opts := metav1.ListOptions{
		LabelSelector: stringParam(p, "labelSelector", "label_selector"),
		FieldSelector: stringParam(p, "fieldSelector", "field_selector"),
	}
	limit, err := int64Param(p, "limit")
	if err != nil {
		return metav1.ListOptions{}, err
	}
	if limit != nil {
		opts.Limit = *limit
	}
	return opts, nil
}
