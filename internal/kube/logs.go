package kube

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	corev1 "k8s.io/api/core/v1"

	"go-kubeagent/internal/metrics"
	"go-kubeagent/pkg/logger"
	"go-kubeagent/pkg/models"
)

// FetchLog reads the logs of one pod. optional accepts container, tail_lines,
// since_seconds, limit_bytes, previous and timestamps (camelCase also works).
func (inv *Invoker) FetchLog(ctx context.Context, podName, namespace string, optional models.Params) (string, error) {
	opts := &corev1.PodLogOptions{
		Container:  stringParam(optional, "container"),
		Previous:   boolParam(optional, "previous"),
		Timestamps: boolParam(optional, "timestamps"),
	}
	var err error
	if opts.TailLines, err = int64Param(optional, "tail_lines", "tailLines"); err != nil {
		return "", fmt.Errorf("fetch logs for %s/%s: %w", namespace, podName, err)
	}
	if opts.SinceSeconds, err = int64Param(optional, "since_seconds", "sinceSeconds"); err != nil {
		return "", fmt.Errorf("fetch logs for %s/%s: %w", namespace, podName, err)
	}
	if opts.LimitBytes, err = int64Param(optional, "limit_bytes", "limitBytes"); err != nil {
		return "", fmt.Errorf("fetch logs for %s/%s: %w", namespace, podName, err)
	}

	callCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	l := log.With().
		Str(logger.ComponentField, "invoker").
		Str("pod", podName).
		Str("namespace", namespace).
		Logger()
	l.Info().Interface("options", optional).Msg("fetching pod logs")

	data, err := inv.clientset.CoreV1().Pods(namespace).GetLogs(podName, opts).DoRaw(callCtx)
	if err != nil {
		metrics.LogFetchesTotal.WithLabelValues("error").Inc()
		l.Error().Err(err).Msg("log fetch error")
		return "", fmt.Errorf("fetch logs for %s/%s: %w", namespace, podName, err)
	}

	metrics.LogFetchesTotal.WithLabelValues("ok").Inc()
	return string(data), nil
}
