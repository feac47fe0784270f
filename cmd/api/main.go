package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	zLog "github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms/openai"

	"go-kubeagent/internal/agent"
	"go-kubeagent/internal/api"
	"go-kubeagent/internal/config"
	"go-kubeagent/internal/kube"
	"go-kubeagent/internal/oracle"
	"go-kubeagent/pkg/logger"
	"go-kubeagent/pkg/prompts"
	"go-kubeagent/pkg/template"
)

// expects OPENAI_API_KEY in the environment for the oracle client
func main() {
	log.Println("starting server")

	cfg, err := config.Load("")
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}
	if err := logger.NewGlobal(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	clientset, err := kube.NewClientset(cfg.Kube.Kubeconfig)
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to build kubernetes client")
	}
	invoker := kube.NewInvoker(clientset, cfg.Kube.Timeout)

	llm, err := openai.New()
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to build oracle client")
	}
	orc := oracle.NewAdapter(llm, cfg.Oracle.Model, cfg.Oracle.Temperature, cfg.Oracle.Timeout)

	systemPrompt, err := template.Parse(prompts.System, struct{ Capabilities string }{
		Capabilities: strings.Join(invoker.Capabilities(), ", "),
	})
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to render system prompt")
	}

	loop := agent.New(orc, invoker, cfg.Agent.MaxAttempts, systemPrompt)

	system := actor.NewActorSystem().Root
	app := api.New(system, loop, cfg.Server.Port, cfg.Server.QueryTimeout)

	go func() {
		err := app.Start()
		if err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("server exiting")
}
