package actor

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"

	"go-kubeagent/internal/agent"
	"go-kubeagent/pkg/logger"
	"go-kubeagent/pkg/messages"
)

// Resolver hosts one orchestration loop per question. The actor is spawned
// for a single NewQuestion, responds with the rendered answer (or an error)
// and stops itself.
type Resolver struct {
	loop    *agent.Loop
	timeout time.Duration
}

// New returns a producer for resolver actors sharing one loop. The loop is
// stateless across Resolve calls, so independent questions only share the
// underlying cluster and oracle clients. timeout bounds each resolution: once
// the caller's RequestFuture has given up, nobody is listening, so the loop
// must not keep burning oracle and cluster calls.
func New(loop *agent.Loop, timeout time.Duration) func() actor.Actor {
	return func() actor.Actor {
		return &Resolver{loop: loop, timeout: timeout}
	}
}

func (r *Resolver) Receive(ac actor.Context) {
	l := log.With().Str(logger.ActorIDField, ac.Self().GetId()).Str(logger.ComponentField, "resolver").Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.NewQuestion:
		l.Info().Str(logger.RequestIDField, msg.RequestID.String()).Msg("resolving question...")

		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		answer, err := r.loop.Resolve(ctx, msg.Question)
		if err != nil {
			l.Error().Err(err).Str(logger.RequestIDField, msg.RequestID.String()).Msg("query resolution failed")
			ac.Respond(err)
		} else {
			ac.Respond(messages.Answer{RequestID: msg.RequestID, Text: answer})
		}
		ac.Stop(ac.Self())
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
