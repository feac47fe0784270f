package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"go-kubeagent/internal/agent"
	resolver "go-kubeagent/internal/agents/resolver/actor"
	"go-kubeagent/pkg/logger"
	"go-kubeagent/pkg/messages"
)

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	ac     *actor.RootContext
	server *http.Server
}

func New(ac *actor.RootContext, loop *agent.Loop, port int, queryTimeout time.Duration) *Server {
	r := chi.NewRouter()
	r.Use(logMiddleware())

	producer := resolver.New(loop, queryTimeout)

	r.Post("/query", func(w http.ResponseWriter, req *http.Request) {
		cmd := queryRequest{}
		err := unmarshalRequestBody(req, &cmd)
		if err != nil || cmd.Question == "" {
			w.WriteHeader(http.StatusBadRequest)
			log.Debug().Msg("cannot parse body")
			render.JSON(w, req, errorResponse{Error: "unable to parse body, expected {\"question\": ...}"})
			return
		}

		id := uuid.New()
		log.Info().Str(logger.RequestIDField, id.String()).Msg("received user question")

		props := actor.PropsFromProducer(producer)
		pid := ac.Spawn(props)

		future := ac.RequestFuture(pid, messages.NewQuestion{RequestID: id, Question: cmd.Question}, queryTimeout) // blocking
		res, err := future.Result()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			log.Error().Str(logger.RequestIDField, id.String()).Err(err).Msg("unable to get answer from resolver")
			render.JSON(w, req, errorResponse{Error: "query timed out"})
			return
		}
		if err, ok := res.(error); ok {
			w.WriteHeader(http.StatusInternalServerError)
			log.Error().Str(logger.RequestIDField, id.String()).Err(err).Msg("query resolution failed")
			render.JSON(w, req, errorResponse{Error: err.Error()})
			return
		}

		if answer, ok := res.(messages.Answer); ok {
			render.JSON(w, req, queryResponse{Question: cmd.Question, Answer: answer.Text})
		} else {
			w.WriteHeader(http.StatusInternalServerError)
			log.Error().Str(logger.RequestIDField, id.String()).Msg("unknown reply from resolver")
			render.JSON(w, req, errorResponse{Error: "unknown reply from resolver"})
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.PlainText(w, req, "ok")
	})

	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		ac: ac,
		server: &http.Server{
			Addr:    fmt.Sprint(":", port),
			Handler: r,
		},
	}
}

func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func logMiddleware() func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(log.Logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}

func unmarshalRequestBody(req *http.Request, output interface{}) error {
	if req.Body == nil {
		return errors.New("invalid body in request")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if err = req.Body.Close(); err != nil {
		return err
	}
	if err = json.Unmarshal(body, &output); err != nil {
		return err
	}

	return nil
}
