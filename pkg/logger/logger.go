package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	ComponentField = "component"
	RequestIDField = "request_id"
	SurfaceField   = "surface"
	OperationField = "operation"
	FilterField    = "filter"
	AttemptField   = "attempt"
	ActorIDField   = "actor"
)

func NewGlobal(level string, pretty bool) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(l)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}
