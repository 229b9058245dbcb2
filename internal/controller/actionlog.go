package controller

import (
	"github.com/rs/zerolog"

	"github.com/canlog/canlog-client/internal/logging"
)

// actionLog stamps every log line of one action with its id.
type actionLog struct {
	logger *logging.Logger
	id     string
	action string
}

func (a *actionLog) tag(e *zerolog.Event) *zerolog.Event {
	return e.Str("action", a.action).Str("action_id", a.id)
}

func (a *actionLog) Debug() *zerolog.Event { return a.tag(a.logger.Debug()) }
func (a *actionLog) Info() *zerolog.Event  { return a.tag(a.logger.Info()) }
func (a *actionLog) Warn() *zerolog.Event  { return a.tag(a.logger.Warn()) }
func (a *actionLog) Error() *zerolog.Event { return a.tag(a.logger.Error()) }
