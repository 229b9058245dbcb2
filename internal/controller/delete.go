package controller

import (
	"context"
	"errors"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/constants"
)

// DeleteFromDatabase asks for confirmation, then deletes every stored file.
func (c *Controller) DeleteFromDatabase(ctx context.Context) Result {
	if !c.presenter.Confirm(constants.MsgConfirmAll) {
		return Result{Status: StatusCancelled, Err: ErrDeclined}
	}

	id, log := c.begin("delete_all")
	text, err := c.backend.DeleteAll(ctx)
	return c.finish(id, "delete_all", c.deleted(ctx, log, text, err))
}

// DeleteOne asks for confirmation, then deletes one stored file.
func (c *Controller) DeleteOne(ctx context.Context, fileID int64) Result {
	if !c.presenter.Confirm(constants.MsgConfirmOne) {
		return Result{Status: StatusCancelled, Err: ErrDeclined}
	}

	id, log := c.begin("delete")
	log.Info().Int64("file_id", fileID).Msg("deleting")
	text, err := c.backend.DeleteFile(ctx, fileID)
	return c.finish(id, "delete", c.deleted(ctx, log, text, err))
}

// deleted alerts the backend's reply, whatever its status, and refreshes
// the tables. A transport failure is alerted with the delete prefix and
// leaves the tables alone.
func (c *Controller) deleted(ctx context.Context, log *actionLog, text string, err error) Result {
	var r Result
	var se *api.StatusError
	switch {
	case err == nil:
		log.Info().Str("reply", text).Msg("delete complete")
		r = c.alert(StatusOK, text, nil)
	case errors.As(err, &se):
		log.Warn().Int("status", se.StatusCode).Msg("delete refused by backend")
		r = c.alert(StatusFailed, se.Body, err)
	default:
		log.Error().Err(err).Msg("delete failed")
		return c.alert(StatusFailed, constants.PrefixDelete+err.Error(), err)
	}
	c.LoadFileLists(ctx)
	return r
}
