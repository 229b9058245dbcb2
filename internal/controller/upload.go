package controller

import (
	"context"
	"errors"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/constants"
	"github.com/canlog/canlog-client/internal/localfs"
)

// UploadFiles sends every selected file in one multipart request, folder
// contents first. The server's reply is alerted as-is whatever its status,
// and the tables are refreshed; only a transport failure skips the refresh.
func (c *Controller) UploadFiles(ctx context.Context, sel Selection) Result {
	if sel.Empty() {
		return c.alert(StatusRejected, constants.MsgNoSelection, ErrNoSelection)
	}

	id, log := c.begin("upload")

	paths, err := localfs.CollectUploads(sel.Folders, sel.Files, c.includeHidden)
	if err != nil {
		log.Error().Err(err).Msg("cannot expand selection")
		return c.finish(id, "upload", c.alert(StatusFailed, constants.PrefixUpload+err.Error(), err))
	}
	if len(paths) == 0 {
		log.Info().Strs("folders", sel.Folders).Msg("selected folders contain no files")
		return c.finish(id, "upload", c.alert(StatusRejected, constants.MsgNoSelection, ErrNoSelection))
	}

	log.Info().Int("files", len(paths)).Int64("bytes", localfs.TotalSize(paths)).Msg("starting upload")

	var wrap api.ReaderWrapper
	var observer UploadObserver
	if c.uploadObserver != nil {
		observer = c.uploadObserver(len(paths))
		wrap = observer.Wrap
	}

	text, err := c.backend.Upload(ctx, paths, wrap)
	if observer != nil {
		observer.Finish(err)
	}

	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			log.Warn().Int("status", se.StatusCode).Msg("upload rejected by backend")
			r := c.alert(StatusFailed, se.Body, err)
			c.LoadFileLists(ctx)
			return c.finish(id, "upload", r)
		}
		log.Error().Err(err).Msg("upload failed")
		return c.finish(id, "upload", c.alert(StatusFailed, constants.PrefixUpload+err.Error(), err))
	}

	log.Info().Str("reply", text).Msg("upload complete")
	r := c.alert(StatusOK, text, nil)
	c.LoadFileLists(ctx)
	return c.finish(id, "upload", r)
}
