package controller

import (
	"context"
	"errors"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/constants"
)

// SaveToLocal downloads the archive of all stored files and hands it to the
// Saver as can_data_export.zip.
func (c *Controller) SaveToLocal(ctx context.Context) Result {
	id, log := c.begin("save_all")

	dl, err := c.backend.DownloadAll(ctx)
	if err != nil {
		return c.finish(id, "save_all", c.downloadFailed(log, err, constants.DetailExportError))
	}
	return c.finish(id, "save_all", c.save(ctx, log, dl, constants.ExportFilename))
}

// DownloadOne downloads a single stored file and hands it to the Saver
// under the filename shown in its row.
func (c *Controller) DownloadOne(ctx context.Context, fileID int64, filename string) Result {
	id, log := c.begin("download")
	log.Info().Int64("file_id", fileID).Str("filename", filename).Msg("downloading")

	dl, err := c.backend.DownloadFile(ctx, fileID, filename)
	if err != nil {
		return c.finish(id, "download", c.downloadFailed(log, err, constants.DetailFileError))
	}
	return c.finish(id, "download", c.save(ctx, log, dl, filename))
}

// downloadFailed alerts a fixed detail for non-2xx answers and the
// transport error otherwise. The Saver is never reached.
func (c *Controller) downloadFailed(log *actionLog, err error, statusDetail string) Result {
	var se *api.StatusError
	if errors.As(err, &se) {
		log.Warn().Int("status", se.StatusCode).Msg("download refused by backend")
		return c.alert(StatusFailed, constants.PrefixDownload+statusDetail, err)
	}
	log.Error().Err(err).Msg("download failed")
	return c.alert(StatusFailed, constants.PrefixDownload+err.Error(), err)
}

func (c *Controller) save(ctx context.Context, log *actionLog, dl *api.Download, name string) Result {
	defer dl.Body.Close()

	path, err := c.saver.Save(ctx, name, dl.Body, dl.Size)
	if errors.Is(err, ErrSaveCancelled) {
		log.Info().Str("name", name).Msg("save cancelled")
		return Result{Status: StatusCancelled, Err: err}
	}
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("save failed")
		return c.alert(StatusFailed, constants.PrefixDownload+err.Error(), err)
	}

	log.Info().Str("path", path).Msg("saved")
	return Result{Status: StatusOK, Message: "Saved " + path, Path: path}
}
