// Package controller implements the client's user actions against the
// backend. Front ends translate clicks and keystrokes into calls here and
// render whatever the state package publishes afterwards.
package controller

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/logging"
	"github.com/canlog/canlog-client/internal/models"
	"github.com/canlog/canlog-client/internal/state"
)

// Backend is the subset of *api.Client the controller drives.
type Backend interface {
	Upload(ctx context.Context, paths []string, wrap api.ReaderWrapper) (string, error)
	DownloadAll(ctx context.Context) (*api.Download, error)
	DownloadFile(ctx context.Context, id int64, filename string) (*api.Download, error)
	DeleteAll(ctx context.Context) (string, error)
	DeleteFile(ctx context.Context, id int64) (string, error)
	ListFiles(ctx context.Context) ([]models.StoredFile, error)
	Health(ctx context.Context) (string, error)
}

// Presenter shows messages and asks yes/no questions. Both calls block
// until the user has answered or dismissed the message.
type Presenter interface {
	Alert(msg string)
	Confirm(prompt string) bool
}

// Saver writes a downloaded body somewhere local under the suggested name
// and returns where it went. It returns ErrSaveCancelled if the user backs out.
type Saver interface {
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)
}

// UploadObserver follows one multipart upload, typically drawing progress.
type UploadObserver interface {
	Wrap(name string, size int64, r io.Reader) io.Reader
	Finish(err error)
}

// Controller runs user actions. Operations may be called from any goroutine;
// nothing serializes them.
type Controller struct {
	backend   Backend
	presenter Presenter
	saver     Saver

	tabs   *state.TabState
	tables *state.FileTables

	eventBus       *events.EventBus
	logger         *logging.Logger
	includeHidden  bool
	uploadObserver func(files int) UploadObserver
	newID          func() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithEventBus publishes tab, table and action events on bus.
func WithEventBus(bus *events.EventBus) Option {
	return func(c *Controller) { c.eventBus = bus }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithIncludeHidden includes dot-files when expanding folder selections.
func WithIncludeHidden(include bool) Option {
	return func(c *Controller) { c.includeHidden = include }
}

// WithUploadObserver installs a factory called once per upload with the
// number of files about to be sent.
func WithUploadObserver(factory func(files int) UploadObserver) Option {
	return func(c *Controller) { c.uploadObserver = factory }
}

// New creates a Controller with the upload tab active and empty tables.
func New(backend Backend, presenter Presenter, saver Saver, opts ...Option) *Controller {
	c := &Controller{
		backend:   backend,
		presenter: presenter,
		saver:     saver,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewDefaultCLILogger()
	}
	c.tabs = state.NewTabState(c.eventBus)
	c.tables = state.NewFileTables(c.eventBus)
	return c
}

// Tabs exposes the active-tab state for rendering.
func (c *Controller) Tabs() *state.TabState {
	return c.tabs
}

// Tables exposes the rendered file tables.
func (c *Controller) Tables() *state.FileTables {
	return c.tables
}

// SwitchTab activates name and, for the save and delete tabs, reloads the
// file tables before returning. An unknown name changes nothing.
func (c *Controller) SwitchTab(ctx context.Context, name string) Result {
	refresh, err := c.tabs.Switch(name)
	if err != nil {
		c.logger.Warn().Str("tab", name).Msg("ignoring switch to unknown tab")
		return Result{Status: StatusFailed, Message: err.Error(), Err: err}
	}
	c.logger.Debug().Str("tab", name).Bool("refresh", refresh).Msg("tab switched")

	if refresh {
		c.LoadFileLists(ctx)
	}
	return Result{Status: StatusOK}
}

// LoadFileLists fetches /files and replaces both tables. Failures are only
// logged; the previous rows stay on screen and nothing is alerted.
func (c *Controller) LoadFileLists(ctx context.Context) Result {
	id, log := c.begin("list")

	files, err := c.backend.ListFiles(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load file list")
		return c.finish(id, "list", Result{Status: StatusFailed, Message: err.Error(), Err: err})
	}

	c.tables.Replace(files)
	log.Debug().Int("files", len(files)).Msg("file tables replaced")
	return c.finish(id, "list", Result{Status: StatusOK})
}

// CheckHealth asks the backend whether it is up. It never alerts.
func (c *Controller) CheckHealth(ctx context.Context) Result {
	id, log := c.begin("health")

	text, err := c.backend.Health(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("backend health check failed")
		return c.finish(id, "health", Result{Status: StatusFailed, Message: err.Error(), Err: err})
	}
	return c.finish(id, "health", Result{Status: StatusOK, Message: text})
}

// begin allocates an action id and returns a logger tagged with it.
func (c *Controller) begin(action string) (string, *actionLog) {
	id := c.newID()
	if c.eventBus != nil {
		c.eventBus.PublishActionStarted(id, action)
	}
	return id, &actionLog{c.logger, id, action}
}

func (c *Controller) finish(id, action string, r Result) Result {
	if c.eventBus != nil {
		c.eventBus.PublishActionFinished(id, action, r.Status.String(), r.Message)
	}
	return r
}

// alert shows msg and returns it as a Result with the given status.
func (c *Controller) alert(status Status, msg string, err error) Result {
	c.presenter.Alert(msg)
	return Result{Status: status, Message: msg, Err: err}
}
