// Package gui provides the desktop front end for canlog.
package gui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/config"
	"github.com/canlog/canlog-client/internal/constants"
	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/logging"
	"github.com/canlog/canlog-client/internal/progress"
	"github.com/canlog/canlog-client/internal/state"
)

// ErrNoDisplay is returned on Linux when neither X11 nor Wayland is available.
var ErrNoDisplay = errors.New("GUI mode requires a display. No display detected.\n" +
	"DISPLAY and WAYLAND_DISPLAY are not set.\n" +
	"Use 'canlog --cli' or 'canlog tui' instead")

// HasDisplay reports whether a window can be opened.
func HasDisplay() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// Run opens the main window and blocks until it is closed.
func Run(cfg *config.Config) error {
	if !HasDisplay() {
		return ErrNoDisplay
	}

	bus := events.NewEventBus(constants.EventBusDefaultBuffer)
	defer bus.Close()

	logger := logging.NewLogger(logging.ModeGUI, bus)
	defer logger.Close()

	// Warnings and errors only on the console unless CANLOG_DEBUG is set
	if os.Getenv("CANLOG_DEBUG") != "" {
		logging.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		logging.SetGlobalLevel(zerolog.WarnLevel)
	}
	if cfg.LogToFile {
		if err := logger.EnableFileOutput(config.LogDirectory()); err != nil {
			logger.Warn().Err(err).Msg("file logging disabled")
		}
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	client.SetLogger(logger)

	myApp := app.NewWithID("io.canlog.client")
	myApp.Settings().SetTheme(&canlogTheme{})

	mainWindow := myApp.NewWindow("CAN Log Manager")
	mainWindow.SetMaster()

	ui := NewUI(mainWindow, bus)
	ui.ctrl = controller.New(client, &dialogPresenter{window: mainWindow}, &dialogSaver{window: mainWindow, eventBus: bus},
		controller.WithEventBus(bus),
		controller.WithLogger(logger),
		controller.WithIncludeHidden(cfg.IncludeHidden),
		controller.WithUploadObserver(func(files int) controller.UploadObserver {
			return progress.NewBusUpload(bus, files)
		}),
	)
	ui.statusBar.SetBackend(client.BaseURL())
	logger.Info().Str("backend", client.BaseURL()).Msg("GUI started")

	ui.Start()
	mainWindow.SetContent(ui.Build())
	mainWindow.Resize(fyne.NewSize(900, 600))
	mainWindow.CenterOnScreen()
	mainWindow.SetOnClosed(ui.Stop)

	mainWindow.ShowAndRun()
	return nil
}

// UI holds the three tabs and the event monitors feeding them.
type UI struct {
	ctrl     *controller.Controller
	window   fyne.Window
	eventBus *events.EventBus

	uploadTab *uploadTab
	saveTab   *filesTab
	deleteTab *filesTab
	statusBar *StatusBar

	ctx    context.Context
	cancel context.CancelFunc
}

// NewUI creates the UI. The controller is attached by the caller.
func NewUI(window fyne.Window, bus *events.EventBus) *UI {
	ctx, cancel := context.WithCancel(context.Background())
	ui := &UI{
		window:    window,
		eventBus:  bus,
		statusBar: NewStatusBar(),
		ctx:       ctx,
		cancel:    cancel,
	}
	ui.uploadTab = newUploadTab(ui)
	ui.saveTab = newFilesTab(ui, state.ActionDownload)
	ui.deleteTab = newFilesTab(ui, state.ActionDelete)
	return ui
}

// Build creates the tab layout. Tab order: Upload | Save | Delete
func (ui *UI) Build() fyne.CanvasObject {
	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("  "+state.TabUpload.Title()+"  ", theme.UploadIcon(), ui.uploadTab.Build()),
		container.NewTabItemWithIcon("  "+state.TabSave.Title()+"  ", theme.DownloadIcon(), ui.saveTab.Build()),
		container.NewTabItemWithIcon("  "+state.TabDelete.Title()+"  ", theme.DeleteIcon(), ui.deleteTab.Build()),
	)

	tabs.OnSelected = func(item *container.TabItem) {
		tab := state.Tabs[tabs.SelectedIndex()]
		ui.run(func(ctx context.Context) controller.Result {
			return ui.ctrl.SwitchTab(ctx, string(tab))
		})
	}

	return container.NewBorder(nil, container.NewVBox(widget.NewSeparator(), ui.statusBar), nil, nil, tabs)
}

// run executes a controller operation off the UI thread.
func (ui *UI) run(op func(ctx context.Context) controller.Result) {
	go op(ui.ctx)
}

// Start begins event monitoring.
func (ui *UI) Start() {
	go ui.monitorFiles()
	go ui.monitorActions()
	go ui.monitorProgress()
	go ui.monitorLogs()
}

// Stop stops event monitoring.
func (ui *UI) Stop() {
	ui.cancel()
}

func (ui *UI) monitorFiles() {
	ch := ui.eventBus.Subscribe(events.EventFilesChanged)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
			tables := ui.ctrl.Tables().Snapshot()
			fyne.Do(func() {
				ui.saveTab.setRows(tables.Save)
				ui.deleteTab.setRows(tables.Delete)
			})
		case <-ui.ctx.Done():
			return
		}
	}
}

func (ui *UI) monitorActions() {
	started := ui.eventBus.Subscribe(events.EventActionStarted)
	finished := ui.eventBus.Subscribe(events.EventActionFinished)
	for {
		select {
		case ev, ok := <-started:
			if !ok {
				return
			}
			ae := ev.(*events.ActionEvent)
			ui.statusBar.Begin(ae.ActionID, actionLabel(ae.Action))
		case ev, ok := <-finished:
			if !ok {
				return
			}
			ae := ev.(*events.ActionEvent)
			msg, level := finishedStatus(ae)
			ui.statusBar.End(ae.ActionID, msg, level)
		case <-ui.ctx.Done():
			return
		}
	}
}

func (ui *UI) monitorProgress() {
	ch := ui.eventBus.Subscribe(events.EventProgress)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			ui.uploadTab.showProgress(ev.(*events.ProgressEvent))
		case <-ui.ctx.Done():
			return
		}
	}
}

func (ui *UI) monitorLogs() {
	ch := ui.eventBus.Subscribe(events.EventLog)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			le := ev.(*events.LogEvent)
			if le.Level >= events.ErrorLevel {
				ui.statusBar.SetError(le.Message)
			} else if le.Level == events.WarnLevel {
				ui.statusBar.SetWarning(le.Message)
			}
		case <-ui.ctx.Done():
			return
		}
	}
}
