package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/config"
	"github.com/canlog/canlog-client/internal/constants"
	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/localfs"
	"github.com/canlog/canlog-client/internal/logging"
	"github.com/canlog/canlog-client/internal/progress"
)

// Run starts the terminal UI and blocks until the user quits or ctx is cancelled.
// Logs go to the rotating log file only; the terminal belongs to the UI.
func Run(ctx context.Context, cfg *config.Config) error {
	bus := events.NewEventBus(constants.EventBusDefaultBuffer)
	defer bus.Close()

	logger := logging.NewLogger(logging.ModeTUI, bus)
	defer logger.Close()
	if cfg.LogToFile {
		if err := logger.EnableFileOutput(config.LogDirectory()); err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	client.SetLogger(logger)

	presenter := newProgramPresenter()
	defer presenter.stop()

	saver := &localfs.DirSaver{
		Dir:         cfg.DownloadDir,
		NewReporter: func() progress.Reporter { return progress.NewGUIProgress(bus, "") },
	}
	ctrl := controller.New(client, presenter, saver,
		controller.WithEventBus(bus),
		controller.WithLogger(logger),
		controller.WithIncludeHidden(cfg.IncludeHidden),
		controller.WithUploadObserver(func(files int) controller.UploadObserver {
			return progress.NewBusUpload(bus, files)
		}),
	)

	model := NewModel(ctx, ctrl, bus.SubscribeAll(), "CAN Log Manager · "+client.BaseURL())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	presenter.attach(p)

	logger.Info().Str("backend", client.BaseURL()).Str("download_dir", cfg.DownloadDir).Msg("TUI started")
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
