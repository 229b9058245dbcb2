package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/config"
	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/localfs"
	"github.com/canlog/canlog-client/internal/progress"
)

// loadConfig resolves the effective configuration:
// flags > environment (.env already folded in) > config file > defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg.MergeWithFlags(backendURL, proxyMode, proxyHost, proxyPort)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newAPIClient builds a backend client from the effective configuration.
func newAPIClient() (*api.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}
	client.SetLogger(GetLogger())
	return client, cfg, nil
}

// newController wires a terminal controller: prompts on the command's input,
// downloads into outDir (or the configured download_dir) and mpb bars for uploads.
func newController(cmd *cobra.Command, outDir string, assumeYes bool) (*controller.Controller, *config.Config, error) {
	client, cfg, err := newAPIClient()
	if err != nil {
		return nil, nil, err
	}
	if outDir == "" {
		outDir = cfg.DownloadDir
	}

	saver := &localfs.DirSaver{Dir: outDir, NewReporter: progress.ForTerminal}
	ctrl := controller.New(client, newTerminalPresenter(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes), saver,
		controller.WithLogger(GetLogger()),
		controller.WithIncludeHidden(cfg.IncludeHidden),
		controller.WithUploadObserver(func(files int) controller.UploadObserver {
			return progress.NewUploadUI(files)
		}),
	)
	return ctrl, cfg, nil
}

// resultErr turns a non-OK result into a command error. The alert has
// already been printed, so the error stays short.
func resultErr(cmd *cobra.Command, r controller.Result) error {
	if r.OK() {
		return nil
	}
	cmd.SilenceErrors = true
	if r.Err != nil {
		return fmt.Errorf("%s: %w", r.Status, r.Err)
	}
	return fmt.Errorf("%s", r.Status)
}

// savedSummary formats the line printed after a successful save.
func savedSummary(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("✓ Saved %s", path)
	}
	return fmt.Sprintf("✓ Saved %s (%s)", path, humanize.IBytes(uint64(info.Size())))
}
