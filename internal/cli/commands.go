package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/canlog/canlog-client/internal/config"
	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/state"
	"github.com/canlog/canlog-client/internal/tui"
)

// LaunchGUI starts the desktop front end. It is nil in builds without a GUI.
var LaunchGUI func(cfg *config.Config) error

// ErrGUIUnavailable is returned by the gui command when LaunchGUI is nil.
var ErrGUIUnavailable = errors.New("GUI is not available in this build; use the full canlog binary")

func newUploadCmd() *cobra.Command {
	var folders []string

	cmd := &cobra.Command{
		Use:   "upload [FILE...]",
		Short: "Upload files and folders to the backend",
		Long: `Upload files in a single multipart request.

Every file under each --folder is sent (recursively, hidden files skipped
unless client.include_hidden is set), followed by the files given as arguments.

Examples:
  canlog upload run1.csv run2.csv
  canlog upload --folder ./logs
  canlog upload --folder ./day1 --folder ./day2 extra.blf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := newController(cmd, "", true)
			if err != nil {
				return err
			}
			r := ctrl.UploadFiles(GetContext(), controller.Selection{Folders: folders, Files: args})
			return resultErr(cmd, r)
		},
	}

	cmd.Flags().StringArrayVarP(&folders, "folder", "f", nil, "Folder to upload (repeatable)")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List files stored in the backend",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := newController(cmd, "", true)
			if err != nil {
				return err
			}
			r := ctrl.LoadFileLists(GetContext())
			if !r.OK() {
				return fmt.Errorf("failed to list files: %w", r.Err)
			}
			printRows(cmd, ctrl.Tables().SaveRows())
			return nil
		},
	}
}

// printRows writes the save table the way the Save tab shows it.
func printRows(cmd *cobra.Command, rows []state.Row) {
	out := cmd.OutOrStdout()
	if len(rows) == 1 && rows[0].Placeholder {
		fmt.Fprintln(out, rows[0].Label)
		return
	}
	fmt.Fprintf(out, "%-10s %-50s %s\n", "ID", "FILENAME", "UPLOADED")
	for _, row := range rows {
		fmt.Fprintf(out, "%-10d %-50s %s\n", row.Action.FileID, row.Label, row.UploadedAt)
	}
	fmt.Fprintf(out, "\nTotal: %d file(s)\n", len(rows))
}

func newDownloadCmd() *cobra.Command {
	var (
		name   string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Download one stored file",
		Long: `Download one stored file by ID into the download directory.

Without --name the file keeps the filename the backend lists for it.
Existing files are never overwritten; a numbered copy is written instead.

Examples:
  canlog download 42
  canlog download 42 --name run42.csv --outdir ./exports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}
			ctrl, _, err := newController(cmd, outDir, true)
			if err != nil {
				return err
			}

			ctx := GetContext()
			if name == "" {
				name = lookupFilename(ctrl, id)
			}

			r := ctrl.DownloadOne(ctx, id, name)
			if r.OK() {
				fmt.Fprintln(cmd.OutOrStdout(), savedSummary(r.Path))
			}
			return resultErr(cmd, r)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Filename to save as")
	cmd.Flags().StringVarP(&outDir, "outdir", "o", "", "Download directory (default: client.download_dir)")
	return cmd
}

// lookupFilename finds the listed name for id, falling back to file-<id>
// when the list cannot be loaded or does not contain it.
func lookupFilename(ctrl *controller.Controller, id int64) string {
	if r := ctrl.LoadFileLists(GetContext()); r.OK() {
		for _, row := range ctrl.Tables().SaveRows() {
			if !row.Placeholder && row.Action.FileID == id {
				return row.Action.Filename
			}
		}
	}
	return "file-" + strconv.FormatInt(id, 10)
}

func newExportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save every stored file as one zip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := newController(cmd, outDir, true)
			if err != nil {
				return err
			}
			r := ctrl.SaveToLocal(GetContext())
			if r.OK() {
				fmt.Fprintln(cmd.OutOrStdout(), savedSummary(r.Path))
			}
			return resultErr(cmd, r)
		},
	}

	cmd.Flags().StringVarP(&outDir, "outdir", "o", "", "Download directory (default: client.download_dir)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var (
		all       bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "delete [ID]",
		Short: "Delete one stored file, or all of them with --all",
		Long: `Delete stored files from the backend.

Asks for confirmation unless --yes is given.

Examples:
  canlog delete 42
  canlog delete --all --yes`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all does not take an ID")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("requires exactly one file ID, or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if !all {
				var err error
				if id, err = parseFileID(args[0]); err != nil {
					return err
				}
			}

			ctrl, _, err := newController(cmd, "", assumeYes)
			if err != nil {
				return err
			}

			var r controller.Result
			if all {
				r = ctrl.DeleteFromDatabase(GetContext())
			} else {
				r = ctrl.DeleteOne(GetContext(), id)
			}
			if r.Status == controller.StatusCancelled {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
				return nil
			}
			return resultErr(cmd, r)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every stored file")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cfg, err := newController(cmd, "", true)
			if err != nil {
				return err
			}

			r := ctrl.CheckHealth(GetContext())
			if !r.OK() {
				return fmt.Errorf("backend %s is unreachable: %w", cfg.BackendURL, r.Err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", cfg.BackendURL, r.Message)
			return nil
		},
	}
}

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if LaunchGUI == nil {
				return ErrGUIUnavailable
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return LaunchGUI(cfg)
		},
	}
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return tui.Run(GetContext(), cfg)
		},
	}
}

func parseFileID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid file ID %q: must be a positive integer", s)
	}
	return id, nil
}
