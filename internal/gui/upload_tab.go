package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/localfs"
)

// uploadTab holds the two pickers: folders whose files are all uploaded,
// and individually chosen files.
type uploadTab struct {
	ui *UI

	mu        sync.Mutex
	selection selectionList

	folderList    *widget.List
	fileList      *widget.List
	summary       *widget.Label
	uploadButton  *widget.Button
	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
}

func newUploadTab(ui *UI) *uploadTab {
	return &uploadTab{ui: ui}
}

// Build creates the upload tab UI.
func (t *uploadTab) Build() fyne.CanvasObject {
	t.folderList = widget.NewList(
		func() int { return len(t.snapshot().Folders) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if folders := t.snapshot().Folders; id < len(folders) {
				obj.(*widget.Label).SetText(folders[id])
			}
		},
	)
	t.fileList = widget.NewList(
		func() int { return len(t.snapshot().Files) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if files := t.snapshot().Files; id < len(files) {
				obj.(*widget.Label).SetText(files[id])
			}
		},
	)

	addFolder := widget.NewButtonWithIcon("Add folder...", theme.FolderOpenIcon(), func() {
		dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
			if err != nil || dir == nil {
				return
			}
			t.add(func(s *selectionList) { s.addFolder(uriPath(dir)) })
		}, t.ui.window)
	})
	addFile := widget.NewButtonWithIcon("Add file...", theme.FileIcon(), func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := uriPath(rc.URI())
			rc.Close()
			t.add(func(s *selectionList) { s.addFile(path) })
		}, t.ui.window)
	})
	clearButton := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		t.add(func(s *selectionList) { *s = selectionList{} })
	})

	t.summary = widget.NewLabel("")
	t.uploadButton = NewPrimaryButtonWithIcon("Upload", theme.UploadIcon(), t.upload)
	t.progressBar = widget.NewProgressBar()
	t.progressLabel = widget.NewLabel("")
	t.refreshSummary()

	folders := container.NewBorder(widget.NewLabelWithStyle("Folders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil, t.folderList)
	files := container.NewBorder(widget.NewLabelWithStyle("Files", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil, t.fileList)

	return container.NewBorder(
		container.NewVBox(
			container.NewHBox(addFolder, addFile, clearButton),
			VerticalSpacer(4),
		),
		container.NewVBox(
			widget.NewSeparator(),
			container.NewBorder(nil, nil, nil, t.uploadButton, t.summary),
			t.progressLabel,
			t.progressBar,
		),
		nil, nil,
		container.NewGridWithColumns(2, folders, files),
	)
}

func (t *uploadTab) snapshot() controller.Selection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selection.Selection()
}

// add mutates the selection and redraws. Called on the UI thread.
func (t *uploadTab) add(fn func(*selectionList)) {
	t.mu.Lock()
	fn(&t.selection)
	t.mu.Unlock()

	t.folderList.Refresh()
	t.fileList.Refresh()
	t.refreshSummary()
}

func (t *uploadTab) refreshSummary() {
	t.mu.Lock()
	text := t.selection.Summary()
	t.mu.Unlock()
	t.summary.SetText(text)
}

func (t *uploadTab) upload() {
	sel := t.snapshot()
	t.uploadButton.Disable()
	t.progressBar.SetValue(0)
	t.progressLabel.SetText("")

	t.ui.run(func(ctx context.Context) controller.Result {
		r := t.ui.ctrl.UploadFiles(ctx, sel)
		fyne.Do(func() {
			t.uploadButton.Enable()
			if !r.OK() {
				t.progressLabel.SetText("")
			}
		})
		return r
	})
}

// showProgress draws the file currently streaming. Called from any goroutine.
func (t *uploadTab) showProgress(ev *events.ProgressEvent) {
	text := progressText(ev)
	frac := ev.Fraction()
	fyne.Do(func() {
		t.progressLabel.SetText(text)
		if frac >= 0 {
			t.progressBar.SetValue(frac)
		}
	})
}

func progressText(ev *events.ProgressEvent) string {
	if ev.BytesTotal < 0 {
		return fmt.Sprintf("%s: %s", ev.Name, humanize.IBytes(uint64(ev.BytesCurrent)))
	}
	return fmt.Sprintf("%s: %s / %s", ev.Name, humanize.IBytes(uint64(ev.BytesCurrent)), humanize.IBytes(uint64(ev.BytesTotal)))
}

// selectionList is the picker state. Paths are kept in pick order; picking
// the same path twice keeps the first.
type selectionList struct {
	folders []string
	files   []string
}

func (s *selectionList) addFolder(path string) {
	s.folders = appendUnique(s.folders, filepath.Clean(path))
}

func (s *selectionList) addFile(path string) {
	s.files = appendUnique(s.files, filepath.Clean(path))
}

// Selection copies the lists for the controller.
func (s *selectionList) Selection() controller.Selection {
	return controller.Selection{
		Folders: append([]string(nil), s.folders...),
		Files:   append([]string(nil), s.files...),
	}
}

// Summary is the line shown next to the Upload button. Individually picked
// dot-files are always sent, so they are called out.
func (s *selectionList) Summary() string {
	text := fmt.Sprintf("%d folder(s), %d file(s) selected", len(s.folders), len(s.files))
	hidden := 0
	for _, f := range s.files {
		if localfs.IsHidden(f) {
			hidden++
		}
	}
	if hidden > 0 {
		text += fmt.Sprintf(" (%d hidden)", hidden)
	}
	return text
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
