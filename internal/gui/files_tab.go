package gui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/state"
)

// filesTab renders one of the two file tables: rows with a Download button
// on the Save tab, rows with a Delete button on the Delete tab.
type filesTab struct {
	ui   *UI
	kind state.ActionKind

	// rows is only touched on the UI thread.
	rows []state.Row
	list *widget.List
}

func newFilesTab(ui *UI, kind state.ActionKind) *filesTab {
	return &filesTab{ui: ui, kind: kind}
}

// Build creates the tab UI.
func (t *filesTab) Build() fyne.CanvasObject {
	t.list = widget.NewList(
		func() int { return len(t.rows) },
		func() fyne.CanvasObject { return newRowItem(t.kind) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(t.rows) {
				obj.(*rowItem).bind(t.rows[id], t.act)
			}
		},
	)

	var bulk *widget.Button
	switch t.kind {
	case state.ActionDownload:
		bulk = NewPrimaryButtonWithIcon("Save all to local", theme.DownloadIcon(), func() {
			t.ui.run(t.ui.ctrl.SaveToLocal)
		})
	default:
		bulk = widget.NewButtonWithIcon("Delete all", theme.DeleteIcon(), func() {
			t.ui.run(t.ui.ctrl.DeleteFromDatabase)
		})
		bulk.Importance = widget.DangerImportance
	}

	return container.NewBorder(
		widget.NewLabelWithStyle("Stored files", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(widget.NewSeparator(), container.NewHBox(bulk)),
		nil, nil,
		t.list,
	)
}

// setRows replaces the rendered rows. Must run on the UI thread.
func (t *filesTab) setRows(rows []state.Row) {
	t.rows = rows
	if t.list != nil {
		t.list.Refresh()
	}
}

func (t *filesTab) act(action state.RowAction) {
	switch action.Kind {
	case state.ActionDownload:
		t.ui.run(func(ctx context.Context) controller.Result {
			return t.ui.ctrl.DownloadOne(ctx, action.FileID, action.Filename)
		})
	case state.ActionDelete:
		t.ui.run(func(ctx context.Context) controller.Result {
			return t.ui.ctrl.DeleteOne(ctx, action.FileID)
		})
	}
}

// rowItem is one list line: the filename, its upload time and the row button.
type rowItem struct {
	widget.BaseWidget

	label    *widget.Label
	uploaded *widget.Label
	button   *widget.Button

	action state.RowAction
	onTap  func(state.RowAction)
}

func newRowItem(kind state.ActionKind) *rowItem {
	r := &rowItem{
		label:    widget.NewLabel(""),
		uploaded: widget.NewLabel(""),
	}
	r.label.Truncation = fyne.TextTruncateEllipsis
	r.uploaded.TextStyle = fyne.TextStyle{Italic: true}

	tapped := func() {
		if r.onTap != nil && r.action.Kind != state.ActionNone {
			r.onTap(r.action)
		}
	}
	if kind == state.ActionDownload {
		r.button = widget.NewButtonWithIcon("Download", theme.DownloadIcon(), tapped)
	} else {
		r.button = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), tapped)
		r.button.Importance = widget.DangerImportance
	}
	r.ExtendBaseWidget(r)
	return r
}

func (r *rowItem) bind(row state.Row, onTap func(state.RowAction)) {
	r.action = row.Action
	r.onTap = onTap
	r.label.SetText(row.Label)
	r.uploaded.SetText(row.UploadedAt)
	if row.Placeholder {
		r.button.Hide()
	} else {
		r.button.Show()
	}
}

// CreateRenderer implements fyne.Widget
func (r *rowItem) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, container.NewHBox(r.uploaded, r.button), r.label))
}
