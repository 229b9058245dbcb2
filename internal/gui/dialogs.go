package gui

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/progress"
)

// dialogPresenter shows controller messages as modal dialogs. Both methods
// block the calling goroutine until the dialog closes, so they must never
// be called on the UI thread.
type dialogPresenter struct {
	window fyne.Window
}

func (p *dialogPresenter) Alert(msg string) {
	done := make(chan struct{})
	fyne.Do(func() {
		d := dialog.NewInformation("CAN Log Manager", msg, p.window)
		d.SetOnClosed(func() { close(done) })
		d.Show()
	})
	<-done
}

func (p *dialogPresenter) Confirm(prompt string) bool {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		dialog.ShowConfirm("Confirm", prompt, func(ok bool) { answer <- ok }, p.window)
	})
	return <-answer
}

// dialogSaver asks where to save each download, prefilled with its name.
type dialogSaver struct {
	window   fyne.Window
	eventBus *events.EventBus
}

func (s *dialogSaver) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	type pick struct {
		w   fyne.URIWriteCloser
		err error
	}
	picked := make(chan pick, 1)

	fyne.Do(func() {
		d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			picked <- pick{w, err}
		}, s.window)
		d.SetFileName(name)
		d.Show()
	})

	var p pick
	select {
	case p = <-picked:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if p.err != nil {
		return "", fmt.Errorf("save dialog failed: %w", p.err)
	}
	if p.w == nil {
		return "", controller.ErrSaveCancelled
	}

	rep := progress.NewGUIProgress(s.eventBus, name)
	rep.Start(size, "")
	_, err := io.Copy(p.w, progress.NewProgressReader(r, rep))
	if closeErr := p.w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		rep.Error(err)
		return "", fmt.Errorf("failed to write %s: %w", p.w.URI().Name(), err)
	}
	rep.Finish()

	return uriPath(p.w.URI()), nil
}

// uriPath returns a filesystem path for file:// URIs and the full URI otherwise.
func uriPath(u fyne.URI) string {
	if u.Scheme() == "file" {
		return u.Path()
	}
	return u.String()
}
