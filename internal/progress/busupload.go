package progress

import (
	"io"
	"path/filepath"

	"github.com/canlog/canlog-client/internal/events"
)

// BusUpload follows a multipart upload for the GUI and TUI: each file
// becomes a stream of ProgressEvents named after its base name.
type BusUpload struct {
	eventBus *events.EventBus
	files    int
}

// NewBusUpload creates an upload observer publishing on eventBus.
func NewBusUpload(eventBus *events.EventBus, files int) *BusUpload {
	return &BusUpload{eventBus: eventBus, files: files}
}

// Wrap matches api.ReaderWrapper.
func (b *BusUpload) Wrap(name string, size int64, r io.Reader) io.Reader {
	rep := NewGUIProgress(b.eventBus, filepath.Base(name))
	rep.Start(size, "")
	return &finishingReader{ProgressReader: NewProgressReader(r, rep), reporter: rep}
}

// Finish logs a failed upload on the bus. Success is reported by the
// controller's action event.
func (b *BusUpload) Finish(err error) {
	if err != nil {
		b.eventBus.PublishLog(events.ErrorLevel, "upload failed: "+err.Error(), "upload", err)
	}
}

// finishingReader marks its reporter finished at EOF.
type finishingReader struct {
	*ProgressReader
	reporter Reporter
	done     bool
}

func (f *finishingReader) Read(p []byte) (int, error) {
	n, err := f.ProgressReader.Read(p)
	if err == io.EOF && !f.done {
		f.done = true
		f.reporter.Finish()
	}
	return n, err
}
