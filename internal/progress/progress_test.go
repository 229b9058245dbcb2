package progress

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/canlog/canlog-client/internal/events"
)

type recordingReporter struct {
	updates []int64
}

func (r *recordingReporter) Start(total int64, description string) {}
func (r *recordingReporter) Update(current int64)                  { r.updates = append(r.updates, current) }
func (r *recordingReporter) Finish()                               {}
func (r *recordingReporter) Error(err error)                       {}

func TestProgressReaderReportsCumulativeBytes(t *testing.T) {
	rep := &recordingReporter{}
	pr := NewProgressReader(strings.NewReader("abcdefghij"), rep)

	buf := make([]byte, 4)
	for {
		if _, err := pr.Read(buf); err == io.EOF {
			break
		}
	}

	if pr.Current() != 10 {
		t.Errorf("Current() = %d, want 10", pr.Current())
	}
	last := rep.updates[len(rep.updates)-1]
	if last != 10 {
		t.Errorf("last update = %d, want 10", last)
	}
	for i := 1; i < len(rep.updates); i++ {
		if rep.updates[i] < rep.updates[i-1] {
			t.Errorf("updates not monotonic: %v", rep.updates)
		}
	}
}

func TestGUIProgressPublishesEvents(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventProgress)

	p := NewGUIProgress(bus, "log1.csv")
	p.Start(100, "")
	p.Update(40)
	p.Finish()

	var got []int64
	for i := 0; i < 3; i++ {
		select {
		case ev := <-ch:
			pe := ev.(*events.ProgressEvent)
			if pe.Name != "log1.csv" || pe.BytesTotal != 100 {
				t.Errorf("event = %+v", pe)
			}
			got = append(got, pe.BytesCurrent)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("missing progress event")
		}
	}
	if got[0] != 0 || got[1] != 40 || got[2] != 100 {
		t.Errorf("progress = %v, want [0 40 100]", got)
	}
}

func TestUploadUINonTerminal(t *testing.T) {
	var out bytes.Buffer
	ui := newUploadUI(&out, false, 2)

	for _, name := range []string{"/data/run1/a.csv", "b.csv"} {
		r := ui.Wrap(name, 5, strings.NewReader("12345"))
		if _, err := io.Copy(io.Discard, r); err != nil {
			t.Fatal(err)
		}
	}
	ui.Finish(nil)

	text := out.String()
	if !strings.Contains(text, "[1/2] …/run1/a.csv") {
		t.Errorf("output missing first file line:\n%s", text)
	}
	if !strings.Contains(text, "[2/2] b.csv") {
		t.Errorf("output missing second file line:\n%s", text)
	}
	if !strings.Contains(text, "✓ streamed 2 file(s)") {
		t.Errorf("output missing summary:\n%s", text)
	}
	if ui.IsTerminal() {
		t.Error("IsTerminal() = true for a buffer")
	}
}

func TestUploadUIFinishWithError(t *testing.T) {
	var out bytes.Buffer
	ui := newUploadUI(&out, false, 1)
	ui.AddFileBar("a.csv", 10)

	ui.Finish(errors.New("connection reset"))

	if !strings.Contains(out.String(), "✗ upload of 1 file(s) failed: connection reset") {
		t.Errorf("output = %q", out.String())
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path string
		n    int
		want string
	}{
		{"file.txt", 2, "file.txt"},
		{"dir/file.txt", 2, "file.txt"},
		{"/a/b/c/d/file.txt", 3, "…/c/d/file.txt"},
	}
	for _, tt := range tests {
		if got := truncatePath(tt.path, tt.n); got != tt.want {
			t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.n, got, tt.want)
		}
	}
}

func TestBusUploadFinishesEachFile(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()
	ch := bus.Subscribe(events.EventProgress)

	up := NewBusUpload(bus, 1)
	r := up.Wrap("/data/logs/run1.csv", 6, strings.NewReader("abcdef"))
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatal(err)
	}
	up.Finish(nil)

	var last *events.ProgressEvent
	for {
		select {
		case ev := <-ch:
			last = ev.(*events.ProgressEvent)
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	if last == nil {
		t.Fatal("no progress events")
	}
	if last.Name != "run1.csv" || last.BytesCurrent != 6 || last.Fraction() != 1 {
		t.Errorf("last event = %+v", last)
	}
}

func TestBusUploadFinishWithErrorLogs(t *testing.T) {
	bus := events.NewEventBus(8)
	defer bus.Close()
	ch := bus.Subscribe(events.EventLog)

	NewBusUpload(bus, 2).Finish(errors.New("connection reset"))

	select {
	case ev := <-ch:
		le := ev.(*events.LogEvent)
		if le.Level != events.ErrorLevel || !strings.Contains(le.Message, "connection reset") {
			t.Errorf("log event = %+v", le)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("missing log event")
	}
}
