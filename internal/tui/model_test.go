package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/logging"
	"github.com/canlog/canlog-client/internal/models"
	"github.com/canlog/canlog-client/internal/state"
)

type fakeBackend struct {
	mu      sync.Mutex
	files   []models.StoredFile
	calls   []string
	deleted []int64
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeBackend) Upload(ctx context.Context, paths []string, wrap api.ReaderWrapper) (string, error) {
	f.record("upload")
	return "Uploaded", nil
}

func (f *fakeBackend) DownloadAll(ctx context.Context) (*api.Download, error) {
	f.record("download_all")
	return &api.Download{Body: io.NopCloser(strings.NewReader("zip")), Size: 3}, nil
}

func (f *fakeBackend) DownloadFile(ctx context.Context, id int64, filename string) (*api.Download, error) {
	f.record("download")
	return &api.Download{Body: io.NopCloser(strings.NewReader("csv")), Size: 3, Filename: filename}, nil
}

func (f *fakeBackend) DeleteAll(ctx context.Context) (string, error) {
	f.record("delete_all")
	return "All deleted", nil
}

func (f *fakeBackend) DeleteFile(ctx context.Context, id int64) (string, error) {
	f.record("delete")
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	return "Deleted", nil
}

func (f *fakeBackend) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	f.record("list")
	return f.files, nil
}

func (f *fakeBackend) Health(ctx context.Context) (string, error) {
	return "OK", nil
}

type nopSaver struct{}

func (nopSaver) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	return "/tmp/" + name, nil
}

// fixedPresenter answers every confirmation with answer and records alerts.
type fixedPresenter struct {
	answer bool
	alerts []string
}

func (p *fixedPresenter) Alert(msg string)           { p.alerts = append(p.alerts, msg) }
func (p *fixedPresenter) Confirm(prompt string) bool { return p.answer }

func newTestModel(t *testing.T, backend *fakeBackend, presenter controller.Presenter) *Model {
	t.Helper()
	bus := events.NewEventBus(64)
	t.Cleanup(bus.Close)
	ctrl := controller.New(backend, presenter, nopSaver{},
		controller.WithEventBus(bus),
		controller.WithLogger(logging.NewLogger(logging.ModeTUI, nil)),
	)
	return NewModel(context.Background(), ctrl, nil, "test")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive runs cmd and feeds its message back into the model.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(resultMsg); !ok {
		t.Fatalf("command returned %T, want resultMsg", msg)
	}
	m.Update(msg)
	m.Update(eventMsg{event: &events.FilesChangedEvent{}})
}

func storedFiles() []models.StoredFile {
	return []models.StoredFile{
		{ID: 1, Filename: "log1.csv", UploadedAt: "2024-05-01 10:00:00"},
		{ID: 2, Filename: "log2.csv"},
	}
}

func TestSwitchToSaveTabLoadsFiles(t *testing.T) {
	backend := &fakeBackend{files: storedFiles()}
	m := newTestModel(t, backend, &fixedPresenter{})

	_, cmd := m.Update(runes("2"))
	drive(t, m, cmd)

	if m.ctrl.Tabs().Active() != state.TabSave {
		t.Errorf("active tab = %s, want save", m.ctrl.Tabs().Active())
	}
	if !backend.called("list") {
		t.Error("switching to save should load the file list")
	}
	view := m.View()
	for _, want := range []string{"log1.csv", "log2.csv", "[download]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTabKeyCyclesWithoutListingOnUpload(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, &fixedPresenter{})

	_, cmd := m.Update(runes("1"))
	drive(t, m, cmd)
	if backend.called("list") {
		t.Error("upload tab must not load the file list")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	drive(t, m, cmd)
	if m.ctrl.Tabs().Active() != state.TabSave {
		t.Errorf("tab after upload = %s, want save", m.ctrl.Tabs().Active())
	}
}

func TestEmptyListShowsPlaceholder(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, &fixedPresenter{})

	_, cmd := m.Update(runes("3"))
	drive(t, m, cmd)

	if !strings.Contains(m.View(), "No files available.") {
		t.Error("expected placeholder row")
	}
	if cmd := m.act(state.TabDelete); cmd != nil {
		t.Error("enter on a placeholder row must do nothing")
	}
}

func TestDeleteSelectedRow(t *testing.T) {
	backend := &fakeBackend{files: storedFiles()}
	m := newTestModel(t, backend, &fixedPresenter{answer: true})

	_, cmd := m.Update(runes("3"))
	drive(t, m, cmd)

	m.Update(runes("j"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drive(t, m, cmd)

	if len(backend.deleted) != 1 || backend.deleted[0] != 2 {
		t.Errorf("deleted = %v, want [2]", backend.deleted)
	}
}

func TestConfirmPrompt(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, &fixedPresenter{})

	reply := make(chan bool, 1)
	m.Update(confirmMsg{prompt: "Delete this file from MySQL?", reply: reply})
	if !strings.Contains(m.View(), "Delete this file from MySQL?") {
		t.Error("confirm prompt not shown")
	}

	m.Update(runes("x"))
	select {
	case <-reply:
		t.Fatal("unrelated key must not answer")
	default:
	}

	m.Update(runes("n"))
	select {
	case ok := <-reply:
		if ok {
			t.Error("n answered yes")
		}
	default:
		t.Fatal("n did not answer")
	}
	if m.confirm != nil {
		t.Error("prompt still open")
	}
}

func TestAlertBlocksUntilDismissed(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, &fixedPresenter{})

	done := make(chan struct{})
	m.Update(alertMsg{text: "Upload failed: boom", done: done})
	if !strings.Contains(m.View(), "Upload failed: boom") {
		t.Error("alert not shown")
	}

	m.Update(runes("2"))
	select {
	case <-done:
		t.Fatal("tab key dismissed the alert")
	default:
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	select {
	case <-done:
	default:
		t.Fatal("enter did not dismiss the alert")
	}
}

func TestProgramPresenterRoundTrip(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, &fixedPresenter{})
	msgs := make(chan tea.Msg, 1)
	p := newProgramPresenter()
	p.attach(senderFunc(func(msg tea.Msg) { msgs <- msg }))

	answered := make(chan bool, 1)
	go func() { answered <- p.Confirm("sure?") }()

	select {
	case msg := <-msgs:
		m.Update(msg)
	case <-time.After(time.Second):
		t.Fatal("confirm never reached the program")
	}
	if m.confirm == nil {
		t.Fatal("model did not open the prompt")
	}
	m.Update(runes("y"))

	select {
	case ok := <-answered:
		if !ok {
			t.Error("Confirm returned false after y")
		}
	case <-time.After(time.Second):
		t.Fatal("Confirm did not return")
	}
}

func TestPresenterWithoutProgram(t *testing.T) {
	p := newProgramPresenter()
	if p.Confirm("anything") {
		t.Error("Confirm without a program must say no")
	}
	p.Alert("ignored")
}

type senderFunc func(tea.Msg)

func (f senderFunc) Send(msg tea.Msg) { f(msg) }

func TestAddPathFromInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "run1.csv")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, &fakeBackend{}, &fixedPresenter{})
	m.Update(runes("i"))
	if !m.editing {
		t.Fatal("i should start path entry on the upload tab")
	}

	m.input.SetValue(dir)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue(file)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue(filepath.Join(dir, "missing.csv"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.editing {
		t.Error("esc should leave path entry")
	}
	if len(m.folders) != 1 || m.folders[0] != dir {
		t.Errorf("folders = %v", m.folders)
	}
	if len(m.files) != 1 || m.files[0] != file {
		t.Errorf("files = %v", m.files)
	}
	if m.statusOK || !strings.Contains(m.status, "missing.csv") {
		t.Errorf("status = %q, want an error about missing.csv", m.status)
	}
}

func TestUploadWithNothingSelected(t *testing.T) {
	backend := &fakeBackend{}
	presenter := &fixedPresenter{}
	m := newTestModel(t, backend, presenter)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drive(t, m, cmd)

	if backend.called("upload") {
		t.Error("nothing selected must not reach the backend")
	}
	if len(presenter.alerts) != 1 || presenter.alerts[0] != "Please select a folder or files to upload." {
		t.Errorf("alerts = %v", presenter.alerts)
	}
}

func TestPathSuggestions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"logs", ".cache"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "log.csv"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	got := pathSuggestions(filepath.Join(dir, "lo"))
	want := []string{filepath.Join(dir, "logs") + string(filepath.Separator), filepath.Join(dir, "log.csv")}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("suggestions = %v, want %v", got, want)
	}

	hidden := pathSuggestions(filepath.Join(dir, "."))
	if len(hidden) != 1 || !strings.HasSuffix(hidden[0], ".cache"+string(filepath.Separator)) {
		t.Errorf("dot suggestions = %v", hidden)
	}
}

func TestNextTab(t *testing.T) {
	if nextTab(state.TabUpload) != state.TabSave || nextTab(state.TabSave) != state.TabDelete || nextTab(state.TabDelete) != state.TabUpload {
		t.Error("tab cycle should be upload → save → delete → upload")
	}
}
