package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/logging"
	"github.com/canlog/canlog-client/internal/models"
)

// fakeBackend records every call and answers from its fields.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	files   []models.StoredFile
	listErr error

	uploadText  string
	uploadErr   error
	uploadPaths []string

	deleteText string
	deleteErr  error

	downloadBody []byte
	downloadErr  error
	healthErr    error
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) count(call string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (b *fakeBackend) Upload(ctx context.Context, paths []string, wrap api.ReaderWrapper) (string, error) {
	b.record("upload")
	b.uploadPaths = paths
	return b.uploadText, b.uploadErr
}

func (b *fakeBackend) DownloadAll(ctx context.Context) (*api.Download, error) {
	b.record("download_all")
	return b.download("can_data_export.zip")
}

func (b *fakeBackend) DownloadFile(ctx context.Context, id int64, filename string) (*api.Download, error) {
	b.record("download_file")
	return b.download(filename)
}

func (b *fakeBackend) download(name string) (*api.Download, error) {
	if b.downloadErr != nil {
		return nil, b.downloadErr
	}
	return &api.Download{
		Body:     io.NopCloser(bytes.NewReader(b.downloadBody)),
		Size:     int64(len(b.downloadBody)),
		Filename: name,
	}, nil
}

func (b *fakeBackend) DeleteAll(ctx context.Context) (string, error) {
	b.record("delete_all")
	return b.deleteText, b.deleteErr
}

func (b *fakeBackend) DeleteFile(ctx context.Context, id int64) (string, error) {
	b.record("delete_file")
	return b.deleteText, b.deleteErr
}

func (b *fakeBackend) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	b.record("list")
	return b.files, b.listErr
}

func (b *fakeBackend) Health(ctx context.Context) (string, error) {
	b.record("health")
	if b.healthErr != nil {
		return "", b.healthErr
	}
	return "OK", nil
}

// fakePresenter records alerts and answers confirmations with answer.
type fakePresenter struct {
	answer  bool
	alerts  []string
	prompts []string
}

func (p *fakePresenter) Alert(msg string) { p.alerts = append(p.alerts, msg) }

func (p *fakePresenter) Confirm(prompt string) bool {
	p.prompts = append(p.prompts, prompt)
	return p.answer
}

// fakeSaver keeps what it was asked to save.
type fakeSaver struct {
	err   error
	name  string
	data  []byte
	calls int
}

func (s *fakeSaver) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	s.name = name
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.data = data
	return "/saved/" + name, nil
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5000: connect: connection refused")

func newTestController(b *fakeBackend, p *fakePresenter, s *fakeSaver, opts ...Option) *Controller {
	quiet := logging.NewLogger(logging.ModeTUI, nil)
	opts = append([]Option{WithLogger(quiet)}, opts...)
	return New(b, p, s, opts...)
}
