// Package progress reports transfer progress: terminal bars for the CLI
// (mpb for multi-file uploads, progressbar for downloads) and event-bus
// updates for the GUI and TUI.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/canlog/canlog-client/internal/events"
)

// Reporter is the interface for reporting progress in both CLI and GUI modes.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
}

// CLIProgress draws a single byte-counting bar, used while a download is
// written to disk. A total of -1 renders a spinner.
type CLIProgress struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewCLIProgress creates a reporter writing to stderr.
func NewCLIProgress() *CLIProgress {
	return &CLIProgress{out: os.Stderr}
}

// Start initializes the progress bar with total size and description.
func (p *CLIProgress) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.out, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update updates the progress bar to the current position.
func (p *CLIProgress) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the progress bar.
func (p *CLIProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error displays an error message.
func (p *CLIProgress) Error(err error) {
	if err != nil {
		fmt.Fprintf(p.out, "\nError: %v\n", err)
	}
}

// GUIProgress publishes EventProgress updates for one named transfer.
type GUIProgress struct {
	eventBus *events.EventBus
	name     string
	total    int64
}

// NewGUIProgress creates a new GUI progress reporter.
func NewGUIProgress(eventBus *events.EventBus, name string) *GUIProgress {
	return &GUIProgress{eventBus: eventBus, name: name}
}

// Start publishes a zero-progress event.
func (p *GUIProgress) Start(total int64, description string) {
	p.total = total
	if description != "" {
		p.name = description
	}
	p.eventBus.PublishProgress(p.name, 0, total)
}

// Update publishes progress update to event bus.
func (p *GUIProgress) Update(current int64) {
	p.eventBus.PublishProgress(p.name, current, p.total)
}

// Finish publishes a completed event.
func (p *GUIProgress) Finish() {
	p.eventBus.PublishProgress(p.name, p.total, p.total)
}

// Error publishes an error-level log event.
func (p *GUIProgress) Error(err error) {
	if err != nil {
		p.eventBus.PublishLog(events.ErrorLevel, fmt.Sprintf("%s: %v", p.name, err), "transfer", err)
	}
}

// NoOpProgress is a progress reporter that does nothing (for background/silent operations).
type NoOpProgress struct{}

// NewNoOpProgress creates a new no-op progress reporter.
func NewNoOpProgress() *NoOpProgress {
	return &NoOpProgress{}
}

func (p *NoOpProgress) Start(total int64, description string) {}
func (p *NoOpProgress) Update(current int64)                  {}
func (p *NoOpProgress) Finish()                               {}
func (p *NoOpProgress) Error(err error)                       {}

// ForTerminal returns a CLIProgress when stderr is a terminal and a no-op
// reporter otherwise, so piped output stays clean.
func ForTerminal() Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return NewCLIProgress()
	}
	return NewNoOpProgress()
}

// ProgressReader wraps an io.Reader to report progress.
type ProgressReader struct {
	reader   io.Reader
	reporter Reporter
	current  int64
}

// NewProgressReader creates a new progress-reporting reader.
func NewProgressReader(reader io.Reader, reporter Reporter) *ProgressReader {
	return &ProgressReader{reader: reader, reporter: reporter}
}

// Read implements io.Reader interface with progress reporting.
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)
	pr.reporter.Update(pr.current)
	return n, err
}

// Current returns the number of bytes read so far.
func (pr *ProgressReader) Current() int64 {
	return pr.current
}
