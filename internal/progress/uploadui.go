package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// UploadUI draws one bar per file of a multipart upload. All files travel in
// a single request, so bars fill one after another as the body streams.
type UploadUI struct {
	progress   *mpb.Progress
	out        io.Writer
	isTerminal bool
	totalFiles int
	started    int32
	mu         sync.Mutex
	bars       []*FileBar
}

// FileBar is the progress bar of one uploaded file.
type FileBar struct {
	bar       *mpb.Bar
	ui        *UploadUI
	index     int
	name      string
	size      int64
	sent      atomic.Int64
	startTime time.Time
	done      atomic.Bool
}

// NewUploadUI creates an upload UI writing to stderr. Bars are only drawn
// when stderr is a terminal; otherwise one line per file is printed.
func NewUploadUI(totalFiles int) *UploadUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	return newUploadUI(os.Stderr, isTerminal, totalFiles)
}

func newUploadUI(out io.Writer, isTerminal bool, totalFiles int) *UploadUI {
	var p *mpb.Progress
	if isTerminal {
		if f, ok := out.(*os.File); ok {
			enableANSI(f)
		}
		p = mpb.New(
			mpb.WithOutput(out),
			mpb.WithRefreshRate(150*time.Millisecond),
			mpb.WithWidth(80),
		)
	}
	return &UploadUI{
		progress:   p,
		out:        out,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// Wrap matches api.ReaderWrapper: it adds a bar for name and returns a
// reader that advances it.
func (u *UploadUI) Wrap(name string, size int64, r io.Reader) io.Reader {
	fb := u.AddFileBar(name, size)
	return &barReader{r: r, fb: fb}
}

// AddFileBar creates the bar for the next file in upload order.
func (u *UploadUI) AddFileBar(name string, size int64) *FileBar {
	index := int(atomic.AddInt32(&u.started, 1))
	fb := &FileBar{
		ui:        u,
		index:     index,
		name:      name,
		size:      size,
		startTime: time.Now(),
	}

	label := fmt.Sprintf("[%d/%d] %s", index, u.totalFiles, truncatePath(name, 2))
	if u.isTerminal {
		fb.bar = u.progress.New(size,
			mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(label, decor.WCSyncSpaceR),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				decor.Name("  "),
				decor.Percentage(decor.WCSyncSpace),
				decor.Name("  "),
				decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 30, decor.WCSyncSpace),
			),
		)
	} else {
		fmt.Fprintf(u.out, "Uploading %s (%.1f MiB)\n", label, float64(size)/(1024*1024))
	}

	u.mu.Lock()
	u.bars = append(u.bars, fb)
	u.mu.Unlock()
	return fb
}

// add records n streamed bytes.
func (f *FileBar) add(n int, elapsed time.Duration) {
	f.sent.Add(int64(n))
	if f.bar != nil {
		f.bar.EwmaIncrBy(n, elapsed)
	}
}

// complete marks the file fully streamed.
func (f *FileBar) complete() {
	if !f.done.CompareAndSwap(false, true) {
		return
	}
	if f.bar != nil {
		f.bar.SetTotal(f.sent.Load(), true)
	}
}

// abort stops the bar, leaving it visible.
func (f *FileBar) abort() {
	if !f.done.CompareAndSwap(false, true) {
		return
	}
	if f.bar != nil {
		f.bar.Abort(false)
	}
}

// Sent returns the number of bytes read so far.
func (f *FileBar) Sent() int64 {
	return f.sent.Load()
}

// Finish closes every bar and prints a one-line outcome. Bars of files that
// never finished streaming are aborted when err is non-nil.
func (u *UploadUI) Finish(err error) {
	u.mu.Lock()
	bars := append([]*FileBar(nil), u.bars...)
	u.mu.Unlock()

	var total int64
	for _, fb := range bars {
		if err != nil {
			fb.abort()
		} else {
			fb.complete()
		}
		total += fb.Sent()
	}
	if u.progress != nil {
		u.progress.Wait()
	}

	if err != nil {
		fmt.Fprintf(u.out, "✗ upload of %d file(s) failed: %v\n", len(bars), err)
		return
	}
	fmt.Fprintf(u.out, "✓ streamed %d file(s), %.1f MiB\n", len(bars), float64(total)/(1024*1024))
}

// Writer returns an io.Writer that prints above the bars.
func (u *UploadUI) Writer() io.Writer {
	if u.progress != nil && u.isTerminal {
		return u.progress
	}
	return u.out
}

// IsTerminal reports whether bars are being drawn.
func (u *UploadUI) IsTerminal() bool {
	return u.isTerminal
}

type barReader struct {
	r    io.Reader
	fb   *FileBar
	last time.Time
}

func (br *barReader) Read(p []byte) (int, error) {
	if br.last.IsZero() {
		br.last = time.Now()
	}
	n, err := br.r.Read(p)
	now := time.Now()
	br.fb.add(n, now.Sub(br.last))
	br.last = now
	if err == io.EOF {
		br.fb.complete()
	}
	return n, err
}

// truncatePath keeps the last maxComponents elements of a path.
// Example: truncatePath("/a/b/c/d/file.txt", 3) → "…/c/d/file.txt"
func truncatePath(path string, maxComponents int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= maxComponents {
		return filepath.Base(path)
	}
	return "…/" + strings.Join(parts[len(parts)-maxComponents:], "/")
}
