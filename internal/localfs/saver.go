package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/canlog/canlog-client/internal/progress"
)

// DirSaver writes downloads into a fixed directory without asking. It never
// overwrites: a taken name becomes "name (1).ext", "name (2).ext" and so on.
type DirSaver struct {
	Dir string

	// NewReporter, when set, is called once per save to draw progress.
	NewReporter func() progress.Reporter
}

// Save copies r into Dir under name (base name only) and returns the path written.
func (s *DirSaver) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	if err := CheckSpace(dir, size); err != nil {
		return "", err
	}

	target := UniqueName(dir, SafeName(name))

	tmp, err := os.CreateTemp(dir, ".canlog-*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	reporter := progress.Reporter(progress.NewNoOpProgress())
	if s.NewReporter != nil {
		reporter = s.NewReporter()
	}
	reporter.Start(size, filepath.Base(target))

	src := progress.NewProgressReader(&ctxReader{ctx: ctx, r: r}, reporter)
	_, copyErr := io.Copy(tmp, src)
	closeErr := tmp.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		reporter.Error(copyErr)
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write %s: %w", filepath.Base(target), copyErr)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		reporter.Error(err)
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save %s: %w", filepath.Base(target), err)
	}
	reporter.Finish()

	return target, nil
}

// SafeName reduces a backend-supplied name to a plain file name that cannot
// leave the target directory. Names with nothing usable become "download".
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(name, "\x00", "")
	base := filepath.Base(filepath.FromSlash(name))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "download"
	}
	return base
}

// UniqueName returns dir/name, or the first "name (n).ext" variant that does not exist yet.
func UniqueName(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if _, err := os.Lstat(candidate); os.IsNotExist(err) {
		return candidate
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// ctxReader stops a copy once ctx is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
