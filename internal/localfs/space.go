package localfs

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// spaceMargin is the headroom required on top of a download's declared size.
const spaceMargin = 1.05

// InsufficientSpaceError indicates the download directory's filesystem is too full.
type InsufficientSpaceError struct {
	Dir            string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space in %s: need %s, have %s available",
		e.Dir, humanize.IBytes(uint64(e.RequiredBytes)), humanize.IBytes(uint64(e.AvailableBytes)))
}

// CheckSpace returns an *InsufficientSpaceError when dir cannot hold size
// bytes plus margin. Unknown sizes and filesystems that cannot be queried pass.
func CheckSpace(dir string, size int64) error {
	if size <= 0 {
		return nil
	}
	available, ok := availableSpace(dir)
	if !ok {
		return nil
	}
	required := int64(float64(size) * spaceMargin)
	if available < required {
		return &InsufficientSpaceError{Dir: dir, RequiredBytes: required, AvailableBytes: available}
	}
	return nil
}
