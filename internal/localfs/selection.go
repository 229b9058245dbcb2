package localfs

import (
	"errors"
	"fmt"
	"os"
)

// ErrNothingSelected is returned when neither folders nor files were given.
var ErrNothingSelected = errors.New("no folder or files selected")

// CollectUploads flattens a selection into upload order: every file found
// under each folder (recursively, in folder order then lexical order),
// followed by the individually chosen files as given. Hidden files inside
// folders are skipped unless includeHidden is set; individually chosen
// files are always kept. An empty folder contributes nothing.
func CollectUploads(folders, files []string, includeHidden bool) ([]string, error) {
	if len(folders) == 0 && len(files) == 0 {
		return nil, ErrNothingSelected
	}

	var out []string
	opts := UploadWalkOptions(includeHidden)
	for _, dir := range folders {
		err := WalkFiles(dir, opts, func(entry FileEntry) error {
			out = append(out, entry.Path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("cannot read folder %s: %w", dir, err)
		}
	}

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", f, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, select it as a folder", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// TotalSize sums the sizes of paths, ignoring any that cannot be stat'ed.
func TotalSize(paths []string) int64 {
	var total int64
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			total += info.Size()
		}
	}
	return total
}
