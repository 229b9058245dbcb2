package localfs

// ListOptions configures the behavior of ListDirectory.
type ListOptions struct {
	// IncludeHidden includes hidden files (starting with .) in results.
	IncludeHidden bool

	// DirsFirst sorts directories ahead of files; otherwise entries keep
	// the lexical order os.ReadDir returns.
	DirsFirst bool
}

// WalkOptions configures the behavior of Walk.
type WalkOptions struct {
	// IncludeHidden includes hidden files and directories in the walk.
	IncludeHidden bool

	// SkipHiddenDirs skips descending into hidden directories entirely.
	// Only meaningful when IncludeHidden is false. The walk root itself is
	// never skipped, so an explicitly chosen hidden folder is still read.
	SkipHiddenDirs bool
}

// UploadWalkOptions is how a folder selection is expanded for upload.
func UploadWalkOptions(includeHidden bool) WalkOptions {
	return WalkOptions{IncludeHidden: includeHidden, SkipHiddenDirs: true}
}
