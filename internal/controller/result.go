package controller

import "errors"

// Status is the outcome class of a controller operation.
type Status int

const (
	// StatusOK means the backend accepted the action.
	StatusOK Status = iota
	// StatusRejected means the action was refused locally before any request.
	StatusRejected
	// StatusCancelled means the user declined a confirmation or a save dialog.
	StatusCancelled
	// StatusFailed means the request failed or the backend answered non-2xx.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRejected:
		return "rejected"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what every operation returns. Message is the text shown to the
// user, if any; Path is set when a save wrote a file.
type Result struct {
	Status  Status
	Message string
	Path    string
	Err     error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Selection is what the two upload pickers hold: directories whose files are
// all uploaded, and individually chosen files.
type Selection struct {
	Folders []string
	Files   []string
}

// Empty reports whether nothing was picked in either selector.
func (s Selection) Empty() bool {
	return len(s.Folders) == 0 && len(s.Files) == 0
}

// Sentinel errors carried in Result.Err.
var (
	ErrNoSelection = errors.New("nothing selected for upload")
	ErrDeclined    = errors.New("confirmation declined")

	// ErrSaveCancelled is returned by a Saver when the user dismissed the
	// save prompt. The controller maps it to StatusCancelled without an alert.
	ErrSaveCancelled = errors.New("save cancelled")
)
